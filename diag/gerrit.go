package diag

// GerritComment is the JSON form of a diagnostic as a draft review comment.
// https://gerrit-review.googlesource.com/Documentation/rest-api-changes.html#comment-input
type GerritComment struct {
	Unresolved bool   `json:"unresolved"`
	Path       string `json:"path"`
	Line       int    `json:"line"`
	Message    string `json:"message"`
}

// GerritReview is the document written for a change revision. A separate
// upload step posts Comments as drafts on the change.
type GerritReview struct {
	ChangeID int             `json:"change_id"`
	Revision int             `json:"revision"`
	Comments []GerritComment `json:"comments"`
}

// GerritComments converts diagnostics to unresolved Gerrit comments.
// The result is never nil so that it encodes as an empty JSON array.
func GerritComments(diags []Diagnostic) []GerritComment {
	out := make([]GerritComment, 0, len(diags))
	for _, d := range diags {
		out = append(out, GerritComment{
			Unresolved: true,
			Path:       d.Path,
			Line:       d.Line,
			Message:    d.Message,
		})
	}
	return out
}
