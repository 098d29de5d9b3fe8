package diag

// Diagnostic codes emitted by the parser, the lint rules and the layout
// checks. Centralizing these prevents silent breakage from typos in string
// literals.

// Parser diagnostic codes.
const (
	CodeSyntaxError     = "syntax-error"
	CodeIndentation     = "indentation"
	CodeValueWhitespace = "value-whitespace"
	CodeValueQuoting    = "value-quoting"
)

// Lint rule diagnostic codes.
const (
	CodeVerbValue          = "verb-value"
	CodeSequenceCdev       = "sequence-cdev"
	CodeDeviceName         = "device-name"
	CodePCMMissing         = "pcm-missing"
	CodePCMPrefix          = "pcm-prefix"
	CodePCMForbidden       = "pcm-forbidden"
	CodeJackDevMissing     = "jackdev-missing"
	CodeJackDevPrefix      = "jackdev-prefix"
	CodeJackSwitchMissing  = "jackswitch-missing"
	CodeJackSwitchMismatch = "jackswitch-mismatch"
	CodeEDIDMissing        = "edid-missing"
	CodePlaybackChannels   = "playback-channels"
)

// Layout diagnostic codes.
const (
	CodePathName        = "path-name"
	CodePathPrefix      = "path-prefix"
	CodeCardConfContent = "card-conf-content"
	CodeMissingFile     = "missing-file"
)

// CodeInfo describes a diagnostic code and the phase that emits it.
type CodeInfo struct {
	Code  string
	Phase string
}

// AllCodes returns all known diagnostic codes grouped by phase.
func AllCodes() []CodeInfo {
	return []CodeInfo{
		// Parser
		{Code: CodeSyntaxError, Phase: "parser"},
		{Code: CodeIndentation, Phase: "parser"},
		{Code: CodeValueWhitespace, Phase: "parser"},
		{Code: CodeValueQuoting, Phase: "parser"},
		// Lint
		{Code: CodeVerbValue, Phase: "lint"},
		{Code: CodeSequenceCdev, Phase: "lint"},
		{Code: CodeDeviceName, Phase: "lint"},
		{Code: CodePCMMissing, Phase: "lint"},
		{Code: CodePCMPrefix, Phase: "lint"},
		{Code: CodePCMForbidden, Phase: "lint"},
		{Code: CodeJackDevMissing, Phase: "lint"},
		{Code: CodeJackDevPrefix, Phase: "lint"},
		{Code: CodeJackSwitchMissing, Phase: "lint"},
		{Code: CodeJackSwitchMismatch, Phase: "lint"},
		{Code: CodeEDIDMissing, Phase: "lint"},
		{Code: CodePlaybackChannels, Phase: "lint"},
		// Layout
		{Code: CodePathName, Phase: "layout"},
		{Code: CodePathPrefix, Phase: "layout"},
		{Code: CodeCardConfContent, Phase: "layout"},
		{Code: CodeMissingFile, Phase: "layout"},
	}
}
