package diag

import (
	"slices"
	"strings"
)

// Config controls which diagnostic codes are reported. The zero value
// reports everything.
type Config struct {
	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "jack*").
	Ignore []string

	// Only, when non-empty, restricts reporting to matching codes.
	// Ignore still wins over Only.
	Only []string
}

// ShouldReport returns true if a diagnostic with the given code should be
// reported under this configuration.
func (c Config) ShouldReport(code string) bool {
	if matchesAny(code, c.Ignore) {
		return false
	}
	if len(c.Only) > 0 && !matchesAny(code, c.Only) {
		return false
	}
	return true
}

func matchesAny(code string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(pattern string) bool {
		return MatchGlob(pattern, code)
	})
}

// MatchGlob performs simple glob matching with * wildcard.
func MatchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}
