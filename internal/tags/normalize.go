package tags

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes characters and drops combining marks, so
// "Zoë" and "Zoe" normalize to the same token.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName converts a raw person name into the filename token form used
// throughout the pipeline: lowercase ASCII, words joined by single
// underscores, nothing outside [a-z0-9_]. Returns "" when nothing usable
// remains; callers drop such entries.
func NormalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if folded, _, err := transform.String(diacriticStripper, trimmed); err == nil {
		trimmed = folded
	}
	lowered := strings.ToLower(trimmed)

	var b strings.Builder
	b.Grow(len(lowered))
	lastUnderscore := false
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r), r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			// stripped entirely; adjacent words stay joined only through
			// explicit whitespace or underscores
		}
	}
	return strings.Trim(b.String(), "_")
}

// NormalizeNames maps NormalizeName over a list, dropping entries that
// normalize to nothing and preserving input order.
func NormalizeNames(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		if normalized := NormalizeName(name); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}
