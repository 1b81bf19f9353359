// Package namer assembles descriptive filenames and moves renamed photos
// into the library.
package namer

import (
	"regexp"
	"strings"
	"time"
)

// dateToken formats the leading capture-date token.
const dateToken = "2006-01-02"

// generatedName matches filenames this package produced earlier: a date
// token followed by one or more underscore-separated lowercase tokens.
var generatedName = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(_[a-z0-9-]+)+$`)

// IsGeneratedName reports whether a filename (without directory) already
// carries the generated naming grammar and needs no processing.
func IsGeneratedName(filename string) bool {
	base := filename
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return generatedName.MatchString(base)
}

// Assemble builds the final filename stem: capture date, the people present
// joined with "_and_", and the scene description. Empty name lists omit the
// people segment entirely.
func Assemble(captureDate time.Time, names []string, description string) string {
	parts := make([]string, 0, 3)
	parts = append(parts, captureDate.Format(dateToken))
	if len(names) > 0 {
		parts = append(parts, strings.Join(names, "_and_"))
	}
	if desc := sanitizeDescription(description); desc != "" {
		parts = append(parts, desc)
	}
	return strings.Join(parts, "_")
}

// sanitizeDescription lowercases the description and reduces it to
// filesystem-safe tokens. Hyphens survive so fallback timestamp tokens keep
// their shape.
func sanitizeDescription(description string) string {
	description = strings.ToLower(strings.TrimSpace(description))
	var b strings.Builder
	lastSep := true
	for _, r := range description {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastSep = false
		default:
			if !lastSep {
				b.WriteByte('_')
				lastSep = true
			}
		}
	}
	return strings.Trim(b.String(), "_-")
}
