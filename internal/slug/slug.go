package slug

import "strings"

// Make converts human readable text to a URL-safe slug: lower-case,
// keep ASCII letters and digits, collapse everything else into a single
// hyphen. Uniqueness is the caller's concern.
func Make(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	pending := false
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			pending = false
		default:
			if !pending && b.Len() > 0 {
				b.WriteByte('-')
				pending = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
