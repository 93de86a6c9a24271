// Package slug derives URL and filename safe tokens from display names.
package slug

import "strings"

// FromName lowercases s and collapses every run of non-alphanumeric
// characters into a single dash.
func FromName(s string) string {
	var b strings.Builder
	dash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "upload"
	}
	return out
}
