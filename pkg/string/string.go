// Package string has small text helpers for request DTOs.
package string

import (
	"strings"
	"unicode"
)

// TrimStrings trims each non-nil target in place.
func TrimStrings(targets ...*string) {
	for _, t := range targets {
		if t == nil {
			continue
		}
		*t = strings.TrimSpace(*t)
	}
}

// TrimPtr returns a trimmed copy of an optional string; nil stays nil.
func TrimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	return &out
}

// ToSnakeCase turns a Go field name into its JSON key, keeping acronyms
// together: "SchemaURI" becomes "schema_uri" and "SvgID" becomes "svg_id".
func ToSnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// wordStart reports whether the upper-case rune at i begins a new word.
func wordStart(runes []rune, i int) bool {
	if unicode.IsLower(runes[i-1]) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
