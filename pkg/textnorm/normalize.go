// Package textnorm canonicalizes text pulled out of table cells and headers.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invisible reports runes that render as nothing: zero-width joiners and
// spaces, bidi marks, the BOM, soft hyphens and C0/C1 controls that are not
// ordinary whitespace.
func invisible(r rune) bool {
	switch {
	case r >= 0x200B && r <= 0x200F, // zero-width space/non-joiner/joiner, LRM, RLM
		r >= 0x202A && r <= 0x202E, // bidi embeddings and overrides
		r >= 0x2060 && r <= 0x2064, // word joiner, invisible operators
		r >= 0x2066 && r <= 0x2069, // bidi isolates
		r == 0xFEFF, r == 0x00AD, r == 0x180E:
		return true
	case unicode.IsControl(r):
		return !unicode.IsSpace(r)
	}
	return false
}

var stripInvisible = transform.Chain(runes.Remove(runes.Predicate(invisible)), norm.NFC)

// sortGlyphs are the arrow and triangle characters grid widgets render next to
// a sorted column's label.
const sortGlyphs = "↑↓▲▼⬆⬇△▽▴▾▵▿⇅⇵↕⇧⇩"

func isSortGlyph(r rune) bool {
	return strings.ContainsRune(sortGlyphs, r)
}

func isSortWord(tok string) bool {
	switch strings.ToLower(tok) {
	case "asc", "desc", "ascending", "descending":
		return true
	}
	return false
}

// Normalize collapses whitespace, strips invisible characters, sort glyphs
// and standalone asc/desc words, and trims the result. Normalize is
// idempotent.
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	cleaned, _, err := transform.String(stripInvisible, input)
	if err != nil {
		cleaned = input
	}

	fields := strings.FieldsFunc(cleaned, func(r rune) bool {
		return unicode.IsSpace(r) || isSortGlyph(r)
	})

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, tok := range fields {
		if isSortWord(tok) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}

// IsBlank reports whether s has no visible content once normalized.
func IsBlank(s string) bool {
	return Normalize(s) == ""
}
