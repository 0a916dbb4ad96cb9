package layout

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer prepares text for one font. It is chosen once per render
// and used for every measurement and draw call.
type TextNormalizer interface {
	// Normalize returns display-safe UTF-8 text for the font.
	Normalize(s string) string
	// Encode converts normalized text into the byte form the canvas expects.
	Encode(s string) string
	// Unicode reports whether the font covers the full character set.
	Unicode() bool
}

// SelectNormalizer returns the Unicode strategy when fontPath names an
// existing TrueType file, the Latin-1 fallback otherwise.
func SelectNormalizer(fontPath string) TextNormalizer {
	if fontPath == "" || !strings.EqualFold(filepath.Ext(fontPath), ".ttf") {
		return Latin1Text{}
	}
	if info, err := os.Stat(fontPath); err != nil || info.IsDir() {
		return Latin1Text{}
	}
	return UnicodeText{}
}

// Sanitize normalizes line endings, turns tabs into spaces and drops every
// other control character. Newlines are kept.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, norm.NFC.String(s))
}

// UnicodeText is used with an embedded full-coverage font. Nothing degrades.
type UnicodeText struct{}

func (UnicodeText) Normalize(s string) string { return Sanitize(s) }
func (UnicodeText) Encode(s string) string    { return s }
func (UnicodeText) Unicode() bool             { return true }

// asciiFallback maps typographic characters to plain equivalents before
// Windows-1252 encoding.
var asciiFallback = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u2032", "'",
	"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u2033", `"`,
	"\u2013", "-", "\u2014", "-", "\u2212", "-", "\u2010", "-",
	"\u2026", "...",
	"\u2022", "-", "\u25cf", "-", "\u25aa", "-",
	"\u00a0", " ", "\u202f", " ",
	"\u200b", "", "\ufeff", "",
)

// placeholder replaces characters the core fonts cannot draw.
const placeholder = '?'

// Latin1Text degrades text for the built-in PDF fonts, which only cover
// Windows-1252. It never fails.
type Latin1Text struct{}

func (Latin1Text) Unicode() bool { return false }

func (Latin1Text) Normalize(s string) string {
	s = asciiFallback.Replace(Sanitize(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return placeholder
		}
		return r
	}, s)
}

func (Latin1Text) Encode(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = placeholder
		}
		buf = append(buf, b)
	}
	return string(buf)
}
