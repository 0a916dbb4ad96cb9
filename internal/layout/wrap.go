package layout

import "strings"

// MeasureFunc returns the rendered width of s in document units.
type MeasureFunc func(s string) float64

// Wrap breaks text into lines no wider than width. Paragraphs split on
// newlines, words on whitespace; a word wider than the line is broken
// between characters. Blank lines inside the text are kept, trailing ones
// dropped. Empty text yields a single empty line.
func Wrap(text string, width float64, measure MeasureFunc) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, width, measure)...)
	}
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func wrapParagraph(para string, width float64, measure MeasureFunc) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		for measure(w) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			head, tail := splitToWidth(w, width, measure)
			lines = append(lines, head)
			w = tail
		}

		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if measure(candidate) <= width {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// splitToWidth returns the longest prefix of w that fits, and the rest.
// At least one character is always taken.
func splitToWidth(w string, width float64, measure MeasureFunc) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
