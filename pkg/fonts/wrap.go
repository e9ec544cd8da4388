package fonts

import (
	"strings"
	"unicode"
)

// Wrap breaks text into lines no wider than width, as measured by measure.
// Explicit newlines are kept. Lines break only at whitespace, and the break
// consumes the whitespace run it falls on; all other spacing, including
// leading indentation, is preserved. Words wider than width are split
// between runes.
func Wrap(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(para, width, measure)...)
	}
	return lines
}

// Wrap measures with m using the given face.
func (m *Metrics) Wrap(text string, s Style, size, width float64) []string {
	return Wrap(text, width, func(line string) float64 { return m.Width(line, s, size) })
}

func wrapParagraph(para string, width float64, measure func(string) float64) []string {
	var lines []string
	line := ""
	for _, tok := range tokens(para) {
		candidate := line + tok
		if measure(candidate) <= width || strings.TrimSpace(candidate) == "" {
			line = candidate
			continue
		}
		word := tok
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
			word = strings.TrimLeftFunc(tok, unicode.IsSpace)
		}
		if measure(word) <= width {
			line = word
			continue
		}
		pieces := splitWord(word, width, measure)
		lines = append(lines, pieces[:len(pieces)-1]...)
		line = pieces[len(pieces)-1]
	}
	return append(lines, line)
}

// tokens splits s into runs of whitespace followed by a word. A trailing
// whitespace run becomes its own token.
func tokens(s string) []string {
	var out []string
	start := 0
	inWord := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if inWord && space {
			out = append(out, s[start:i])
			start = i
		}
		inWord = !space
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func splitWord(w string, width float64, measure func(string) float64) []string {
	var out []string
	var cur []rune
	for _, r := range w {
		next := append(cur, r)
		if len(cur) > 0 && measure(string(next)) > width {
			out = append(out, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	return append(out, string(cur))
}
