package callout

import (
	"html"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// TextMode controls how annotation content becomes callout body text.
type TextMode string

const (
	// TextRaw shows content exactly as authored, markdown syntax included.
	TextRaw TextMode = "raw"
	// TextPlain renders markdown and keeps only its text.
	TextPlain TextMode = "plain"
)

var (
	stripOnce   sync.Once
	stripPolicy *bluemonday.Policy
)

func stripper() *bluemonday.Policy {
	stripOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// PlainText renders md and strips all markup, leaving one line per block.
func PlainText(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	rendered := markdown.ToHTML([]byte(md), nil, nil)
	text := html.UnescapeString(stripper().Sanitize(string(rendered)))

	var lines []string
	for line := range strings.Lines(text) {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m TextMode) apply(content string) string {
	if m == TextPlain {
		content = PlainText(content)
	}
	return norm.NFC.String(content)
}
