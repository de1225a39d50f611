// Package markdown renders post bodies and derives plain-text summaries.
package markdown

import (
	"bytes"
	gohtml "html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()

	headingLine   = regexp.MustCompile(`(?m)^#{1,6}\s.*$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Render converts Markdown to sanitized HTML for full post display.
func Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// PlainText reduces Markdown to a single line of plain text. Heading
// lines are treated as noise and dropped, the rest is rendered and then
// stripped of every HTML tag. Malformed Markdown degrades to the raw
// text rather than failing.
func PlainText(content string) string {
	withoutHeadings := headingLine.ReplaceAllString(content, "")

	var buf bytes.Buffer
	if err := engine.Convert([]byte(withoutHeadings), &buf); err != nil {
		buf.Reset()
		buf.WriteString(withoutHeadings)
	}

	text := stripper.Sanitize(buf.String())
	text = gohtml.UnescapeString(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SummarizeWords returns the first maxWords words of the plain text with
// an ellipsis marker when the text was cut.
func SummarizeWords(content string, maxWords int) string {
	text := PlainText(content)
	if text == "" || maxWords <= 0 {
		return ""
	}

	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}

// SummarizeChars returns the plain text capped at maxChars characters.
func SummarizeChars(content string, maxChars int) string {
	return TruncateChars(PlainText(content), maxChars)
}

// TruncateChars caps s at max characters, replacing the tail with a
// three-dot ellipsis when it does not fit.
func TruncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
