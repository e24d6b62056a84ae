// Package markdown renders admin-authored club text to HTML.
package markdown

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// renderer escapes raw HTML in the source (WithUnsafe is not set).
var renderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// ToHTML converts markdown to an HTML fragment.
// PRE: none
// POST: Returns rendered HTML; on a renderer failure the escaped source wrapped in <p>
func ToHTML(md string) string {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(md), &buf); err != nil {
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return buf.String()
}
