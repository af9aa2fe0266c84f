// Package markdown converts assistant answers from Markdown to HTML.
//
// Conversion uses goldmark with the GitHub Flavored Markdown extensions and
// hard line breaks, so a single newline in an answer becomes <br>. Raw HTML
// in the input is passed through unchanged, which matches what the backend
// answers were written against.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/matzehuels/fatwa/pkg/errors"
)

// Converter turns Markdown into an HTML fragment. It is safe for concurrent
// use.
type Converter struct {
	md goldmark.Markdown
}

// New returns a Converter with GFM and hard wraps enabled.
func New() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Convert renders src to HTML.
func (c *Converter) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "convert markdown")
	}
	return buf.String(), nil
}

var std = New()

// ToHTML renders src with the default converter.
func ToHTML(src string) (string, error) {
	return std.Convert(src)
}

// Fallback returns src as escaped paragraphs with <br> line breaks. It is
// what callers show when conversion fails.
func Fallback(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	escaped := html.EscapeString(src)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>\n") + "</p>\n"
}
