// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"fmt"
	"html/template"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// maxPreviewBytes bounds how much Markdown is rendered on the result page.
const maxPreviewBytes = 256 << 10

// Previewer renders converted Markdown as HTML for the result page. Raw
// HTML in the Markdown is omitted, so the output is safe to embed.
type Previewer struct {
	md goldmark.Markdown
}

// NewPreviewer returns a Previewer with GitHub Flavored Markdown enabled.
func NewPreviewer() *Previewer {
	return &Previewer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Render converts markdown to HTML. Input beyond maxPreviewBytes is cut
// and truncated reports it.
func (p *Previewer) Render(markdown string) (out template.HTML, truncated bool, err error) {
	if len(markdown) > maxPreviewBytes {
		markdown = markdown[:runeBoundary(markdown, maxPreviewBytes)]
		truncated = true
	}
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(markdown), &buf); err != nil {
		return "", truncated, fmt.Errorf("rendering preview: %w", err)
	}
	// goldmark escapes text and drops raw HTML without html.WithUnsafe.
	return template.HTML(buf.String()), truncated, nil
}

// runeBoundary returns the largest index <= n that does not split a UTF-8
// sequence in s.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
