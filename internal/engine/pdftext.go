// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// blankRuns collapses three or more newlines into one blank line.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// PDFTextBackend extracts the embedded text layer in-process. Scanned
// (image-only) pages yield no text; a document with no text at all is an
// error rather than an empty Markdown file.
type PDFTextBackend struct{}

// NewPDFTextBackend returns the pure-Go backend. It needs no setup.
func NewPDFTextBackend() *PDFTextBackend {
	return &PDFTextBackend{}
}

func (b *PDFTextBackend) Name() string { return "pdftext" }

// Convert writes one section per page, each preceded by a page marker
// comment.
func (b *PDFTextBackend) Convert(ctx context.Context, data []byte) (md string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			md, err = "", fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	fonts := make(map[string]*pdf.Font)
	var out strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("reading page %d: %w", i, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		fmt.Fprintf(&out, "<!-- page %d -->\n\n", i)
		out.WriteString(text)
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("%w: no text layer found", ErrEmptyOutput)
	}
	return blankRuns.ReplaceAllString(out.String(), "\n\n") + "\n", nil
}
