// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine is the document-conversion engine behind pdf2md. It turns
// a local PDF path or a remote PDF URL into a Document whose Markdown can
// be exported. Fetching remote URLs and validating PDF bytes happen here;
// the Markdown itself comes from a pluggable Backend (the markitdown
// container or the pure-Go text-layer extractor).
package engine

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/pdiddy/pdf2md/internal/container"
	"github.com/pdiddy/pdf2md/internal/httputil"
	"github.com/pdiddy/pdf2md/pkg/types"
)

// pdfMagic must appear within the first headerWindow bytes of a PDF.
const (
	pdfMagic     = "%PDF-"
	headerWindow = 1024
)

// Backend converts validated PDF bytes into Markdown text.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// Convert returns the Markdown for pdf.
	Convert(ctx context.Context, pdf []byte) (string, error)
}

// Document is the result of one engine conversion.
type Document struct {
	// Source is the path or URL that was converted.
	Source string

	// Backend names the backend that produced the Markdown.
	Backend string

	markdown string
}

// NewDocument wraps Markdown produced outside an Engine.
func NewDocument(source, backend, markdown string) *Document {
	return &Document{Source: source, Backend: backend, markdown: markdown}
}

// ExportToMarkdown returns the document as Markdown text.
func (d *Document) ExportToMarkdown() string {
	return d.markdown
}

// Engine converts PDFs from paths or URLs. It is safe for concurrent use
// once constructed.
type Engine struct {
	backend Backend
	client  *http.Client
	fetch   httputil.FetchOptions
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithBackend injects a backend instead of building one from the config.
func WithBackend(b Backend) Option {
	return func(e *Engine) { e.backend = b }
}

// WithHTTPClient replaces the client used to fetch remote PDFs.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// New initializes the engine described by cfg. Initialization may be
// expensive (runtime detection, image checks), so callers create one
// Engine per process and share it. Any failure is an *InitError.
func New(ctx context.Context, cfg types.EngineConfig, opts ...Option) (*Engine, error) {
	e := &Engine{
		client: &http.Client{Timeout: cfg.Timeout},
		fetch: httputil.FetchOptions{
			UserAgent:  cfg.UserAgent,
			Accept:     "application/pdf",
			MaxBytes:   cfg.MaxFetchBytes,
			MaxRetries: cfg.MaxRetries,
		},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.backend == nil {
		b, err := newBackend(ctx, cfg)
		if err != nil {
			return nil, &InitError{Backend: string(cfg.Backend), Err: err}
		}
		e.backend = b
	}
	return e, nil
}

func newBackend(ctx context.Context, cfg types.EngineConfig) (Backend, error) {
	switch cfg.Backend {
	case types.BackendMarkitdown:
		rt, err := container.Open(ctx, cfg.Runtime)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownBackend(ctx, rt, cfg.Image)
	case types.BackendPDFText:
		return NewPDFTextBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// BackendName reports which backend the engine uses.
func (e *Engine) BackendName() string {
	return e.backend.Name()
}

// Convert loads source (a URL when IsURL reports so, otherwise a
// filesystem path), checks that it is a PDF and runs it through the
// backend.
func (e *Engine) Convert(ctx context.Context, source string) (*Document, error) {
	data, err := e.load(ctx, source)
	if err != nil {
		return nil, err
	}

	if !isPDF(data) {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, source)
	}

	md, err := e.backend.Convert(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("converting with %s: %w", e.backend.Name(), err)
	}
	if strings.TrimSpace(md) == "" {
		return nil, fmt.Errorf("%w: %s produced no text for %s", ErrEmptyOutput, e.backend.Name(), source)
	}

	return NewDocument(source, e.backend.Name(), md), nil
}

func (e *Engine) load(ctx context.Context, source string) ([]byte, error) {
	if IsURL(source) {
		data, err := httputil.Fetch(ctx, e.client, source, e.fetch)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}

// IsURL reports whether source should be fetched rather than read from
// disk: it starts with http:// or https://, in any case. Anything else,
// including other schemes, is a filesystem path.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isPDF(data []byte) bool {
	head := data
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	return bytes.Contains(head, []byte(pdfMagic))
}
