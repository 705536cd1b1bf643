// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/pdiddy/pdf2md/internal/engine"
)

const (
	mdExt       = ".md"
	defaultStem = "document"
)

// Engine is the conversion engine as seen by the workflow.
// *engine.Engine satisfies it.
type Engine interface {
	Convert(ctx context.Context, source string) (*engine.Document, error)
}

// Invoke passes src to eng and returns the exported Markdown. Local paths
// and URLs go to the engine as-is; the engine does any fetching. Every
// engine failure comes back as a *ConversionError carrying the engine's
// message. Nothing is retried.
func Invoke(ctx context.Context, eng Engine, src Source) (string, error) {
	switch src.Kind {
	case SourceLocalPath:
		if src.Value == "" {
			return "", &ConversionError{Message: fmt.Sprintf("no file to convert for %s", src.Display())}
		}
	case SourceRemoteURL:
		if err := checkURL(src.Value); err != nil {
			return "", err
		}
	default:
		return "", &ConversionError{Message: fmt.Sprintf("unsupported source kind %s", src.Kind)}
	}

	doc, err := eng.Convert(ctx, src.Value)
	if err != nil {
		return "", &ConversionError{Message: err.Error(), Err: err}
	}
	return doc.ExportToMarkdown(), nil
}

// checkURL keeps text typed into the URL field from being read as a local
// path by the engine.
func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &ConversionError{Message: fmt.Sprintf("invalid URL %q", raw), Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConversionError{Message: fmt.Sprintf("invalid URL %q: must start with http:// or https://", raw)}
	}
	return nil
}

// OutputFilename derives the suggested download name for src. Local
// sources use the original filename, URLs their last path segment; in both
// cases the last extension is replaced by ".md". Identical inputs always
// give identical names.
func OutputFilename(src Source) string {
	switch src.Kind {
	case SourceRemoteURL:
		return urlFilename(src.Value)
	default:
		name := src.Filename
		if name == "" {
			name = src.Value
		}
		return stemOf(baseName(name)) + mdExt
	}
}

func urlFilename(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return urlHashSlug(raw) + mdExt
	}
	seg := path.Base(u.Path)
	stem := strings.TrimSuffix(seg, path.Ext(seg))
	if stem == "" || stem == "." || stem == ".." || stem == "/" {
		return urlHashSlug(raw) + mdExt
	}
	return stem + mdExt
}

// baseName strips directories using either separator, since browsers on
// Windows may send full client paths as the upload filename.
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func stemOf(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	if stem == "" || stem == "." || stem == ".." {
		return defaultStem
	}
	return stem
}

// urlHashSlug names URL sources that have no usable path segment.
func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("url-%x", h[:8])
}
