// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"errors"
	"html/template"
	"mime"
	"net/http"

	"github.com/pdiddy/pdf2md/internal/convert"
	"github.com/pdiddy/pdf2md/internal/engine"
)

const (
	markdownContentType = "text/markdown; charset=utf-8"
	urlIgnoredHeader    = "X-Pdf2md-Url-Ignored"

	noInputMessage = "Please upload a file or enter a URL first."
)

// Problem kinds reported by the API.
const (
	kindInput      = "input"
	kindNoInput    = "no_input"
	kindConversion = "conversion"
	kindEngine     = "engine_unavailable"
	kindCanceled   = "canceled"
	kindInternal   = "internal"
)

// pageData feeds templates/index.html.
type pageData struct {
	// Kind is "success", "warning" or "error"; empty for the bare form.
	Kind    string
	Message string

	URL         string
	MaxUploadMB int64

	Filename         string
	DownloadURL      string
	Bytes            int
	Preview          template.HTML
	PreviewTruncated bool
	URLIgnored       bool
}

// statusFor maps a workflow result to an HTTP status.
func statusFor(res convert.Result) int {
	switch res.Status {
	case convert.StatusSucceeded:
		return http.StatusOK
	case convert.StatusWarned:
		return http.StatusBadRequest
	}

	var initErr *engine.InitError
	switch {
	case errors.As(res.Err, &initErr):
		return http.StatusServiceUnavailable
	case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case isConversionError(res.Err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// problemKind names the failure class for API clients.
func problemKind(res convert.Result) string {
	if res.Status == convert.StatusWarned {
		return kindNoInput
	}
	var initErr *engine.InitError
	switch {
	case errors.As(res.Err, &initErr):
		return kindEngine
	case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
		return kindCanceled
	case isConversionError(res.Err):
		return kindConversion
	default:
		return kindInternal
	}
}

func isConversionError(err error) bool {
	var ce *convert.ConversionError
	return errors.As(err, &ce)
}

// userMessage is the text shown for a warning or failure.
func userMessage(res convert.Result) string {
	if res.Status == convert.StatusWarned {
		return noInputMessage
	}
	var initErr *engine.InitError
	if errors.As(res.Err, &initErr) {
		return "The converter is not available: " + initErr.Err.Error()
	}
	return "Conversion failed: " + res.Message()
}

// writeAttachment sends markdown as a download named filename.
func writeAttachment(w http.ResponseWriter, filename, markdown string) {
	w.Header().Set("Content-Type", markdownContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markdown))
}
