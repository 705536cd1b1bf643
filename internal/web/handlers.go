// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pdiddy/pdf2md/internal/artifact"
	"github.com/pdiddy/pdf2md/internal/convert"
	"github.com/pdiddy/pdf2md/internal/httputil"
)

// handleForm serves the empty form.
// GET /
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.page())
}

// handleFormConvert runs a form submission and re-renders the page with
// the outcome. The server keeps serving whatever the outcome.
// POST /convert
func (s *Server) handleFormConvert(w http.ResponseWriter, r *http.Request) {
	upload, rawURL, err := s.readSubmission(w, r)
	if err != nil {
		var re *requestError
		errors.As(err, &re)
		data := s.page()
		data.Kind, data.Message, data.URL = "error", re.msg, rawURL
		s.render(w, r, re.status, data)
		return
	}

	res := s.workflow.Run(r.Context(), upload, rawURL)
	data := s.page()
	data.URL = strings.TrimSpace(rawURL)

	switch res.Status {
	case convert.StatusWarned:
		data.Kind, data.Message = "warning", userMessage(res)
		s.render(w, r, statusFor(res), data)
		return
	case convert.StatusFailed:
		data.Kind, data.Message = "error", userMessage(res)
		s.render(w, r, statusFor(res), data)
		return
	}

	a, err := s.store.Put(r.Context(), res.Filename, res.Markdown)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "storing artifact", "filename", res.Filename, "error", err)
		data.Kind, data.Message = "error", "The document was converted but could not be stored for download. Please try again."
		s.render(w, r, http.StatusInternalServerError, data)
		return
	}

	data.Kind = "success"
	data.Message = "Conversion completed successfully!"
	data.Filename = res.Filename
	data.DownloadURL = "/download/" + a.ID
	data.Bytes = len(res.Markdown)
	data.URLIgnored = res.URLIgnored

	preview, truncated, err := s.preview.Render(res.Markdown)
	if err != nil {
		s.logger.WarnContext(r.Context(), "rendering preview", "filename", res.Filename, "error", err)
	} else {
		data.Preview, data.PreviewTruncated = preview, truncated
	}
	s.render(w, r, http.StatusOK, data)
}

// handleAPIConvert converts a multipart upload (field "file") or a URL
// (field or query parameter "url"). Success returns the Markdown as an
// attachment; failures are problem+json.
// POST /api/convert
func (s *Server) handleAPIConvert(w http.ResponseWriter, r *http.Request) {
	upload, rawURL, err := s.readSubmission(w, r)
	if err != nil {
		var re *requestError
		errors.As(err, &re)
		httputil.RespondProblem(w, re.status, kindInput, re.msg)
		return
	}

	res := s.workflow.Run(r.Context(), upload, rawURL)
	if !res.OK() {
		httputil.RespondProblem(w, statusFor(res), problemKind(res), res.Message())
		return
	}

	if res.URLIgnored {
		w.Header().Set(urlIgnoredHeader, "true")
	}
	writeAttachment(w, res.Filename, res.Markdown)
}

// handleDownload serves a stored conversion result.
// GET /download/{id}
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, artifact.ErrNotFound) {
		http.Error(w, "download not found or expired", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "loading artifact", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeAttachment(w, a.Filename, a.Markdown)
}

// handleHealth reports liveness.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) page() pageData {
	return pageData{MaxUploadMB: s.cfg.MaxUploadBytes >> 20}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "rendering page", "error", err)
	}
}
