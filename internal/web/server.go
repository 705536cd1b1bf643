// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the single-page conversion form, the conversion API
// and downloads of converted documents.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"

	"github.com/pdiddy/pdf2md/internal/artifact"
	"github.com/pdiddy/pdf2md/internal/convert"
	"github.com/pdiddy/pdf2md/pkg/types"
)

//go:embed templates/*.html
var templates embed.FS

// ArtifactStore keeps converted documents for later download.
// *artifact.Store satisfies it.
type ArtifactStore interface {
	Put(ctx context.Context, filename, markdown string) (artifact.Artifact, error)
	Get(ctx context.Context, id string) (artifact.Artifact, error)
}

// Server holds the handlers and their dependencies.
type Server struct {
	workflow *convert.Workflow
	store    ArtifactStore
	cfg      types.ServerConfig
	logger   *slog.Logger
	pages    *template.Template
	preview  *Previewer
}

// NewServer parses the embedded templates and returns a server ready to
// be mounted with Handler.
func NewServer(wf *convert.Workflow, store ArtifactStore, cfg types.ServerConfig, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pages, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Server{
		workflow: wf,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		pages:    pages,
		preview:  NewPreviewer(),
	}, nil
}

// Handler returns the routed handler with middleware applied.
// Order: Recovery -> RequestLog -> CORS (api only) -> routes.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/convert", s.handleAPIConvert)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /convert", s.handleFormConvert)
	mux.HandleFunc("GET /download/{id}", s.handleDownload)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/api/", s.cors().Handler(api))

	var h http.Handler = mux
	h = RequestLog(s.logger)(h)
	h = Recovery(s.logger)(h)
	return h
}

func (s *Server) cors() *cors.Cors {
	var origins []string
	for _, o := range strings.Split(s.cfg.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
		ExposedHeaders: []string{"Content-Disposition", urlIgnoredHeader},
	})
}
