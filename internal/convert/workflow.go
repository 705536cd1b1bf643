// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/pdf2md/pkg/types"
)

const uploadSuffix = ".pdf"

// Workflow runs requests through resolve, transient file, invoke and
// result. One Workflow is shared by all requests of a process.
type Workflow struct {
	session     *Session
	temps       TempFiles
	frontmatter bool
	slots       chan struct{}
	logger      *slog.Logger
	now         func() time.Time
}

// WorkflowOption customizes a Workflow.
type WorkflowOption func(*Workflow)

// WithTempFiles replaces the transient file manager.
func WithTempFiles(t TempFiles) WorkflowOption {
	return func(w *Workflow) { w.temps = t }
}

// WithLogger sets the logger for conversion events.
func WithLogger(l *slog.Logger) WorkflowOption {
	return func(w *Workflow) { w.logger = l }
}

// withClock overrides time.Now, used for durations and front matter.
func withClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) { w.now = now }
}

// NewWorkflow builds a workflow around session using cfg.
func NewWorkflow(session *Session, cfg types.ConversionConfig, opts ...WorkflowOption) *Workflow {
	slots := cfg.MaxConcurrent
	if slots < 1 {
		slots = 1
	}
	w := &Workflow{
		session:     session,
		frontmatter: cfg.Frontmatter,
		slots:       make(chan struct{}, slots),
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.temps == nil {
		w.temps = TempDir{Dir: cfg.TempDir, Logger: w.logger}
	}
	return w
}

// Run handles one form submission. With no upload and no URL it returns a
// warning without touching temp files or the engine.
func (w *Workflow) Run(ctx context.Context, upload *Upload, rawURL string) Result {
	src, err := Resolve(upload, rawURL)
	if err != nil {
		w.logger.InfoContext(ctx, "conversion skipped", "reason", err)
		return Result{Status: StatusWarned, Err: err}
	}

	res := w.RunSource(ctx, src)
	res.URLIgnored = upload != nil && strings.TrimSpace(rawURL) != ""
	return res
}

// RunSource converts an already resolved source. Uploads are written to a
// transient file that is removed before RunSource returns.
func (w *Workflow) RunSource(ctx context.Context, src Source) (res Result) {
	start := w.now()
	defer func() {
		if r := recover(); r != nil {
			w.logger.ErrorContext(ctx, "conversion panicked", "source", src.Display(), "panic", r)
			res = w.failed(ctx, src, start, &ConversionError{Message: fmt.Sprintf("conversion crashed: %v", r)})
		}
	}()

	eng, err := w.session.Engine(ctx)
	if err != nil {
		return w.failed(ctx, src, start, err)
	}

	release, err := w.acquire(ctx)
	if err != nil {
		return w.failed(ctx, src, start, err)
	}
	defer release()

	var md string
	if src.FromUpload() {
		err = w.temps.With(src.data, uploadSuffix, func(path string) error {
			local := src
			local.Value = path
			var ierr error
			md, ierr = Invoke(ctx, eng, local)
			return ierr
		})
	} else {
		md, err = Invoke(ctx, eng, src)
	}
	if err != nil {
		return w.failed(ctx, src, start, err)
	}

	if w.frontmatter {
		md, err = addFrontmatter(src, md, w.now())
		if err != nil {
			return w.failed(ctx, src, start, &ConversionError{Message: err.Error(), Err: err})
		}
	}

	res = Result{
		Status:   StatusSucceeded,
		Markdown: md,
		Filename: OutputFilename(src),
		Source:   src,
		Duration: w.now().Sub(start),
	}
	w.logger.InfoContext(ctx, "converted",
		"source", src.Display(),
		"kind", src.Kind.String(),
		"filename", res.Filename,
		"bytes", len(md),
		"duration", res.Duration,
	)
	return res
}

func (w *Workflow) acquire(ctx context.Context) (func(), error) {
	select {
	case w.slots <- struct{}{}:
		return func() { <-w.slots }, nil
	case <-ctx.Done():
		return nil, &ConversionError{Message: "gave up waiting for a free converter", Err: ctx.Err()}
	}
}

func (w *Workflow) failed(ctx context.Context, src Source, start time.Time, err error) Result {
	w.logger.WarnContext(ctx, "conversion failed", "source", src.Display(), "kind", src.Kind.String(), "error", err)
	return Result{
		Status:   StatusFailed,
		Source:   src,
		Err:      err,
		Duration: w.now().Sub(start),
	}
}
