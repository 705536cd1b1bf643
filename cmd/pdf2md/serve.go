// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2md/internal/artifact"
	"github.com/pdiddy/pdf2md/internal/convert"
	"github.com/pdiddy/pdf2md/internal/engine"
	"github.com/pdiddy/pdf2md/internal/web"
	"github.com/pdiddy/pdf2md/pkg/types"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the PDF to Markdown web form",
	Long: `Serve starts the web form. The conversion engine is initialized once at
startup; if it cannot be created (no container runtime, missing image) the
command exits without serving. Converted documents stay downloadable for
server.download_ttl.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationDotenv: "true"},
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8501)")
	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := engine.New(ctx, cfg.Engine)
	if err != nil {
		var initErr *engine.InitError
		if errors.As(err, &initErr) {
			logger.Error("conversion engine unavailable", "backend", initErr.Backend, "error", initErr.Err)
		}
		return err
	}
	logger.Info("conversion engine ready", "backend", eng.BackendName())

	store, err := artifact.NewStore(cfg.Artifacts, cfg.Server.DownloadTTL)
	if err != nil {
		return fmt.Errorf("opening artifact store: %w", err)
	}
	defer store.Close()

	wf := convert.NewWorkflow(convert.NewSessionWith(eng), cfg.Conversion, convert.WithLogger(logger))
	srv, err := web.NewServer(wf, store, cfg.Server, logger)
	if err != nil {
		return err
	}

	go sweepArtifacts(ctx, store, sweepInterval(cfg.Server), logger)

	return listen(ctx, cfg.Server, srv.Handler(), logger)
}

func listen(ctx context.Context, cfg types.ServerConfig, h http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      0, // conversions can take minutes
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", cfg.Addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// sweepInterval checks a few times per TTL, but not more than once a
// minute.
func sweepInterval(cfg types.ServerConfig) time.Duration {
	return max(cfg.DownloadTTL/4, time.Minute)
}

type sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int, error)
}

func sweepArtifacts(ctx context.Context, s sweeper, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.Sweep(ctx, now)
			if err != nil {
				logger.Warn("sweeping artifacts", "error", err)
				continue
			}
			if n == 0 {
				continue
			}
			left, err := s.Count(ctx)
			if err != nil {
				logger.Warn("counting artifacts", "error", err)
				continue
			}
			logger.Debug("swept expired artifacts", "count", n, "remaining", left)
		}
	}
}
