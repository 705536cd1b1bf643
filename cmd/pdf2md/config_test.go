// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md/internal/engine"
	"github.com/pdiddy/pdf2md/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PDF2MD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func TestConfigFrom_Defaults(t *testing.T) {
	cfg, err := configFrom(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestConfigFrom_Environment(t *testing.T) {
	t.Setenv("PDF2MD_SERVER_ADDR", ":9000")
	t.Setenv("PDF2MD_SERVER_DOWNLOAD_TTL", "10m")
	t.Setenv("PDF2MD_ENGINE_BACKEND", "pdftext")
	t.Setenv("PDF2MD_CONVERT_MAX_CONCURRENT", "4")
	t.Setenv("PDF2MD_CONVERT_FRONTMATTER", "true")

	cfg, err := configFrom(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Server.DownloadTTL)
	assert.Equal(t, types.BackendPDFText, cfg.Engine.Backend)
	assert.Equal(t, 4, cfg.Conversion.MaxConcurrent)
	assert.True(t, cfg.Conversion.Frontmatter)
}

func TestConfigFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdf2md.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\nlog:\n  format: json\n"), 0o644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := configFrom(v)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, types.LogJSON, cfg.Log.Format)
	assert.Equal(t, "markitdown:latest", cfg.Engine.Image)
}

func TestConfigFrom_Invalid(t *testing.T) {
	t.Setenv("PDF2MD_ENGINE_BACKEND", "tesseract")

	_, err := configFrom(newTestViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       types.LogConfig
		wantDebug bool
		wantJSON  bool
	}{
		{"text info", types.LogConfig{Level: "info", Format: types.LogText}, false, false},
		{"json debug", types.LogConfig{Level: "debug", Format: types.LogJSON}, true, true},
		{"empty defaults to info", types.LogConfig{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tt.cfg, &buf)
			logger.Debug("debug line")
			logger.Info("info line")

			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug line"))
			assert.Contains(t, buf.String(), "info line")
			assert.Equal(t, tt.wantJSON, strings.HasPrefix(buf.String(), "{"))
		})
	}
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, 15*time.Minute, sweepInterval(types.ServerConfig{DownloadTTL: time.Hour}))
	assert.Equal(t, time.Minute, sweepInterval(types.ServerConfig{DownloadTTL: time.Second}))
}

type countingSweeper struct {
	calls  atomic.Int32
	counts atomic.Int32
	err    error
}

func (c *countingSweeper) Count(context.Context) (int, error) {
	c.counts.Add(1)
	return 3, nil
}

func (c *countingSweeper) Sweep(context.Context, time.Time) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestSweepArtifacts_StopsWithContext(t *testing.T) {
	for _, sweepErr := range []error{nil, errors.New("locked")} {
		s := &countingSweeper{err: sweepErr}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			sweepArtifacts(ctx, s, time.Millisecond, newLogger(types.LogConfig{}, &bytes.Buffer{}))
			close(done)
		}()

		require.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, time.Millisecond)
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop")
		}

		if sweepErr == nil {
			assert.Positive(t, s.counts.Load())
		} else {
			assert.Zero(t, s.counts.Load())
		}
	}
}

func TestEngineFactory(t *testing.T) {
	cfg := types.DefaultConfig().Engine
	cfg.Backend = types.BackendPDFText

	eng, err := engineFactory(cfg)(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, eng)

	cfg.Backend = "tesseract"
	eng, err = engineFactory(cfg)(context.Background())
	var initErr *engine.InitError
	require.True(t, errors.As(err, &initErr))
	assert.True(t, eng == nil, "failed factory must return a nil interface")
}
