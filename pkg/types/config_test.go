// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8501", cfg.Server.Addr)
	assert.Equal(t, BackendMarkitdown, cfg.Engine.Backend)
	assert.Equal(t, 1, cfg.Conversion.MaxConcurrent)
	assert.False(t, cfg.Conversion.Frontmatter)
	assert.Equal(t, ":memory:", cfg.Artifacts.DSN)
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "addr"},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "max_upload_bytes"},
		{"unknown backend", func(c *Config) { c.Engine.Backend = "ocr" }, "backend"},
		{"markitdown without image", func(c *Config) { c.Engine.Image = "" }, "image"},
		{"negative retries", func(c *Config) { c.Engine.MaxRetries = -1 }, "max_retries"},
		{"unknown runtime", func(c *Config) { c.Engine.Runtime = "lxc" }, "runtime"},
		{"zero concurrency", func(c *Config) { c.Conversion.MaxConcurrent = 0 }, "max_concurrent"},
		{"empty dsn", func(c *Config) { c.Artifacts.DSN = "" }, "dsn"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSub)
		})
	}
}

func TestConfig_PDFTextNeedsNoImage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.Backend = BackendPDFText
	cfg.Engine.Image = ""

	assert.NoError(t, cfg.Validate())
}
