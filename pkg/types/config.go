// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration shared by the pdf2md commands
// and the packages they wire together.
package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ConversionBackend identifies the engine backend that turns PDF bytes
// into Markdown.
type ConversionBackend string

const (
	BackendMarkitdown ConversionBackend = "markitdown"
	BackendPDFText    ConversionBackend = "pdftext"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// ServerConfig holds settings for the HTTP form server.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8501").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadTimeout bounds reading a whole request, upload included.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// MaxUploadBytes caps the size of an uploaded PDF.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// CORSOrigins is a comma-separated list of origins allowed on /api/.
	CORSOrigins string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`

	// DownloadTTL is how long a converted document stays downloadable.
	DownloadTTL time.Duration `json:"download_ttl" yaml:"download_ttl" mapstructure:"download_ttl"`
}

// EngineConfig holds settings for the external conversion engine.
type EngineConfig struct {
	// Backend selects the conversion tool: markitdown or pdftext.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Runtime forces "docker" or "podman" for the markitdown backend.
	// Empty means detect, trying docker first.
	Runtime string `json:"runtime" yaml:"runtime" mapstructure:"runtime"`

	// Image is the container image used by the markitdown backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Timeout is the HTTP timeout for fetching remote PDFs.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent when fetching remote PDFs.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxFetchBytes caps the size of a fetched PDF.
	MaxFetchBytes int64 `json:"max_fetch_bytes" yaml:"max_fetch_bytes" mapstructure:"max_fetch_bytes"`

	// MaxRetries is the number of retries on rate limiting or gateway
	// errors while fetching. 0 turns retries off.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ConversionConfig holds settings for the upload-or-URL workflow.
type ConversionConfig struct {
	// TempDir is where uploads are materialized. Empty means os.TempDir().
	TempDir string `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`

	// Frontmatter prepends YAML front matter to converted documents.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`

	// MaxConcurrent bounds simultaneous engine calls (default 1).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ArtifactConfig holds settings for the download artifact store.
type ArtifactConfig struct {
	// DSN is the sqlite data source name (":memory:" by default).
	DSN string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string    `json:"level" yaml:"level" mapstructure:"level"`
	Format LogFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for pdf2md.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
	Engine     EngineConfig     `json:"engine" yaml:"engine" mapstructure:"engine"`
	Conversion ConversionConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Artifacts  ArtifactConfig   `json:"artifacts" yaml:"artifacts" mapstructure:"artifacts"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when no file, flag or
// environment variable overrides a value.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8501",
			ReadTimeout:    30 * time.Second,
			MaxUploadBytes: 200 << 20,
			CORSOrigins:    "*",
			DownloadTTL:    time.Hour,
		},
		Engine: EngineConfig{
			Backend:       BackendMarkitdown,
			Image:         "markitdown:latest",
			Timeout:       60 * time.Second,
			UserAgent:     "pdf2md/0.1",
			MaxFetchBytes: 200 << 20,
			MaxRetries:    3,
		},
		Conversion: ConversionConfig{
			MaxConcurrent: 1,
		},
		Artifacts: ArtifactConfig{
			DSN: ":memory:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogText,
		},
	}
}

// Validate checks that every section holds usable values.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Engine),
		validation.Field(&c.Conversion),
		validation.Field(&c.Artifacts),
		validation.Field(&c.Log),
	)
}

func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.DownloadTTL, validation.Required, validation.Min(time.Second)),
	)
}

func (c EngineConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMarkitdown, BackendPDFText)),
		validation.Field(&c.Runtime, validation.In("docker", "podman")),
		validation.Field(&c.Image, validation.When(c.Backend == BackendMarkitdown, validation.Required)),
		validation.Field(&c.MaxFetchBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.MaxRetries, validation.Min(0)),
	)
}

func (c ConversionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxConcurrent, validation.Required, validation.Min(1)),
	)
}

func (c ArtifactConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DSN, validation.Required),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.In(LogText, LogJSON)),
	)
}
