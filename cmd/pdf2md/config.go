// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// bindFlag ties a flag to a config key. Only flags the user sets override
// the file and environment.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}

// setDefaults registers every config key so environment variables are
// seen by Unmarshal even when no config file mentions the key.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.download_ttl", d.Server.DownloadTTL)

	v.SetDefault("engine.backend", string(d.Engine.Backend))
	v.SetDefault("engine.runtime", d.Engine.Runtime)
	v.SetDefault("engine.image", d.Engine.Image)
	v.SetDefault("engine.timeout", d.Engine.Timeout)
	v.SetDefault("engine.user_agent", d.Engine.UserAgent)
	v.SetDefault("engine.max_fetch_bytes", d.Engine.MaxFetchBytes)
	v.SetDefault("engine.max_retries", d.Engine.MaxRetries)

	v.SetDefault("convert.temp_dir", d.Conversion.TempDir)
	v.SetDefault("convert.frontmatter", d.Conversion.Frontmatter)
	v.SetDefault("convert.max_concurrent", d.Conversion.MaxConcurrent)

	v.SetDefault("artifacts.dsn", d.Artifacts.DSN)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", string(d.Log.Format))
}

// loadConfig reads the merged configuration from the global viper
// instance and validates it.
func loadConfig() (types.Config, error) {
	return configFrom(viper.GetViper())
}

func configFrom(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger described by cfg.
func newLogger(cfg types.LogConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == types.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
