// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package config loads and validates the application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (AVLAB_-prefixed)
//   - Config file (config.yaml)
//   - Built-in defaults
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Probe   ProbeConfig   `koanf:"probe"`
	Storage StorageConfig `koanf:"storage"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed CORS origins. "*" allows all.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the number of requests allowed per RateLimitWindow
	// per client IP. Zero disables rate limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// MaxUploadMB caps multipart upload size for analysis endpoints.
	MaxUploadMB int64 `koanf:"max_upload_mb"`
}

// ProbeConfig holds settings for the external ffprobe/ffmpeg collaborator.
type ProbeConfig struct {
	// FFprobePath overrides ffprobe discovery. Empty means search PATH
	// and common install locations.
	FFprobePath string `koanf:"ffprobe_path"`

	// FFmpegPath overrides ffmpeg discovery. Only used for naming the
	// binary in generated re-encode commands; ffmpeg is never executed.
	FFmpegPath string `koanf:"ffmpeg_path"`

	// Timeout bounds a single ffprobe invocation.
	Timeout time.Duration `koanf:"timeout"`
}

// StorageConfig holds filesystem and embedded-store paths.
type StorageConfig struct {
	// DataDir is the BadgerDB directory for user-added catalog devices.
	DataDir string `koanf:"data_dir"`

	// UploadDir receives uploaded files pending analysis.
	UploadDir string `koanf:"upload_dir"`

	// ExportDir receives optimized configs and generated command scripts.
	ExportDir string `koanf:"export_dir"`
}

// LoggingConfig mirrors logging.Config for koanf unmarshaling.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			MaxUploadMB:     100,
		},
		Probe: ProbeConfig{
			FFprobePath: "",
			FFmpegPath:  "",
			Timeout:     30 * time.Second,
		},
		Storage: StorageConfig{
			DataDir:   "/data/devices",
			UploadDir: "/data/uploads",
			ExportDir: "/data/exports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("probe.timeout must be positive, got %s", c.Probe.Timeout)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must not be empty")
	}
	if c.Storage.ExportDir == "" {
		return fmt.Errorf("storage.export_dir must not be empty")
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir must not be empty")
	}
	return nil
}
