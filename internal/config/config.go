// Package config holds the CLI configuration, merged from a YAML file and
// SCHEMADOC_* environment variables. Environment values win over file values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "schemadoc"

// Config holds the final application configuration. Fields load from
// environment variables with the prefix "SCHEMADOC_", potentially overriding
// file settings.
type Config struct {
	// ConfigFilePath points at the YAML configuration file. Loaded first from
	// the environment; empty means no file is read.
	ConfigFilePath string `envconfig:"CONFIG_FILE" json:"-" yaml:"-"`

	// SchemaDirs lists the directories scanned for schema documents when the
	// CLI runs without an explicit schema argument.
	SchemaDirs []string `envconfig:"SCHEMA_DIRS" json:"schema_dirs,omitempty" yaml:"schema_dirs"`

	// BaseDirs lists the candidate roots for relative $ref resolution, tried
	// in order before the referencing schema's own directory.
	BaseDirs []string `envconfig:"BASE_DIRS" json:"base_dirs,omitempty" yaml:"base_dirs"`

	// Renderer names the default renderer.
	Renderer string `envconfig:"RENDERER" default:"text" json:"renderer,omitempty" yaml:"renderer"`

	// Group is the default group prefix applied to rendered lines.
	Group string `envconfig:"GROUP" json:"group,omitempty" yaml:"group"`

	// TemplatesDir overrides the embedded template bundle for the template
	// renderer.
	TemplatesDir string `envconfig:"TEMPLATES_DIR" json:"templates_dir,omitempty" yaml:"templates_dir"`

	// AllowHTTP enables loading schema documents and $refs over HTTP.
	AllowHTTP bool `envconfig:"ALLOW_HTTP" default:"false" json:"allow_http,omitempty" yaml:"allow_http"`

	// HTTPTimeout caps remote fetches when AllowHTTP is set.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s" json:"http_timeout,omitempty" yaml:"http_timeout"`

	// LogLevel selects the slog level: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" json:"log_level,omitempty" yaml:"log_level"`
}

// fileConfig mirrors the YAML file shape. Only fields that make sense in a
// checked-in file are included.
type fileConfig struct {
	SchemaDirs   []string `yaml:"schema_dirs"`
	BaseDirs     []string `yaml:"base_dirs"`
	Renderer     string   `yaml:"renderer"`
	Group        string   `yaml:"group"`
	TemplatesDir string   `yaml:"templates_dir"`
	AllowHTTP    bool     `yaml:"allow_http"`
	HTTPTimeout  string   `yaml:"http_timeout"`
	LogLevel     string   `yaml:"log_level"`
}

// ParsedLogLevel returns the slog.Level for the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load builds the configuration: envconfig first (defaults plus environment,
// and it locates the file), then the YAML file fills every field the
// environment did not pin. Re-running envconfig over the merged struct would
// re-apply default tags and clobber file values, so the merge checks the
// actual environment per field instead.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}

	if cfg.ConfigFilePath != "" {
		raw, err := os.ReadFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("config: read file %q: %w", cfg.ConfigFilePath, err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("config: parse file %q: %w", cfg.ConfigFilePath, err)
		}
		applyFile(&cfg, file)
	}
	return &cfg, nil
}

func applyFile(cfg *Config, file fileConfig) {
	if len(file.SchemaDirs) > 0 && !envSet("SCHEMA_DIRS") {
		cfg.SchemaDirs = append([]string(nil), file.SchemaDirs...)
	}
	if len(file.BaseDirs) > 0 && !envSet("BASE_DIRS") {
		cfg.BaseDirs = append([]string(nil), file.BaseDirs...)
	}
	if file.Renderer != "" && !envSet("RENDERER") {
		cfg.Renderer = file.Renderer
	}
	if file.Group != "" && !envSet("GROUP") {
		cfg.Group = file.Group
	}
	if file.TemplatesDir != "" && !envSet("TEMPLATES_DIR") {
		cfg.TemplatesDir = file.TemplatesDir
	}
	if file.AllowHTTP && !envSet("ALLOW_HTTP") {
		cfg.AllowHTTP = true
	}
	if file.HTTPTimeout != "" && !envSet("HTTP_TIMEOUT") {
		if parsed, err := time.ParseDuration(file.HTTPTimeout); err == nil {
			cfg.HTTPTimeout = parsed
		}
	}
	if file.LogLevel != "" && !envSet("LOG_LEVEL") {
		cfg.LogLevel = file.LogLevel
	}
}

func envSet(name string) bool {
	_, ok := os.LookupEnv(strings.ToUpper(envPrefix) + "_" + name)
	return ok
}
