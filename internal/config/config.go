// Package config loads the opini command configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/radarzonasi/opini"
)

// Config holds the opini command settings.
type Config struct {
	LexiconPath      string        `env:"OPINI_LEXICON_PATH"`
	PositivityPolicy string        `env:"OPINI_POSITIVITY_POLICY" default:"ratio"`
	StopwordLanguage string        `env:"OPINI_STOPWORD_LANG"`
	Cooldown         time.Duration `env:"OPINI_COOLDOWN" default:"10s"`
	LogLevel         string        `env:"LOG_LEVEL" default:"info"`
	LogFormat        string        `env:"LOG_FORMAT" default:"text"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if _, err := opini.ParsePositivityPolicy(cfg.PositivityPolicy); err != nil {
		return fmt.Errorf("OPINI_POSITIVITY_POLICY: %w", err)
	}
	if cfg.Cooldown < 0 {
		return errors.New("OPINI_COOLDOWN must not be negative")
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("LOG_FORMAT must be text, json or logfmt, got %q", cfg.LogFormat)
	}
	return nil
}

// Policy returns the parsed positivity policy.
func (c *Config) Policy() opini.PositivityPolicy {
	p, _ := opini.ParsePositivityPolicy(c.PositivityPolicy)
	return p
}

// Tables returns the default tables with the lexicon file, if any, merged
// over them.
func (c *Config) Tables() (opini.Tables, error) {
	if c.LexiconPath == "" {
		return opini.DefaultTables(), nil
	}
	return opini.LoadTablesFile(c.LexiconPath, opini.DefaultTables())
}

// NewLogger builds a logger writing to w at the configured level and format.
func (c *Config) NewLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	switch strings.ToLower(c.LogFormat) {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Formatter:       formatter,
		Prefix:          "opini",
	})
}
