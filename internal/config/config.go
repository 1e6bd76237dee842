// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package config loads settings for the jfmt command-line tool.
//
// A configuration file is either YAML (if its name ends in .yaml or .yml) or
// HuJSON, which is JSON extended with comments and trailing commas.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/highlight"
	"github.com/goccy/go-json"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is reported for a configuration with invalid settings.
var ErrInvalid = errors.New("invalid configuration")

// MaxHistoryLimit is the largest history limit accepted.
const MaxHistoryLimit = 1000

// Config is the complete configuration for jfmt.
type Config struct {
	Indent    string            `json:"indent" yaml:"indent"`
	LogLevel  string            `json:"log_level" yaml:"log_level"`
	History   History           `json:"history" yaml:"history"`
	Highlight highlight.Palette `json:"highlight" yaml:"highlight"`
}

// History controls the history of processed documents.
type History struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"` // if empty, use DefaultHistoryPath
	Limit   int    `json:"limit" yaml:"limit"`
}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Indent:   format.Default.String(),
		LogLevel: "info",
		History: History{
			Enabled: true,
			Limit:   50,
		},
	}
}

// Load reads the configuration file at path. Settings not mentioned in the
// file have their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := cfg.decode(path, data); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault reads the first configuration file found in the default
// location. If there is none, it returns the default configuration.
func LoadDefault() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return Default(), nil
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.json", "config.hujson"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return Load(path)
	}
	return Default(), nil
}

// Dir reports the directory where jfmt keeps its files by default.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "jfmt"), nil
}

func (c *Config) decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		std, err := hujson.Standardize(data)
		if err != nil {
			return err
		}
		return json.Unmarshal(std, c)
	}
}

// Validate reports an error wrapping ErrInvalid if any setting of c is
// invalid.
func (c *Config) Validate() error {
	var errs []error
	if _, err := format.ParseIndent(c.Indent); err != nil {
		errs = append(errs, fmt.Errorf("indent: %w", err))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.History.Limit < 1 || c.History.Limit > MaxHistoryLimit {
		errs = append(errs, fmt.Errorf("history.limit: %d out of range 1..%d", c.History.Limit, MaxHistoryLimit))
	}
	if err := c.Highlight.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("highlight: %w", err))
	}
	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// IndentStyle returns the indentation style selected by c.
func (c *Config) IndentStyle() (format.Indent, error) { return format.ParseIndent(c.Indent) }

// Level returns the logging level selected by c.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl, err
}

// Palette returns the highlight palette selected by c. Colors not set in the
// configuration are taken from highlight.DefaultPalette.
func (c *Config) Palette() highlight.Palette { return c.Highlight.Merge(highlight.DefaultPalette) }

// HistoryPath returns the location of the history file.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", fmt.Errorf("history path: %w", err)
	}
	return filepath.Join(dir, "history.json"), nil
}
