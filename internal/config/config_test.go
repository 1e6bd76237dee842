// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/highlight"
	"github.com/creachadair/jfmt/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	ind, err := cfg.IndentStyle()
	require.NoError(t, err)
	assert.Equal(t, format.Default, ind)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, highlight.DefaultPalette, cfg.Palette())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
indent: tabs
log_level: debug
history:
  enabled: false
  path: /tmp/h.json
  limit: 10
highlight:
  key: "#ff0000"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	ind, err := cfg.IndentStyle()
	require.NoError(t, err)
	assert.Equal(t, format.Tabs, ind)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 10, cfg.History.Limit)
	hp, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.json", hp)

	pal := cfg.Palette()
	assert.Equal(t, "#ff0000", pal.Key)
	assert.Equal(t, highlight.DefaultPalette.String, pal.String)
}

func TestLoadHuJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  // Two spaces is plenty.
  "indent": "2",
  "history": {
    "limit": 5, /* keep it short */
  },
  "highlight": {"number": "#00ff00",},
}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	ind, err := cfg.IndentStyle()
	require.NoError(t, err)
	assert.Equal(t, format.Spaces(2), ind)

	// Unmentioned settings keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, "#00ff00", cfg.Palette().Number)
}

func TestLoadErrors(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nonesuch.yaml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
	t.Run("Syntax", func(t *testing.T) {
		for name, text := range map[string]string{
			"bad.yaml": "indent: [unclosed\n",
			"bad.json": `{"indent": }`,
		} {
			_, err := config.Load(writeFile(t, name, text))
			assert.Error(t, err, name)
			assert.False(t, errors.Is(err, config.ErrInvalid), name)
		}
	})
	t.Run("Invalid", func(t *testing.T) {
		for _, text := range []string{
			"indent: \"12\"\n",
			"indent: furlongs\n",
			"log_level: chatty\n",
			"history:\n  limit: 0\n",
			"history:\n  limit: 1001\n",
			"highlight:\n  string: orange\n",
		} {
			_, err := config.Load(writeFile(t, "config.yml", text))
			require.Error(t, err, text)
			assert.True(t, errors.Is(err, config.ErrInvalid), "%q: %v", text, err)
		}
	})
}

func TestLoadDefault(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Relies on XDG_CONFIG_HOME")
	}
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	// With no file present, the defaults are used.
	cfg, err := config.LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	hp, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "jfmt", "history.json"), hp)

	require.NoError(t, os.MkdirAll(filepath.Join(home, "jfmt"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(home, "jfmt", "config.hujson"), []byte(`{"log_level": "warn",}`), 0600))
	cfg, err = config.LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
