// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pandoc-region/pkg/types"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "pandoc", cfg.Engine)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, types.DefaultFallback, cfg.Fallback)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Commands)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `engine: /opt/pandoc/bin/pandoc
timeout: 2500ms
fallback:
  from: gfm
  to: html5
commands:
  - from: markdown
    to: docbook
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	used, err := Init(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/opt/pandoc/bin/pandoc", cfg.Engine)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, types.FormatPair{From: "gfm", To: "html5"}, cfg.Fallback)
	assert.Equal(t, []types.FormatPair{{From: "markdown", To: "docbook"}}, cfg.Commands)
}

func TestInit_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PANDOC_REGION_ENGINE", "pandoc-3")
	t.Setenv("PANDOC_REGION_FALLBACK_TO", "plain")

	v := viper.New()
	used, err := Init(v, "")
	require.NoError(t, err)
	assert.Empty(t, used, "no config file in an empty directory")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "pandoc-3", cfg.Engine)
	assert.Equal(t, "plain", cfg.Fallback.To)
	assert.Equal(t, "markdown", cfg.Fallback.From)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	_, err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("timeout", "0s")

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}
