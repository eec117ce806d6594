package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Selection.BlockRadius)
	assert.False(t, cfg.Selection.ThreeD)
	assert.Equal(t, 10.0, cfg.Grow.Precision)
	assert.Equal(t, 0.0, cfg.Grow.SearchRadius)
	assert.False(t, cfg.Grow.Local)
	assert.True(t, cfg.Grow.ReplaceExisting)
	assert.Equal(t, "selection_slices", cfg.Output.SlicesDir)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxedit.yaml")
	doc := []byte(`
grow:
  precision: 2.5
  local: true
output:
  slicesDir: out
`)
	require.NoError(t, os.WriteFile(path, doc, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Grow.Precision)
	assert.True(t, cfg.Grow.Local)
	assert.Equal(t, "out", cfg.Output.SlicesDir)

	// Unset keys keep their defaults.
	assert.Equal(t, 1, cfg.Selection.BlockRadius)
	assert.True(t, cfg.Grow.ReplaceExisting)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grow: ["), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grow.Precision = 7
	cfg.Selection.BlockRadius = 3
	cfg.Output.Verbose = true

	path := filepath.Join(t.TempDir(), "nested", "voxedit.yaml")
	require.NoError(t, SaveConfig(cfg, path))

	back, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxedit.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	back, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), back)
}
