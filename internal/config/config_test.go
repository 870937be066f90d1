package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, ".paratext/paratext.db", cfg.StorePath)
	assert.Equal(t, "default", cfg.Document)
	assert.Equal(t, ".paratext/params.yaml", cfg.ParamsPath)
	assert.True(t, cfg.AutoRefresh)
	assert.Equal(t, 1000, cfg.Watch.DebounceMS)
	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Document = ""
	require.Error(t, Validate(cfg))

	cfg = Defaults()
	cfg.Watch.DebounceMS = -1
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debounce_ms")
}

func TestDefaultConfigTemplate_IsValidYAML(t *testing.T) {
	var out map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &out))
	assert.Equal(t, "default", out["document"])
	assert.Equal(t, true, out["auto_refresh"])
}

func TestWriteDefaultConfig_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigTemplate(), string(data))
}
