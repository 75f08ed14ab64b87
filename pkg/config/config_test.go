package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flaglog/flaglog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "flaglog.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "flagged", cfg.Directory)
	assert.Equal(t, "log.csv", cfg.LogFile)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flaglog.yaml")
	cfg := config.Default()
	cfg.Directory = "my-flags"
	cfg.KeyFile = "secret.key"
	cfg.Components = []config.ComponentConfig{
		{Label: "prompt", Kind: "value"},
		{Label: "picture", Kind: "image"},
	}
	cfg.Remote.Dataset = "classifier-mistakes"
	cfg.Remote.Private = true

	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flaglog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("directory: elsewhere\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.Directory)
	assert.Equal(t, "log.csv", cfg.LogFile)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flaglog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("directory: [unclosed"), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
