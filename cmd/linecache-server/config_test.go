package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileParsesJSONC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linecache.jsonc")
	content := `{
		// inline comment, valid JSONC
		"port": 12000,
		"capacity": 1000,
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadConfigFile(path, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 12000, cfg.Port)
	assert.Equal(t, 1000, cfg.Capacity)
	assert.Equal(t, defaultConfig().Workers, cfg.Workers)
}

func TestLoadConfigFileMissingFieldsLeaveDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linecache.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"workers": 4}`), 0o644))

	cfg, err := loadConfigFile(path, defaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, defaultConfig().Port, cfg.Port)
}

func TestLoadConfigFileRejectsMissingPath(t *testing.T) {
	_, err := loadConfigFile("/nonexistent/path/linecache.jsonc", defaultConfig())
	assert.Error(t, err)
}

func TestLoadConfigFileRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linecache.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := loadConfigFile(path, defaultConfig())
	assert.Error(t, err)
}
