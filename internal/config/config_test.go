package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "main", cfg.Publish.Branch)
	assert.Equal(t, "widget.html", cfg.Publish.MainFilename)
	assert.Equal(t, "w", cfg.Publish.SlotPrefix)
	assert.Equal(t, ".html", cfg.Publish.SlotExtension)
	assert.Equal(t, "out", cfg.Render.OutputDir)
	assert.Equal(t, 10, cfg.Render.TopN)
	assert.Equal(t, "embedforge.db", cfg.History.DatabasePath)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentJobs)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chTempDir(t)

	yaml := `
github:
  owner: acme
  repo: widgets
log:
  level: debug
  format: console
server:
  port: 9090
render:
  top_n: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.GitHub.Owner)
	assert.Equal(t, "widgets", cfg.GitHub.Repo)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Render.TopN)
	// Defaults still apply for unset values
	assert.Equal(t, "w", cfg.Publish.SlotPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	chTempDir(t)

	t.Setenv("EMBEDFORGE_GITHUB_TOKEN", "env-token")
	t.Setenv("EMBEDFORGE_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.GitHub.Token)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadBadYAML(t *testing.T) {
	dir := chTempDir(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("::: not yaml"), 0644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
