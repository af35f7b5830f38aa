package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateUserConfig points the user config at a throwaway directory.
func isolateUserConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "filescout", "config.yaml")
}

func TestLoad_Defaults(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, dir, cfg.Root)
	assert.True(t, cfg.Watcher.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.DebounceWindow())
	assert.Equal(t, 1000, cfg.Search.MaxResults)
	assert.Contains(t, cfg.Ignore.Patterns, ".git")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ProjectConfigOverrides(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()

	yaml := `
watcher:
  debounce: 500ms
search:
  max_results: 50
  include_hidden: true
ignore:
  patterns:
    - "*.log"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".filescout.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow())
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.True(t, cfg.Search.IncludeHidden)

	// Project patterns extend the defaults.
	assert.Contains(t, cfg.Ignore.Patterns, "*.log")
	assert.Contains(t, cfg.Ignore.Patterns, ".git")
}

func TestLoad_UserConfigThenProject(t *testing.T) {
	userPath := isolateUserConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("search:\n  max_results: 25\nlogging:\n  level: debug\n"), 0o644))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".filescout.yaml"), []byte("search:\n  max_results: 75\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	// Project config wins over user config; untouched user values stay.
	assert.Equal(t, 75, cfg.Search.MaxResults)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesEverything(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".filescout.yaml"), []byte("search:\n  max_results: 75\n"), 0o644))

	t.Setenv("FILESCOUT_MAX_RESULTS", "10")
	t.Setenv("FILESCOUT_WATCH", "false")
	t.Setenv("FILESCOUT_LOG_LEVEL", "warn")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.False(t, cfg.Watcher.Enabled)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	isolateUserConfig(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".filescout.yaml"), []byte("watcher: [broken"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty root", func(c *Config) { c.Root = "" }},
		{"bad debounce", func(c *Config) { c.Watcher.Debounce = "sometimes" }},
		{"negative max results", func(c *Config) { c.Search.MaxResults = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Root = "/tmp"
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	isolateUserConfig(t)
	cfg := NewConfig()
	cfg.Root = "/data"
	cfg.Search.MaxResults = 5

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded := NewConfig()
	require.NoError(t, loaded.loadYAML(path))
	assert.Equal(t, "/data", loaded.Root)
	assert.Equal(t, 5, loaded.Search.MaxResults)
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".filescout.yaml"), []byte(""), 0o644))

	root, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestBackupAndRestore(t *testing.T) {
	userPath := isolateUserConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("version: 1\n"), 0o644))

	backup, err := BackupUserConfig()
	require.NoError(t, err)
	require.NotEmpty(t, backup)

	require.NoError(t, os.WriteFile(userPath, []byte("version: 2\n"), 0o644))
	require.NoError(t, RestoreUserConfig(backup))

	data, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))
}
