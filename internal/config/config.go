// Package config loads and validates FileScout configuration. Settings
// apply in order of increasing precedence: hardcoded defaults, the user
// config (~/.config/filescout/config.yaml), the project config
// (.filescout.yaml next to the watched root), then FILESCOUT_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	fserrors "github.com/Aman-CERP/filescout/internal/errors"
)

// Config is the complete FileScout configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Root    string        `yaml:"root" json:"root"`
	Ignore  IgnoreConfig  `yaml:"ignore" json:"ignore"`
	Watcher WatcherConfig `yaml:"watcher" json:"watcher"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// IgnoreConfig excludes paths from indexing and watching.
type IgnoreConfig struct {
	// Prefixes are root-relative path prefixes, matched on component
	// boundaries.
	Prefixes []string `yaml:"prefixes" json:"prefixes"`
	// Patterns are glob patterns matched against entry base names.
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// WatcherConfig configures the notification backend.
type WatcherConfig struct {
	// Enabled turns on continuous synchronization. When false the index
	// is a one-shot snapshot.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Debounce is the window for batching change notifications.
	Debounce string `yaml:"debounce" json:"debounce"`

	// MaxBatch caps the paths delivered per debounced batch.
	MaxBatch int `yaml:"max_batch" json:"max_batch"`
}

// SearchConfig configures query evaluation.
type SearchConfig struct {
	MaxResults       int  `yaml:"max_results" json:"max_results"`
	ContentWorkers   int  `yaml:"content_workers" json:"content_workers"`
	ContentCacheSize int  `yaml:"content_cache_size" json:"content_cache_size"`
	CaseSensitive    bool `yaml:"case_sensitive" json:"case_sensitive"`
	IncludeHidden    bool `yaml:"include_hidden" json:"include_hidden"`
}

// CacheConfig configures on-disk state.
type CacheConfig struct {
	// Path is the directory holding the watcher resume token. Empty
	// disables persistence.
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// Dir overrides the default log directory (~/.filescout/logs).
	Dir string `yaml:"dir" json:"dir"`
}

// defaultIgnorePatterns are always excluded.
var defaultIgnorePatterns = []string{
	".git",
	"node_modules",
	".DS_Store",
	"*.swp",
	"*.tmp",
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Ignore: IgnoreConfig{
			Prefixes: []string{},
			Patterns: defaultIgnorePatterns,
		},
		Watcher: WatcherConfig{
			Enabled:  true,
			Debounce: "200ms",
			MaxBatch: 4096,
		},
		Search: SearchConfig{
			MaxResults:       1000,
			ContentWorkers:   min(runtime.NumCPU(), 8),
			ContentCacheSize: 4096,
		},
		Cache: CacheConfig{
			Path: defaultCachePath(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultCachePath returns the default resume-token directory.
func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".filescout", "cache")
	}
	return filepath.Join(home, ".filescout", "cache")
}

// GetUserConfigPath returns the path of the user configuration file,
// following the XDG base directory convention.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "filescout", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "filescout", "config.yaml")
	}
	return filepath.Join(home, ".config", "filescout", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists reports whether the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the effective configuration for a root directory.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	if cfg.Root == "" {
		cfg.Root = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromDir loads .filescout.yaml or .filescout.yml from dir, if present.
func (c *Config) loadFromDir(dir string) error {
	for _, name := range []string{".filescout.yaml", ".filescout.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

// loadYAML merges one YAML file into the config.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fserrors.New(fserrors.ErrCodeConfigNotFound,
			fmt.Sprintf("read config %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fserrors.New(fserrors.ErrCodeConfigInvalid,
			fmt.Sprintf("parse config %s", path), err)
	}
	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c. Ignore patterns
// extend the defaults rather than replacing them.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Root != "" {
		c.Root = other.Root
	}

	if len(other.Ignore.Prefixes) > 0 {
		c.Ignore.Prefixes = other.Ignore.Prefixes
	}
	if len(other.Ignore.Patterns) > 0 {
		c.Ignore.Patterns = append(c.Ignore.Patterns, other.Ignore.Patterns...)
	}

	if other.Watcher.Debounce != "" {
		c.Watcher.Debounce = other.Watcher.Debounce
	}
	if other.Watcher.MaxBatch != 0 {
		c.Watcher.MaxBatch = other.Watcher.MaxBatch
	}

	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Search.ContentWorkers != 0 {
		c.Search.ContentWorkers = other.Search.ContentWorkers
	}
	if other.Search.ContentCacheSize != 0 {
		c.Search.ContentCacheSize = other.Search.ContentCacheSize
	}
	if other.Search.CaseSensitive {
		c.Search.CaseSensitive = true
	}
	if other.Search.IncludeHidden {
		c.Search.IncludeHidden = true
	}

	if other.Cache.Path != "" {
		c.Cache.Path = other.Cache.Path
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.Dir != "" {
		c.Logging.Dir = other.Logging.Dir
	}
}

// applyEnvOverrides applies FILESCOUT_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FILESCOUT_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("FILESCOUT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FILESCOUT_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("FILESCOUT_DEBOUNCE"); v != "" {
		c.Watcher.Debounce = v
	}
	if v := os.Getenv("FILESCOUT_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("FILESCOUT_WATCH"); v != "" {
		c.Watcher.Enabled = strings.ToLower(v) == "true" || v == "1"
	}
}

// DebounceWindow parses the configured debounce duration.
func (c *Config) DebounceWindow() time.Duration {
	d, err := time.ParseDuration(c.Watcher.Debounce)
	if err != nil || d < 0 {
		return 200 * time.Millisecond
	}
	return d
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fserrors.ConfigError("root directory is required", nil)
	}
	if _, err := time.ParseDuration(c.Watcher.Debounce); err != nil {
		return fserrors.ConfigError(
			fmt.Sprintf("invalid watcher.debounce %q", c.Watcher.Debounce), err)
	}
	if c.Search.MaxResults < 0 {
		return fserrors.ConfigError(
			fmt.Sprintf("search.max_results must be non-negative, got %d", c.Search.MaxResults), nil)
	}
	if c.Search.ContentWorkers < 0 {
		return fserrors.ConfigError(
			fmt.Sprintf("search.content_workers must be non-negative, got %d", c.Search.ContentWorkers), nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fserrors.ConfigError(
			fmt.Sprintf("logging.level must be debug, info, warn, or error, got %s", c.Logging.Level), nil)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fserrors.ConfigError("marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fserrors.ConfigError("write config file", err)
	}
	return nil
}

// FindProjectRoot walks up from startDir looking for a .filescout.yaml,
// .filescout.yml, or .git marker. Without a marker it returns startDir.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}

	cur := absDir
	for {
		if fileExists(filepath.Join(cur, ".filescout.yaml")) ||
			fileExists(filepath.Join(cur, ".filescout.yml")) ||
			dirExists(filepath.Join(cur, ".git")) {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return absDir, nil
		}
		cur = parent
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
