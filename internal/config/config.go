// Package config provides layered configuration for gitpick.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/gitpick/internal/dirs"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// LocalDirName is the per-project config directory.
const LocalDirName = ".gitpick"

// RemotesConfig configures remote provider detection.
type RemotesConfig struct {
	// CustomDomains maps a self-hosted domain to a provider kind.
	CustomDomains map[string]string `yaml:"custom_domains"`
}

// Config holds all gitpick settings.
// Fields ending in *Set record that a layer set the field explicitly, so a
// later layer can override with false or 0.
type Config struct {
	Repositories []string      `yaml:"repositories"`
	ScanRoots    []string      `yaml:"scan_roots"`
	ScanDepth    int           `yaml:"scan_depth"`
	Confirm      bool          `yaml:"confirm"`
	LogLimit     int           `yaml:"log_limit"`
	ShowTags     bool          `yaml:"show_tags"`
	DiffContext  int           `yaml:"diff_context"`
	Theme        string        `yaml:"theme"`
	Remotes      RemotesConfig `yaml:"remotes"`

	ScanDepthSet   bool `yaml:"-"`
	ConfirmSet     bool `yaml:"-"`
	LogLimitSet    bool `yaml:"-"`
	ShowTagsSet    bool `yaml:"-"`
	DiffContextSet bool `yaml:"-"`

	configDir string
	localDir  string
	sources   []string
	// reposOnly drops the current directory from discovery once --repo
	// named the repositories.
	reposOnly bool
}

// Sources lists the layers that contributed to the config, in order.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the detected project config directory, if any.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Load loads configuration from the default locations, picking up
// .gitpick/ in the current directory.
func Load() (*Config, error) {
	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, LocalDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}
	return LoadWithDirs(dirs.ConfigDir(), localDir)
}

// LoadWithDirs loads configuration with explicit global and local
// directories. Either may be empty.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	if globalDir != "" {
		if err := cfg.mergeFile(filepath.Join(globalDir, "config.yaml")); err != nil {
			return nil, fmt.Errorf("load global config: %w", err)
		}
	}

	cfg.applyEnv()

	if localDir != "" {
		if err := cfg.mergeFile(filepath.Join(localDir, "config.yaml")); err != nil {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	src, err := loadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.mergeFrom(src); err != nil {
		return fmt.Errorf("merge %s: %w", path, err)
	}
	c.sources = append(c.sources, path)
	return nil
}

// InstallDefaults writes the default config.yaml to configDir if none exists.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}
	return nil
}

func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML and records which scalar fields were
// present.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	_, cfg.ScanDepthSet = raw["scan_depth"]
	_, cfg.ConfirmSet = raw["confirm"]
	_, cfg.LogLimitSet = raw["log_limit"]
	_, cfg.ShowTagsSet = raw["show_tags"]
	_, cfg.DiffContextSet = raw["diff_context"]
	return cfg, nil
}

// mergeFrom overlays src onto c. Non-empty strings, slices and maps merge
// through mergo; tracked scalars are copied when src set them.
func (c *Config) mergeFrom(src *Config) error {
	if err := mergo.Merge(c, *src, mergo.WithOverride); err != nil {
		return err
	}
	if src.ScanDepthSet {
		c.ScanDepth = src.ScanDepth
	}
	if src.ConfirmSet {
		c.Confirm = src.Confirm
	}
	if src.LogLimitSet {
		c.LogLimit = src.LogLimit
	}
	if src.ShowTagsSet {
		c.ShowTags = src.ShowTags
	}
	if src.DiffContextSet {
		c.DiffContext = src.DiffContext
	}
	return nil
}

// applyEnv applies GITPICK_* variables. They sit between the global and the
// local file.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITPICK_REPOSITORIES"); v != "" {
		c.Repositories = filepath.SplitList(v)
		c.sources = append(c.sources, "env:GITPICK_REPOSITORIES")
	}
	if v := os.Getenv("GITPICK_LOG_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogLimit = n
			c.LogLimitSet = true
			c.sources = append(c.sources, "env:GITPICK_LOG_LIMIT")
		}
	}
	if v := os.Getenv("GITPICK_CONFIRM"); v != "" {
		c.Confirm = parseBool(v)
		c.ConfirmSet = true
		c.sources = append(c.sources, "env:GITPICK_CONFIRM")
	}
	if v := os.Getenv("GITPICK_SHOW_TAGS"); v != "" {
		c.ShowTags = parseBool(v)
		c.ShowTagsSet = true
		c.sources = append(c.sources, "env:GITPICK_SHOW_TAGS")
	}
	if v := os.Getenv("GITPICK_THEME"); v != "" {
		c.Theme = v
		c.sources = append(c.sources, "env:GITPICK_THEME")
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// CLIFlags are the command line overrides.
type CLIFlags struct {
	// Yes disables confirmation steps.
	Yes      bool
	Repos    []string
	LogLimit int
}

// ApplyCLIFlags applies command line overrides, the highest precedence.
func (c *Config) ApplyCLIFlags(f CLIFlags) {
	if f.Yes {
		c.Confirm = false
		c.ConfirmSet = true
		c.sources = append(c.sources, "cli:yes")
	}
	if len(f.Repos) > 0 {
		c.Repositories = append([]string(nil), f.Repos...)
		c.reposOnly = true
		c.sources = append(c.sources, "cli:repo")
	}
	if f.LogLimit > 0 {
		c.LogLimit = f.LogLimit
		c.LogLimitSet = true
		c.sources = append(c.sources, "cli:log-limit")
	}
}

// YAML renders the effective configuration.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}
