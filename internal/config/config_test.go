package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadEmbedded(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	assert.True(t, cfg.Confirm)
	assert.True(t, cfg.ShowTags)
	assert.Equal(t, 100, cfg.LogLimit)
	assert.Equal(t, 2, cfg.ScanDepth)
	assert.Equal(t, 3, cfg.DiffContext)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Empty(t, cfg.Repositories)
}

func TestLoadWithDirs_Layers(t *testing.T) {
	tests := []struct {
		name   string
		global string
		local  string
		env    map[string]string
		check  func(t *testing.T, cfg *Config)
	}{
		{
			name:   "global overrides embedded",
			global: "log_limit: 20\ntheme: light\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 20, cfg.LogLimit)
				assert.Equal(t, "light", cfg.Theme)
				assert.True(t, cfg.Confirm, "untouched fields keep defaults")
			},
		},
		{
			name:   "explicit false and zero override",
			global: "confirm: false\nshow_tags: false\ndiff_context: 0\n",
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Confirm)
				assert.False(t, cfg.ShowTags)
				assert.Equal(t, 0, cfg.DiffContext)
			},
		},
		{
			name:   "local overrides global",
			global: "log_limit: 20\nrepositories: [/a, /b]\n",
			local:  "log_limit: 5\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.LogLimit)
				assert.Equal(t, []string{"/a", "/b"}, cfg.Repositories)
			},
		},
		{
			name:   "env sits between global and local",
			global: "log_limit: 20\nconfirm: true\n",
			local:  "theme: ascii\n",
			env:    map[string]string{"GITPICK_LOG_LIMIT": "7", "GITPICK_CONFIRM": "no", "GITPICK_THEME": "light"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.LogLimit)
				assert.False(t, cfg.Confirm)
				assert.Equal(t, "ascii", cfg.Theme)
				assert.Contains(t, cfg.Sources(), "env:GITPICK_LOG_LIMIT")
			},
		},
		{
			name:   "custom domains merge across layers",
			global: "remotes:\n  custom_domains:\n    git.acme.corp: gitlab\n",
			local:  "remotes:\n  custom_domains:\n    code.acme.corp: gitea\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, map[string]string{"git.acme.corp": "gitlab", "code.acme.corp": "gitea"}, cfg.CustomDomains())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, k := range []string{"GITPICK_LOG_LIMIT", "GITPICK_CONFIRM", "GITPICK_THEME", "GITPICK_SHOW_TAGS", "GITPICK_REPOSITORIES"} {
				t.Setenv(k, tc.env[k])
			}
			globalDir := t.TempDir()
			if tc.global != "" {
				writeConfig(t, globalDir, tc.global)
			}
			localDir := ""
			if tc.local != "" {
				localDir = t.TempDir()
				writeConfig(t, localDir, tc.local)
			}

			cfg, err := LoadWithDirs(globalDir, localDir)
			require.NoError(t, err)
			tc.check(t, cfg)
			assert.Equal(t, globalDir, cfg.ConfigDir())
			assert.Equal(t, localDir, cfg.LocalDir())
		})
	}
}

func TestLoadWithDirs_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log_limit: [oops\n")

	_, err := LoadWithDirs(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load global config")
}

func TestApplyCLIFlags(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	cfg.ApplyCLIFlags(CLIFlags{Yes: true, Repos: []string{"/x"}, LogLimit: 9})

	assert.False(t, cfg.Confirm)
	assert.Equal(t, []string{"/x"}, cfg.Repositories)
	assert.Equal(t, 9, cfg.LogLimit)
	assert.Equal(t, []string{"cli:yes", "cli:repo", "cli:log-limit"}, cfg.Sources())
}

func TestInstallDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gitpick")

	require.NoError(t, InstallDefaults(dir))
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_limit: 100")

	writeConfig(t, dir, "log_limit: 1\n")
	require.NoError(t, InstallDefaults(dir))
	data, err = os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "log_limit: 1\n", string(data), "existing config is kept")
}

func TestDiscoverOptions(t *testing.T) {
	cfg := &Config{Repositories: []string{"/r"}, ScanRoots: []string{"/src"}, ScanDepth: 3}

	opts := cfg.DiscoverOptions()

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, []string{cwd, "/r"}, opts.Dirs)
	assert.Equal(t, []string{"/src"}, opts.Roots)
	assert.Equal(t, 3, opts.Depth)
	assert.NotNil(t, (&Config{}).CustomDomains())

	cfg.ApplyCLIFlags(CLIFlags{Repos: []string{"/only"}})
	assert.Equal(t, []string{"/only"}, cfg.DiscoverOptions().Dirs)
}

func TestYAML(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "log_limit: 100")
	assert.NotContains(t, out, "LogLimitSet")
}
