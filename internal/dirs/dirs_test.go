package dirs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{
			name:     "defaults to ~/.config/gitpick",
			env:      map[string]string{"XDG_CONFIG_HOME": ""},
			expected: filepath.Join(home, ".config", "gitpick"),
		},
		{
			name:     "respects XDG_CONFIG_HOME",
			env:      map[string]string{"XDG_CONFIG_HOME": "/custom/config"},
			expected: filepath.Join("/custom/config", "gitpick"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, ConfigDir())
		})
	}
}

func TestStateAndLogDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name      string
		env       map[string]string
		wantState string
	}{
		{
			name:      "defaults to ~/.local/state/gitpick",
			env:       map[string]string{"XDG_STATE_HOME": "", "GITPICK_STATE_DIR": ""},
			wantState: filepath.Join(home, ".local", "state", "gitpick"),
		},
		{
			name:      "respects XDG_STATE_HOME",
			env:       map[string]string{"XDG_STATE_HOME": "/custom/state", "GITPICK_STATE_DIR": ""},
			wantState: filepath.Join("/custom/state", "gitpick"),
		},
		{
			name:      "GITPICK_STATE_DIR wins",
			env:       map[string]string{"XDG_STATE_HOME": "/custom/state", "GITPICK_STATE_DIR": "/override"},
			wantState: "/override",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.wantState, StateDir())
			assert.Equal(t, filepath.Join(tc.wantState, "logs"), LogsDir())
			assert.Equal(t, filepath.Join(tc.wantState, "logs", "gitpick.log"), LogFile())
		})
	}
}
