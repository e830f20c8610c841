// Package dirs resolves the XDG directories gitpick reads and writes.
package dirs

import (
	"os"
	"path/filepath"
)

const appName = "gitpick"

// ConfigDir returns the directory holding the global config.yaml.
// Resolution order: XDG_CONFIG_HOME/gitpick > ~/.config/gitpick.
func ConfigDir() string {
	return xdg("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for logs and other run state.
// Resolution order: GITPICK_STATE_DIR > XDG_STATE_HOME/gitpick > ~/.local/state/gitpick.
func StateDir() string {
	if dir := os.Getenv("GITPICK_STATE_DIR"); dir != "" {
		return dir
	}
	return xdg("XDG_STATE_HOME", ".local", "state")
}

// LogsDir returns StateDir/logs.
func LogsDir() string {
	return filepath.Join(StateDir(), "logs")
}

// LogFile returns the path of the debug log.
func LogFile() string {
	return filepath.Join(LogsDir(), appName+".log")
}

func xdg(env string, fallback ...string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}
