package config

import (
	"os"

	"github.com/alexander-akhmetov/gitpick/internal/git"
)

// DiscoverOptions converts the repository settings for git.Discover. The
// current directory comes first so the repository you are in is opened
// even without configuration, unless --repo named the repositories.
func (c *Config) DiscoverOptions() git.DiscoverOptions {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil && !c.reposOnly {
		dirs = append(dirs, cwd)
	}
	dirs = append(dirs, c.Repositories...)
	return git.DiscoverOptions{
		Dirs:  dirs,
		Roots: c.ScanRoots,
		Depth: c.ScanDepth,
	}
}

// CustomDomains returns the remote domain overrides, never nil.
func (c *Config) CustomDomains() map[string]string {
	if c.Remotes.CustomDomains == nil {
		return map[string]string{}
	}
	return c.Remotes.CustomDomains
}
