// Package git is gitpick's repository data provider. Reads go through go-git;
// the few operations go-git does not implement (stashes, revert, patch
// apply) shell out to the git binary.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/golang/groupcache/lru"

	"github.com/alexander-akhmetov/gitpick/internal/debug"
)

// commitCacheSize bounds the resolved commits kept per repository.
const commitCacheSize = 512

// ErrNotRepository is returned when a path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Repository is one open work tree.
type Repository struct {
	repo *git.Repository
	name string
	path string

	mu      sync.Mutex
	commits *lru.Cache
}

// Open opens the repository containing dir, walking up parent directories.
func Open(dir string) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	r, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("open %s: %w", dir, ErrNotRepository)
		}
		return nil, fmt.Errorf("open git repo at %s: %w", dir, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, ErrNotRepository)
	}
	root := wt.Filesystem.Root()
	return &Repository{
		repo:    r,
		name:    filepath.Base(root),
		path:    root,
		commits: lru.New(commitCacheSize),
	}, nil
}

// Name is the work tree's directory name.
func (r *Repository) Name() string { return r.name }

// Path is the absolute work tree root.
func (r *Repository) Path() string { return r.path }

// DiscoverOptions controls which repositories Discover returns.
type DiscoverOptions struct {
	// Dirs are opened directly; each may be anywhere inside a work tree.
	Dirs []string
	// Roots are scanned for work trees up to Depth levels deep.
	Roots []string
	Depth int
}

// Discover opens every repository named by opts. Duplicates are dropped and
// the result is ordered by name, then path. Paths that are not repositories
// are logged and skipped.
func Discover(opts DiscoverOptions) ([]*Repository, error) {
	seen := make(map[string]bool)
	var repos []*Repository
	add := func(dir string) {
		repo, err := Open(dir)
		if err != nil {
			debug.Logf("skip %s: %v", dir, err)
			return
		}
		if seen[repo.path] {
			return
		}
		seen[repo.path] = true
		repos = append(repos, repo)
	}

	for _, dir := range opts.Dirs {
		add(dir)
	}
	for _, root := range opts.Roots {
		dirs, err := scan(root, opts.Depth)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
		for _, dir := range dirs {
			add(dir)
		}
	}

	sort.SliceStable(repos, func(i, j int) bool {
		if repos[i].name != repos[j].name {
			return repos[i].name < repos[j].name
		}
		return repos[i].path < repos[j].path
	})
	return repos, nil
}

// scan returns directories under root that contain a .git entry. It does not
// descend into work trees it found.
func scan(root string, depth int) ([]string, error) {
	var found []string
	var walk func(dir string, level int) error
	walk = func(dir string, level int) error {
		if _, err := os.Stat(filepath.Join(dir, git.GitDirName)); err == nil {
			found = append(found, dir)
			return nil
		}
		if level >= depth {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if err := walk(filepath.Join(dir, e.Name()), level+1); err != nil {
				debug.Logf("scan %s: %v", e.Name(), err)
			}
		}
		return nil
	}
	return found, walk(root, 0)
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	_, err := Open(dir)
	return err == nil
}

// HasUncommittedChanges reports whether the work tree differs from HEAD.
func (r *Repository) HasUncommittedChanges() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("get worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return !status.IsClean(), nil
}

// signature reads user.name and user.email from the merged git config,
// falling back to gitpick defaults.
func (r *Repository) signature() *object.Signature {
	name := "gitpick"
	email := "gitpick@localhost"

	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// validateRelativePath rejects absolute paths and paths escaping the work tree.
func validateRelativePath(path string) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute path not allowed: %s", path)
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed: %s", path)
		}
	}
	return nil
}
