// Package gittest builds throwaway repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Epoch is the author time of the first fixture commit. Each later commit is
// one minute newer.
var Epoch = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

// Repo is a repository in a temporary directory.
type Repo struct {
	t       *testing.T
	Dir     string
	Repo    *gogit.Repository
	commits int
}

// New initialises an empty repository on branch main.
func New(t *testing.T) *Repo {
	t.Helper()
	return NewAt(t, t.TempDir())
}

// NewAt initialises a repository in dir.
func NewAt(t *testing.T, dir string) *Repo {
	t.Helper()
	r, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)

	cfg, err := r.Config()
	require.NoError(t, err)
	cfg.User.Name = "Test User"
	cfg.User.Email = "test@test.com"
	require.NoError(t, r.SetConfig(cfg))

	return &Repo{t: t, Dir: dir, Repo: r}
}

// Commit writes files (an empty value deletes the file), stages them and
// commits. It returns the commit hash.
func (f *Repo) Commit(message string, files map[string]string) string {
	return f.CommitAs("Test", "test@test.com", message, files)
}

// CommitAs commits with the given author.
func (f *Repo) CommitAs(name, email, message string, files map[string]string) string {
	f.t.Helper()
	wt, err := f.Repo.Worktree()
	require.NoError(f.t, err)

	for path, content := range files {
		full := filepath.Join(f.Dir, path)
		if content == "" {
			_, err = wt.Remove(path)
			require.NoError(f.t, err)
			continue
		}
		require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(f.t, os.WriteFile(full, []byte(content), 0o644))
		_, err = wt.Add(path)
		require.NoError(f.t, err)
	}

	when := Epoch.Add(time.Duration(f.commits) * time.Minute)
	f.commits++
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:            &object.Signature{Name: name, Email: email, When: when},
		AllowEmptyCommits: len(files) == 0,
	})
	require.NoError(f.t, err)
	return hash.String()
}

// Branch creates a local branch at HEAD without checking it out.
func (f *Repo) Branch(name string) {
	f.t.Helper()
	head, err := f.Repo.Head()
	require.NoError(f.t, err)
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	require.NoError(f.t, f.Repo.Storer.SetReference(ref))
}

// Checkout switches to an existing local branch.
func (f *Repo) Checkout(name string) {
	f.t.Helper()
	wt, err := f.Repo.Worktree()
	require.NoError(f.t, err)
	require.NoError(f.t, wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)}))
}

// Tag creates a tag at HEAD, annotated when message is not empty.
func (f *Repo) Tag(name, message string) {
	f.t.Helper()
	head, err := f.Repo.Head()
	require.NoError(f.t, err)
	var opts *gogit.CreateTagOptions
	if message != "" {
		opts = &gogit.CreateTagOptions{
			Tagger:  &object.Signature{Name: "Test", Email: "test@test.com", When: Epoch},
			Message: message,
		}
	}
	_, err = f.Repo.CreateTag(name, head.Hash(), opts)
	require.NoError(f.t, err)
}

// Remote adds a remote and a remote-tracking branch for each name at HEAD.
func (f *Repo) Remote(name, url string, branches ...string) {
	f.t.Helper()
	_, err := f.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	require.NoError(f.t, err)
	head, err := f.Repo.Head()
	require.NoError(f.t, err)
	for _, b := range branches {
		ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(name, b), head.Hash())
		require.NoError(f.t, f.Repo.Storer.SetReference(ref))
	}
}

// Write changes a work tree file without committing.
func (f *Repo) Write(path, content string) {
	f.t.Helper()
	full := filepath.Join(f.Dir, path)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(f.t, os.WriteFile(full, []byte(content), 0o644))
}
