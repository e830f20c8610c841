package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/gitpick/internal/git/gittest"
)

func openFixture(t *testing.T, f *gittest.Repo) *Repository {
	t.Helper()
	r, err := Open(f.Dir)
	require.NoError(t, err)
	return r
}

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestOpen(t *testing.T) {
	f := gittest.New(t)
	f.Commit("Initial commit", map[string]string{"pkg/a.go": "package pkg\n"})

	r, err := Open(filepath.Join(f.Dir, "pkg"))
	require.NoError(t, err)
	assert.Equal(t, f.Dir, r.Path())
	assert.Equal(t, filepath.Base(f.Dir), r.Name())

	_, err = Open(t.TempDir())
	require.ErrorIs(t, err, ErrNotRepository)
	assert.False(t, IsRepo(t.TempDir()))
	assert.True(t, IsRepo(f.Dir))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"zeta", "alpha", filepath.Join("nested", "beta")} {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		gittest.NewAt(t, dir).Commit("init", map[string]string{"f": "x"})
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "plain"), 0o755))

	tests := []struct {
		name  string
		opts  DiscoverOptions
		names []string
	}{
		{
			name:  "scan depth one",
			opts:  DiscoverOptions{Roots: []string{root}, Depth: 1},
			names: []string{"alpha", "zeta"},
		},
		{
			name:  "scan depth two",
			opts:  DiscoverOptions{Roots: []string{root}, Depth: 2},
			names: []string{"alpha", "beta", "zeta"},
		},
		{
			name: "explicit dirs deduplicated",
			opts: DiscoverOptions{
				Dirs: []string{filepath.Join(root, "zeta"), filepath.Join(root, "zeta"), filepath.Join(root, "plain")},
			},
			names: []string{"zeta"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repos, err := Discover(tc.opts)
			require.NoError(t, err)
			names := make([]string, len(repos))
			for i, r := range repos {
				names[i] = r.Name()
			}
			assert.Equal(t, tc.names, names)
		})
	}
}

func TestHasUncommittedChanges(t *testing.T) {
	f := gittest.New(t)
	f.Commit("init", map[string]string{"a.txt": "a\n"})
	r := openFixture(t, f)

	dirty, err := r.HasUncommittedChanges()
	require.NoError(t, err)
	assert.False(t, dirty)

	f.Write("a.txt", "changed\n")
	dirty, err = r.HasUncommittedChanges()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestValidateRelativePath(t *testing.T) {
	assert.NoError(t, validateRelativePath("a/b.go"))
	assert.NoError(t, validateRelativePath("a/..b/c"))
	assert.Error(t, validateRelativePath("/etc/passwd"))
	assert.Error(t, validateRelativePath("../outside"))
	assert.Error(t, validateRelativePath("a/../../b"))
}

func TestStashesAndRevert(t *testing.T) {
	requireGitBinary(t)
	ctx := context.Background()
	f := gittest.New(t)
	f.Commit("init", map[string]string{"a.txt": "a\n"})
	second := f.Commit("change a", map[string]string{"a.txt": "b\n"})
	r := openFixture(t, f)

	stashes, err := r.Stashes(ctx)
	require.NoError(t, err)
	assert.Empty(t, stashes)

	f.Write("a.txt", "wip\n")
	_, err = r.run(ctx, nil, "stash", "push", "-m", "work in progress")
	require.NoError(t, err)

	stashes, err = r.Stashes(ctx)
	require.NoError(t, err)
	require.Len(t, stashes, 1)
	assert.Equal(t, "stash@{0}", stashes[0].Name)
	assert.Contains(t, stashes[0].Message, "work in progress")

	c, err := r.StashCommit(ctx, stashes[0])
	require.NoError(t, err)
	assert.True(t, c.IsStash())
	assert.Equal(t, "stash@{0}", c.StashName)

	require.NoError(t, r.StashApply(ctx, "stash@{0}", true))
	content, ok := r.WorkingFile("a.txt")
	require.True(t, ok)
	assert.Equal(t, "wip\n", content)

	require.NoError(t, r.RestoreFile(ctx, "HEAD", "a.txt"))
	require.NoError(t, r.Revert(ctx, second))
	content, _ = r.WorkingFile("a.txt")
	assert.Equal(t, "a\n", content)
}

func TestParseStashList(t *testing.T) {
	out := "abc\x00stash@{0}\x001704189600\x00On main: first\n" +
		"def\x00stash@{1}\x001704189500\x00WIP on main: 1234567 msg\n"

	stashes, err := parseStashList(out)
	require.NoError(t, err)
	require.Len(t, stashes, 2)
	assert.Equal(t, "stash@{1}", stashes[1].Name)
	assert.Equal(t, "def", stashes[1].Hash)
	assert.Equal(t, int64(1704189500), stashes[1].Date.Unix())

	_, err = parseStashList("broken line")
	require.Error(t, err)
}
