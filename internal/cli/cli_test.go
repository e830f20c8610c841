package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/gitpick/internal/flows"
	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/git/gittest"
)

type result struct {
	stdout, stderr string
	err            error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("GITPICK_CONFIRM", "")

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

type fixture struct {
	*gittest.Repo
	first, second string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := gittest.New(t)
	first := f.Commit("Add README", map[string]string{"README.md": "hello\n"})
	second := f.Commit("Change code", map[string]string{"main.go": "package main\n"})
	f.Branch("feature")
	return &fixture{Repo: f, first: first, second: second}
}

func (f *fixture) open(t *testing.T) *git.Repository {
	t.Helper()
	r, err := git.Open(f.Dir)
	require.NoError(t, err)
	return r
}

func TestSwitch_ChecksOutArgument(t *testing.T) {
	f := newFixture(t)

	res := execute(t, "", "switch", "feature", "--repo", f.Dir, "--yes")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "to branch feature")
	branch, err := f.open(t).CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestBranch_AsksNameAndPrintsAnswers(t *testing.T) {
	f := newFixture(t)

	res := execute(t, "topic\n", "branch", "--repo", f.Dir, "--state", `{"reference":"main"}`, "--yes", "--print")

	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Please provide a name for the new branch")
	assert.Contains(t, res.stdout, `"command": "branch"`)
	assert.Contains(t, res.stdout, `"name": "topic"`)
	assert.Contains(t, res.stdout, "Created branch topic from main")
	assert.True(t, f.open(t).HasBranchOrTag("topic"))
}

func TestReset_ModeFlag(t *testing.T) {
	f := newFixture(t)

	res := execute(t, "", "reset", f.first, "--hard", "--repo", f.Dir, "--yes")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Reset main to "+f.first[:7]+" (hard)")
	head, err := f.open(t).ResolveReference("HEAD")
	require.NoError(t, err)
	assert.Equal(t, f.first, head)
}

func TestReset_ModeFlagsExclusive(t *testing.T) {
	f := newFixture(t)
	res := execute(t, "", "reset", "--soft", "--hard", "--repo", f.Dir)
	require.Error(t, res.err)
}

func TestStash_RejectsUnknownSubcommand(t *testing.T) {
	f := newFixture(t)
	res := execute(t, "", "stash", "bogus", "--repo", f.Dir)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown stash command")
}

func TestOpen_ClosedInputCancels(t *testing.T) {
	f := newFixture(t)

	res := execute(t, "", "open", f.first[:7], "--repo", f.Dir)

	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.NotEmpty(t, res.stderr)
}

func TestOpen_UnknownLink(t *testing.T) {
	f := newFixture(t)
	res := execute(t, "", "open", "no-such-branch", "--repo", f.Dir)
	require.Error(t, res.err)
}

func TestMenu_LineHost(t *testing.T) {
	f := newFixture(t)

	res := execute(t, "q\n", "--repo", f.Dir)

	require.NoError(t, res.err)
	for _, c := range flows.Commands() {
		assert.Contains(t, res.stderr, c.Label)
	}
}

func TestNoRepository(t *testing.T) {
	res := execute(t, "", "history", "--repo", t.TempDir())
	require.ErrorIs(t, res.err, ErrNoRepository)
}

func TestConfigShow(t *testing.T) {
	res := execute(t, "", "config", "show", "--yes", "--log-limit", "25")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "# gitpick configuration")
	assert.Contains(t, res.stdout, "cli:yes")
	assert.Contains(t, res.stdout, "confirm:      false")
	assert.Contains(t, res.stdout, "log_limit:    25")
}

func TestConfigInit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init"})

	require.NoError(t, cmd.Execute())

	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "gitpick", "config.yaml")
	assert.Contains(t, out.String(), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_limit: 100")
}

func TestBuildSeed(t *testing.T) {
	tests := []struct {
		name    string
		command string
		state   string
		keys    []string
		pos     []string
		want    map[string]string
		wantErr string
	}{
		{
			name:    "arguments win over state",
			command: "branch",
			state:   `{"name":"a","reference":"dev"}`,
			keys:    []string{"name", "reference"},
			pos:     []string{"b"},
			want:    map[string]string{"command": "branch", "state.name": "b", "state.reference": "dev"},
		},
		{
			name:    "full seed as state",
			command: "history",
			state:   `{"command":"show","counter":2,"state":{"reference":"main"}}`,
			keys:    []string{"reference"},
			want:    map[string]string{"command": "history", "state.reference": "main"},
		},
		{
			name:    "variadic key",
			command: "revert",
			keys:    []string{"commits..."},
			pos:     []string{"abc1234", "def5678"},
			want:    map[string]string{"state.commits.0": "abc1234", "state.commits.1": "def5678"},
		},
		{
			name:    "invalid JSON",
			command: "history",
			state:   `{"reference":`,
			wantErr: "invalid JSON",
		},
		{
			name:    "not an object",
			command: "history",
			state:   `["main"]`,
			wantErr: "want a JSON object",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seed, err := buildSeed(tc.command, tc.state, tc.keys, tc.pos, &flows.Deps{})
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			for path, want := range tc.want {
				assert.Equal(t, want, gjson.Get(seed, path).String(), path)
			}
			assert.False(t, gjson.Get(seed, "state.repo").Exists())
		})
	}
}

func TestBuildSeed_NamesSingleRepository(t *testing.T) {
	repo := newFixture(t).open(t)

	seed, err := buildSeed("history", "", []string{"reference"}, []string{"main"}, &flows.Deps{Repos: []*git.Repository{repo}})
	require.NoError(t, err)
	assert.Equal(t, repo.Path(), gjson.Get(seed, "state.repo").String())

	seed, err = buildSeed("switch", `{"repos":["other"]}`, nil, nil, &flows.Deps{Repos: []*git.Repository{repo}})
	require.NoError(t, err)
	assert.False(t, gjson.Get(seed, "state.repo").Exists())
}
