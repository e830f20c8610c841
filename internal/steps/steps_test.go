package steps

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/gitpick/internal/actions"
	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/git/gittest"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func testEnv(buf *bytes.Buffer, cb *fakeClipboard) *Env {
	x := actions.New(actions.NewOutput(buf, false, 80, ""), actions.WithClipboard(cb))
	return &Env{Actions: x, Revealer: x, Searcher: x, LogLimit: 10, Log: zerolog.Nop()}
}

func openRepo(t *testing.T, f *gittest.Repo) *git.Repository {
	t.Helper()
	r, err := git.Open(f.Dir)
	require.NoError(t, err)
	return r
}

func labels(items []wizard.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestAppendReposToTitle(t *testing.T) {
	a := &git.Repository{}
	tests := []struct {
		name   string
		repos  int
		picked int
		extra  string
		want   string
	}{
		{name: "single repo", repos: 1, picked: 1, want: "Show"},
		{name: "single repo with context", repos: 1, picked: 1, extra: " main", want: "Show main"},
		{name: "nothing picked", repos: 2, picked: 0, extra: " main", want: "Show"},
		{name: "many picked", repos: 3, picked: 2, extra: " main", want: "Show main  •  2 repositories"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &Scope{Repos: make([]*git.Repository, tc.repos)}
			picked := make([]*git.Repository, tc.picked)
			for i := range picked {
				picked[i] = a
			}
			assert.Equal(t, tc.want, AppendReposToTitle("Show", s, picked, tc.extra))
		})
	}
}

func TestAppendReposToTitle_SinglePickedShowsName(t *testing.T) {
	f := gittest.NewAt(t, t.TempDir()+"/app")
	f.Commit("init", map[string]string{"a": "1"})
	r := openRepo(t, f)
	s := &Scope{Repos: []*git.Repository{r, r}}
	assert.Equal(t, "Show  •  app", RepoTitle("Show", s, r, ""))
}

func TestBranchesAndTags_Ordering(t *testing.T) {
	f := gittest.New(t)
	f.Commit("init", map[string]string{"a": "1"})
	f.Branch("feature")
	f.Tag("v1.0.0", "")
	f.Remote("origin", "git@github.com:acme/app.git", "main")
	r := openRepo(t, f)

	items, err := BranchesAndTags(context.Background(), []*git.Repository{r}, ListOptions{Tags: true, Picked: "feature"})
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "feature", "v1.0.0", "origin/main"}, labels(items))
	assert.Equal(t, "current branch", items[0].Description)
	assert.True(t, items[1].Picked)
	assert.Equal(t, "tag", items[2].Description)
	assert.Equal(t, "remote branch", items[3].Description)

	items, err = BranchesAndTags(context.Background(), []*git.Repository{r}, ListOptions{
		Filter: func(b git.Branch) bool { return !b.IsRemote() },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "feature"}, labels(items))
}

func TestBranchesAndTags_MultiRepoIntersection(t *testing.T) {
	a := gittest.New(t)
	a.Commit("init", map[string]string{"a": "1"})
	a.Branch("shared")
	a.Branch("only-a")
	a.Tag("v1", "")
	a.Remote("origin", "git@github.com:acme/a.git", "main")

	b := gittest.New(t)
	b.Commit("init", map[string]string{"b": "1"})
	b.Branch("shared")
	b.Tag("v1", "")
	b.Tag("v2", "")

	repos := []*git.Repository{openRepo(t, a), openRepo(t, b)}
	items, err := BranchesAndTags(context.Background(), repos, ListOptions{Tags: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "shared", "v1"}, labels(items))
	assert.Empty(t, items[0].Detail, "hashes differ between repositories")
}

type pickerSetup struct {
	repo *git.Repository
	head string
}

func refsFixture(t *testing.T) pickerSetup {
	t.Helper()
	f := gittest.New(t)
	f.Commit("first", map[string]string{"a": "1"})
	head := f.Commit("second", map[string]string{"a": "2"})
	f.Branch("feature")
	f.Tag("v1", "")
	return pickerSetup{repo: openRepo(t, f), head: head}
}

func TestPickBranchOrTag_ShowTagsToggle(t *testing.T) {
	fx := refsFixture(t)
	env := testEnv(&bytes.Buffer{}, &fakeClipboard{})
	s := &Scope{Repos: []*git.Repository{fx.repo}, Title: "History"}
	step := PickBranchOrTag(context.Background(), env, s, s.Repos, BranchOrTagOptions{
		Placeholder: "Choose a branch or tag",
		AllowRefs:   true,
	})

	assert.Equal(t, "History", step.Title)
	assert.Equal(t, "Choose a branch or tag   (or enter a reference using #)", step.Placeholder)
	assert.Equal(t, []string{"main", "feature"}, labels(step.Items))
	require.NotEmpty(t, step.Buttons)
	toggle := step.Buttons[0]
	assert.False(t, toggle.On())

	p := wizard.NewListPicker(step)
	require.NoError(t, toggle.OnClick(context.Background(), p))
	assert.True(t, toggle.On())
	assert.Equal(t, []string{"main", "feature", "v1"}, labels(p.Items()))
	assert.False(t, p.Busy())

	require.NotNil(t, step.ValidateValue)
	assert.True(t, hasKey(step, "right"))
}

func TestPickBranchOrTag_Empty(t *testing.T) {
	f := gittest.New(t)
	r := openRepo(t, f)
	env := testEnv(&bytes.Buffer{}, &fakeClipboard{})
	s := &Scope{Repos: []*git.Repository{r}, ShowTags: true}
	step := PickBranchOrTag(context.Background(), env, s, s.Repos, BranchOrTagOptions{Placeholder: "Choose"})
	assert.True(t, step.IsDirectiveOnly())
	assert.Contains(t, step.Placeholder, "No branches or tags found in ")
}

func TestReferenceValidator(t *testing.T) {
	fx := refsFixture(t)
	ctx := context.Background()
	validate := referenceValidator(fx.repo, func(c *git.Commit) wizard.Item { return commitItem(c, "") })
	listed := []wizard.Item{{Label: "main"}, {Label: "feature"}}

	tests := []struct {
		name      string
		value     string
		handled   bool
		wantItems []string
	}{
		{name: "plain text", value: "fix", handled: false},
		{name: "branch name stays a filter", value: "feature", handled: false},
		{name: "ref mode invalid", value: "#nope", handled: true, wantItems: []string{"Enter a reference or commit id"}},
		{name: "ref mode empty", value: "#", handled: true, wantItems: []string{"Enter a reference or commit id"}},
		{name: "ref mode branch", value: "#feature", handled: true, wantItems: []string{"second"}},
		{name: "sha", value: fx.head[:8], handled: true, wantItems: []string{"second"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := wizard.NewListPicker(&wizard.Step{Items: listed})
			assert.Equal(t, tc.handled, validate(ctx, p, tc.value))
			if tc.wantItems != nil {
				assert.Equal(t, tc.wantItems, labels(p.Items()))
			} else {
				assert.Equal(t, []string{"main", "feature"}, labels(p.Items()))
			}
		})
	}

	p := wizard.NewListPicker(&wizard.Step{})
	require.True(t, validate(ctx, p, "#nope"))
	it, _ := p.Active()
	assert.Equal(t, wizard.ItemDirective, it.Kind)
	assert.Equal(t, wizard.DirectiveBack, it.Directive)
}

func TestValidateRefName(t *testing.T) {
	fx := refsFixture(t)
	repos := []*git.Repository{fx.repo}
	tests := []struct {
		value string
		ok    bool
		msg   string
	}{
		{value: "  ", msg: "Please enter a valid branch name"},
		{value: "bad..name", msg: "'bad..name' isn't a valid branch name"},
		{value: "feature", msg: "A branch or tag named 'feature' already exists in " + fx.repo.Name()},
		{value: " topic/new ", ok: true},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			ok, msg := ValidateRefName(repos, "branch", tc.value)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.msg, msg)
		})
	}

	step := InputRefName(&Scope{Repos: repos}, repos, git.RefTag, "", "Enter a tag name", "")
	assert.Equal(t, wizard.StepInput, step.Kind)
	ok, msg := step.Check(context.Background(), "")
	assert.False(t, ok)
	assert.Equal(t, "Please enter a valid tag name", msg)
}

func TestPickCommit(t *testing.T) {
	ctx := context.Background()
	fx := refsFixture(t)
	env := testEnv(&bytes.Buffer{}, &fakeClipboard{})
	s := &Scope{Repos: []*git.Repository{fx.repo}, Title: "History"}

	log, err := fx.repo.Log(ctx, "main", 0, 1)
	require.NoError(t, err)
	step := PickCommit(env, s, fx.repo, log, CommitOptions{Placeholder: "Choose a commit", Ref: "main", Picked: fx.head})
	assert.Equal(t, []string{"second", "Load more commits"}, labels(step.Items))
	assert.True(t, step.Items[0].Picked)
	assert.True(t, IsLoadMore(wizard.Picked(step.Items[1])))
	c, ok := Commit(wizard.Picked(step.Items[0]))
	require.True(t, ok)
	assert.Equal(t, fx.head, c.Hash)
	assert.True(t, hasKey(step, "alt+right"))

	empty := PickCommit(env, s, fx.repo, &git.Log{Ref: "feature"}, CommitOptions{Ref: "feature"})
	assert.Equal(t, "No commits found in feature", empty.Placeholder)
	assert.True(t, empty.IsDirectiveOnly())

	typed := PickCommit(env, s, fx.repo, nil, CommitOptions{Placeholder: "Enter a reference or commit id "})
	assert.Empty(t, typed.Items)
	require.NotNil(t, typed.ValidateValue)
}

func TestKeysNotifyFromActions(t *testing.T) {
	ctx := context.Background()
	fx := refsFixture(t)
	env := testEnv(&bytes.Buffer{}, &fakeClipboard{})
	s := &Scope{Repos: []*git.Repository{fx.repo}}

	step := PickBranchOrTag(ctx, env, s, s.Repos, BranchOrTagOptions{})
	p := wizard.NewListPicker(step)
	p.SetActive(1)
	for _, k := range step.Keys {
		if k.Key == "right" {
			require.NoError(t, k.OnPress(ctx, p))
		}
	}
	assert.Equal(t, []string{"Branch feature is at HEAD"}, p.Notices())
}

func TestConfirm(t *testing.T) {
	step := Confirm("Reset", ConfirmItem{Label: "Soft Reset", Value: git.ResetSoft}, ConfirmItem{Label: "Hard Reset", Value: git.ResetHard})
	assert.Equal(t, "Confirm Reset", step.Title)
	assert.Equal(t, []string{"Soft Reset", "Hard Reset", "Cancel"}, labels(step.Items))
	v, ok := Confirmed(wizard.Picked(step.Items[1]))
	require.True(t, ok)
	assert.Equal(t, git.ResetHard, v)
	_, ok = Confirmed(wizard.Picked(step.Items[2]))
	assert.False(t, ok)
}

func TestPickStash(t *testing.T) {
	fx := refsFixture(t)
	s := &Scope{Repos: []*git.Repository{fx.repo}}

	empty := PickStash(s, fx.repo, nil, "Choose a stash", "")
	assert.True(t, empty.IsDirectiveOnly())
	assert.Equal(t, "No stashes found in "+fx.repo.Name(), empty.Placeholder)

	stashes := []git.Stash{{Name: "stash@{0}", Message: "WIP on main"}, {Name: "stash@{1}", Message: "older"}}
	step := PickStash(s, fx.repo, stashes, "Choose a stash", "stash@{1}")
	assert.Equal(t, []string{"WIP on main", "older"}, labels(step.Items))
	assert.True(t, step.Items[1].Picked)
	st, ok := Stash(wizard.Picked(step.Items[0]))
	require.True(t, ok)
	assert.Equal(t, "stash@{0}", st.Name)
}

func TestPickRepositories(t *testing.T) {
	a := gittest.New(t)
	a.Commit("init", map[string]string{"a": "1"})
	b := gittest.New(t)
	b.Commit("init", map[string]string{"b": "1"})
	ra, rb := openRepo(t, a), openRepo(t, b)
	s := &Scope{Repos: []*git.Repository{ra, rb}}

	step := PickRepositories(s, "", []*git.Repository{rb})
	assert.True(t, step.Multiselect)
	assert.Equal(t, "Choose repositories", step.Placeholder)
	assert.False(t, step.Items[0].Picked)
	assert.True(t, step.Items[1].Picked)
	assert.Equal(t, "main", step.Items[0].Detail)

	got := Repositories(wizard.Picked(step.Items...))
	assert.Equal(t, []*git.Repository{ra, rb}, got)

	single := PickRepository(s, "", ra)
	repo, ok := Repository(wizard.Picked(single.Items[0]))
	require.True(t, ok)
	assert.Same(t, ra, repo)

	none := PickRepository(&Scope{}, "", nil)
	assert.True(t, none.IsDirectiveOnly())
}
