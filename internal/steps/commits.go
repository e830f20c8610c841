package steps

import (
	"context"
	"fmt"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// loadMore is the value of the "Load more commits" item.
type loadMore struct{}

func commitItem(c *git.Commit, picked string) wizard.Item {
	desc := c.Date.Format("2006-01-02 15:04")
	if c.Author != "" {
		desc = c.Author + ", " + desc
	}
	return wizard.Item{
		Label:       truncate(c.Summary(), 80),
		Description: desc,
		Detail:      c.ShortHash(),
		Picked:      picked != "" && c.Hash == picked,
		Value:       c,
	}
}

func commitItems(log *git.Log, picked string) []wizard.Item {
	items := make([]wizard.Item, 0, len(log.Commits)+1)
	for _, c := range log.Commits {
		items = append(items, commitItem(c, picked))
	}
	if log.HasMore {
		items = append(items, wizard.Item{
			Label:      "Load more commits",
			AlwaysShow: true,
			Value:      loadMore{},
		})
	}
	return items
}

// CommitOptions configures the commit pickers.
type CommitOptions struct {
	// TitleContext is appended to the flow title before the repository.
	TitleContext string
	Placeholder  string
	// Ref is the reference the log was read from; it names empty logs.
	Ref    string
	Picked string
	Value  string
}

// PickCommit asks for a commit of log. A nil log gives an empty list in
// which the user types a reference or commit id.
func PickCommit(env *Env, s *Scope, repo *git.Repository, log *git.Log, o CommitOptions) *wizard.Step {
	step := &wizard.Step{
		Title:         RepoTitle(s.Title, s, repo, o.TitleContext),
		Placeholder:   o.Placeholder,
		Value:         o.Value,
		MatchOnDetail: true,
	}
	switch {
	case log == nil:
	case len(log.Commits) == 0:
		step.Placeholder = "No commits found in " + o.Ref
		step.Items = wizard.DirectiveItems()
		return step
	default:
		step.Items = commitItems(log, o.Picked)
	}

	step.ValidateValue = referenceValidator(repo, func(c *git.Commit) wizard.Item { return commitItem(c, "") })
	addReveal(step, env, repo, func(it wizard.Item) (git.Reference, bool) {
		c, ok := it.Value.(*git.Commit)
		if !ok {
			return git.Reference{}, false
		}
		return git.RevisionRef(c), true
	})
	addSearch(step, env, repo)
	return step
}

// PickCommits asks for any number of commits of log.
func PickCommits(s *Scope, repo *git.Repository, log *git.Log, o CommitOptions, picked []string) *wizard.Step {
	step := &wizard.Step{
		Title:         RepoTitle(s.Title, s, repo, o.TitleContext),
		Placeholder:   o.Placeholder,
		Multiselect:   true,
		MatchOnDetail: true,
	}
	if log == nil || len(log.Commits) == 0 {
		step.Placeholder = "No commits found in " + o.Ref
		step.Multiselect = false
		step.Items = wizard.DirectiveItems()
		return step
	}
	selected := make(map[string]bool, len(picked))
	for _, h := range picked {
		selected[h] = true
	}
	for _, c := range log.Commits {
		it := commitItem(c, "")
		it.Picked = selected[c.Hash]
		step.Items = append(step.Items, it)
	}
	return step
}

// addSearch binds the search button and alt+right to the active commit.
func addSearch(step *wizard.Step, env *Env, repo *git.Repository) {
	if env.Searcher == nil {
		return
	}
	search := func(ctx context.Context, p wizard.Picker) error {
		it, ok := p.Active()
		if !ok {
			return nil
		}
		c, ok := it.Value.(*git.Commit)
		if !ok {
			return nil
		}
		msg, err := env.Searcher.Search(ctx, repo, c)
		if err != nil {
			return err
		}
		p.Notify(msg)
		return nil
	}
	step.Buttons = append(step.Buttons, wizard.Button{Label: "Search", Key: "ctrl+f", OnClick: search})
	for i, k := range step.Keys {
		if k.Key == "alt+right" {
			step.Keys[i] = wizard.Key{Key: k.Key, Help: "search", OnPress: search}
			return
		}
	}
	step.Keys = append(step.Keys, wizard.Key{Key: "alt+right", Help: "search", OnPress: search})
}

// IsLoadMore reports whether the "Load more commits" item was picked.
func IsLoadMore(r wizard.Result) bool {
	it, ok := r.First()
	if !ok {
		return false
	}
	_, ok = it.Value.(loadMore)
	return ok
}

// Commit returns the commit of a picked item.
func Commit(r wizard.Result) (*git.Commit, bool) {
	it, ok := r.First()
	if !ok {
		return nil, false
	}
	c, ok := it.Value.(*git.Commit)
	return c, ok
}

// Commits returns the commits of the picked items.
func Commits(r wizard.Result) []*git.Commit {
	var commits []*git.Commit
	for _, it := range r.Items {
		if c, ok := it.Value.(*git.Commit); ok {
			commits = append(commits, c)
		}
	}
	return commits
}

// PickStash asks for a stash entry.
func PickStash(s *Scope, repo *git.Repository, stashes []git.Stash, placeholder, picked string) *wizard.Step {
	step := &wizard.Step{
		Title:       RepoTitle(s.Title, s, repo, ""),
		Placeholder: placeholder,
	}
	if len(stashes) == 0 {
		step.Placeholder = fmt.Sprintf("No stashes found in %s", repo.Name())
		step.Items = wizard.DirectiveItems()
		return step
	}
	for _, st := range stashes {
		step.Items = append(step.Items, wizard.Item{
			Label:       truncate(st.Message, 80),
			Description: st.Name,
			Detail:      st.Date.Format("2006-01-02 15:04"),
			Picked:      st.Name == picked,
			Value:       st,
		})
	}
	return step
}

// Stash returns the stash of a picked item.
func Stash(r wizard.Result) (git.Stash, bool) {
	it, ok := r.First()
	if !ok {
		return git.Stash{}, false
	}
	st, ok := it.Value.(git.Stash)
	return st, ok
}
