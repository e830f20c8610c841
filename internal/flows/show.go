package flows

import (
	"context"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// ShowState holds the answers of the show flow.
type ShowState struct {
	wizard.State
	Repo   wizard.Answer[*git.Repository]
	Commit wizard.Answer[*git.Commit]
	File   wizard.Answer[git.FileChange]
}

// Show opens a commit or stash: its action menu, its changed files and the
// actions of one file.
type Show struct {
	base
	st ShowState
}

// NewShow returns a show flow seeded with st. A seeded file skips the commit
// menu and the file list.
func NewShow(d *Deps, st ShowState) *Show {
	s := &Show{base: base{deps: d}, st: st}
	n := 0
	if st.Repo.IsSet() {
		n++
		if st.Commit.IsSet() {
			n++
			if st.File.IsSet() {
				n += 2
			}
		}
	}
	s.st.Counter = max(s.st.Counter, n)
	return s
}

func (s *Show) Name() string          { return "show" }
func (s *Show) State() *wizard.State  { return &s.st.State }
func (s *Show) Setup(context.Context) { s.setup("Show") }

// StartingStep lets a seeded run go back to the commit menu.
func (s *Show) StartingStep(initial int) int { return min(initial, 1) }

func (s *Show) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	if act, ok := s.askRepo(p, 1, &s.st.Repo, func() {
		s.st.Commit.Clear()
		s.st.File.Clear()
	}); ok {
		return act
	}
	repo := s.st.Repo.Get()

	resolveCommit(ctx, &s.st.Commit, repo, s.env())
	if p.Pending(2) || !s.st.Commit.IsResolved() {
		value := ""
		if c, ok := s.st.Commit.Value(); ok {
			value = c.ShortHash()
		}
		step := steps.PickCommit(s.env(), &s.scope, repo, nil, steps.CommitOptions{
			Placeholder: "Enter a reference or commit id ",
			Value:       value,
		})
		return p.Ask(2, step, func(ctx context.Context, r wizard.Result) wizard.Outcome {
			c, ok := steps.Commit(r)
			if !ok {
				return wizard.Stay()
			}
			if full, err := fullCommit(ctx, repo, c); err == nil {
				c = full
			}
			if old, ok := s.st.Commit.Value(); !ok || old.Hash != c.Hash {
				s.st.File.Clear()
			}
			s.st.Commit.Set(c)
			return wizard.Advance()
		})
	}
	c := s.st.Commit.Get()
	if c.Files == nil {
		if full, err := fullCommit(ctx, repo, c); err == nil {
			s.st.Commit.Set(full)
			c = full
		}
	}

	if p.Pending(3) {
		step := steps.CommitMenu(s.env(), &s.scope, repo, c, steps.CommitMenuOptions{
			Delegates: s.delegates(repo, c),
		})
		return p.Ask(3, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			if steps.IsFilesItem(r) {
				return wizard.Advance()
			}
			return wizard.Stay()
		})
	}

	if ph := s.st.File.Placeholder(); ph != "" {
		if f, ok := c.File(ph); ok {
			s.st.File.Set(f)
		} else {
			s.st.File.Clear()
		}
	}
	if p.Pending(4) || !s.st.File.IsResolved() {
		step := steps.ChangedFiles(&s.scope, repo, c, s.st.File.Get().Path)
		return p.Ask(4, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			f, ok := steps.File(r)
			if !ok {
				return wizard.Stay()
			}
			s.st.File.Set(f)
			return wizard.Advance()
		})
	}

	step := steps.ChangedFileMenu(s.env(), &s.scope, repo, c, s.st.File.Get())
	return p.Ask(5, step, func(context.Context, wizard.Result) wizard.Outcome {
		return wizard.Stay()
	})
}

// delegates are the commit menu entries that hand the commit to another
// flow.
func (s *Show) delegates(repo *git.Repository, c *git.Commit) []wizard.Item {
	d := s.deps
	only := []*git.Repository{repo}
	if c.IsStash() {
		st := git.Stash{Name: c.StashName, Hash: c.Hash, Message: c.Message, Date: c.Date}
		return []wizard.Item{
			delegate("Apply Stash...", func() wizard.Flow {
				return NewStash(d, StashState{
					Subcommand: wizard.Resolved(StashApply),
					Repo:       wizard.Resolved(repo),
					Stash:      wizard.Resolved(st),
				})
			}),
			delegate("Delete Stash...", func() wizard.Flow {
				return NewStash(d, StashState{
					Subcommand: wizard.Resolved(StashDrop),
					Repo:       wizard.Resolved(repo),
					Stash:      wizard.Resolved(st),
				})
			}),
		}
	}

	ref := git.RevisionRef(c)
	items := []wizard.Item{
		delegate("Checkout Commit...", func() wizard.Flow {
			return NewSwitch(d, SwitchState{
				Repos:     wizard.Resolved(only),
				Reference: wizard.Resolved(ref),
			})
		}),
		delegate("Revert Commit...", func() wizard.Flow {
			return NewRevert(d, RevertState{
				Repo:    wizard.Resolved(repo),
				Commits: wizard.Resolved([]*git.Commit{c}),
			})
		}),
	}
	if branch, err := repo.CurrentBranch(); err == nil && branch != "" {
		items = append(items, delegate("Reset "+branch+" to Commit...", func() wizard.Flow {
			return NewReset(d, ResetState{
				Repo:   wizard.Resolved(repo),
				Commit: wizard.Resolved(c),
			})
		}))
	}
	return append(items,
		delegate("Create Branch at Commit...", func() wizard.Flow {
			return NewBranchCreate(d, BranchState{
				Repo:      wizard.Resolved(repo),
				Reference: wizard.Resolved(ref),
			})
		}),
		delegate("Create Tag at Commit...", func() wizard.Flow {
			return NewTagCreate(d, TagState{
				Repo:      wizard.Resolved(repo),
				Reference: wizard.Resolved(ref),
			})
		}),
	)
}

func delegate(label string, f func() wizard.Flow) wizard.Item {
	return wizard.Item{Kind: wizard.ItemDelegate, Label: label, Delegate: f}
}
