package flows

import (
	"context"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// StashSubcommand is what the stash flow does with the picked entry.
type StashSubcommand string

const (
	StashApply StashSubcommand = "apply"
	StashPop   StashSubcommand = "pop"
	StashDrop  StashSubcommand = "drop"
	StashList  StashSubcommand = "list"
)

var stashSubcommands = []struct {
	sub    StashSubcommand
	label  string
	detail string
}{
	{StashApply, "Apply", "Apply a stash to the working tree"},
	{StashPop, "Pop", "Apply a stash and delete it"},
	{StashDrop, "Delete", "Delete a stash"},
	{StashList, "List", "Browse the stashes and their changed files"},
}

// ParseStashSubcommand maps a command line word to a subcommand.
func ParseStashSubcommand(s string) (StashSubcommand, bool) {
	for _, c := range stashSubcommands {
		if string(c.sub) == s {
			return c.sub, true
		}
	}
	return "", false
}

// StashState holds the answers of the stash flow.
type StashState struct {
	wizard.State
	Subcommand wizard.Answer[StashSubcommand]
	Repo       wizard.Answer[*git.Repository]
	Stash      wizard.Answer[git.Stash]
}

// Stash applies, pops, deletes or lists stashes.
type Stash struct {
	base
	st StashState
}

// NewStash returns a stash flow seeded with st.
func NewStash(d *Deps, st StashState) *Stash {
	s := &Stash{base: base{deps: d}, st: st}
	n := 0
	if st.Subcommand.IsSet() {
		n++
		if st.Repo.IsSet() {
			n++
			if st.Stash.IsSet() {
				n++
			}
		}
	}
	s.st.Counter = max(s.st.Counter, n)
	return s
}

func (s *Stash) Name() string          { return "stash" }
func (s *Stash) State() *wizard.State  { return &s.st.State }
func (s *Stash) Setup(context.Context) { s.setup("Stash") }

func (s *Stash) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	if ph := s.st.Subcommand.Placeholder(); ph != "" {
		if sub, ok := ParseStashSubcommand(ph); ok {
			s.st.Subcommand.Set(sub)
		} else {
			s.st.Subcommand.Clear()
		}
	}
	if p.Pending(1) || !s.st.Subcommand.IsResolved() {
		step := &wizard.Step{Title: s.scope.Title, Placeholder: "Choose a stash command"}
		for _, c := range stashSubcommands {
			step.Items = append(step.Items, wizard.Item{
				Label:  c.label,
				Detail: c.detail,
				Picked: s.st.Subcommand.Get() == c.sub,
				Value:  c.sub,
			})
		}
		return p.Ask(1, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			it, ok := r.First()
			if !ok {
				return wizard.Stay()
			}
			sub, ok := it.Value.(StashSubcommand)
			if !ok {
				return wizard.Stay()
			}
			s.st.Subcommand.Set(sub)
			return wizard.Advance()
		})
	}
	sub := s.st.Subcommand.Get()
	s.scope.Title = "Stash " + stashTitle(sub)

	if act, ok := s.askRepo(p, 2, &s.st.Repo, func() { s.st.Stash.Clear() }); ok {
		return act
	}
	repo := s.st.Repo.Get()

	resolveStash(ctx, &s.st.Stash, repo, s.env())
	if p.Pending(3) || !s.st.Stash.IsResolved() {
		stashes, err := repo.Stashes(ctx)
		if err != nil {
			s.env().Log.Warn().Err(err).Str("repo", repo.Name()).Msg("list stashes")
		}
		step := steps.PickStash(&s.scope, repo, stashes, "Choose a stash", s.st.Stash.Get().Name)
		return p.Ask(3, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			st, ok := steps.Stash(r)
			if !ok {
				return wizard.Stay()
			}
			s.st.Stash.Set(st)
			return wizard.Advance()
		})
	}
	st := s.st.Stash.Get()

	title := steps.RepoTitle(s.scope.Title, &s.scope, repo, "")
	switch sub {
	case StashList:
		c, err := repo.StashCommit(ctx, st)
		if err != nil {
			s.env().Log.Warn().Err(err).Str("stash", st.Name).Msg("load stash")
			s.st.Stash.Clear()
			return s.Next(ctx, p)
		}
		return p.Delegate(NewShow(s.deps, ShowState{
			State:  wizard.State{Counter: 2},
			Repo:   wizard.Resolved(repo),
			Commit: wizard.Resolved(c),
		}))
	case StashDrop:
		return s.confirm(p, 4, title, []steps.ConfirmItem{{
			Label:  "Delete Stash",
			Detail: "Will delete " + st.Name + ": " + st.Message,
		}}, func(any) wizard.Command {
			return func(ctx context.Context) error {
				if err := repo.StashDrop(ctx, st.Name); err != nil {
					return err
				}
				s.env().Actions.Println("Deleted " + st.Name)
				return nil
			}
		})
	}

	choices := []steps.ConfirmItem{
		{Label: "Apply Stash", Detail: "Will apply " + st.Name + " to the working tree", Value: false},
		{Label: "Pop Stash", Detail: "Will apply " + st.Name + " and delete it", Value: true},
	}
	if sub == StashPop {
		choices = choices[1:]
	}
	return s.confirmOrExecute(p, 4, title, choices, func(v any) wizard.Command {
		pop, _ := v.(bool)
		return func(ctx context.Context) error {
			if err := repo.StashApply(ctx, st.Name, pop); err != nil {
				return err
			}
			s.env().Actions.Println("Applied " + st.Name)
			return nil
		}
	})
}

func stashTitle(sub StashSubcommand) string {
	for _, c := range stashSubcommands {
		if c.sub == sub {
			return c.label
		}
	}
	return ""
}
