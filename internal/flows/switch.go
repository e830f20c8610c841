package flows

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// SwitchState holds the answers of the switch flow.
type SwitchState struct {
	wizard.State
	Repos     wizard.Answer[[]*git.Repository]
	Reference wizard.Answer[git.Reference]
}

// Switch checks out a branch, tag or commit in one or more repositories.
type Switch struct {
	base
	st SwitchState
}

// NewSwitch returns a switch flow seeded with st.
func NewSwitch(d *Deps, st SwitchState) *Switch {
	s := &Switch{base: base{deps: d}, st: st}
	n := 0
	if st.Repos.IsSet() {
		n++
		if st.Reference.IsSet() {
			n++
		}
	}
	s.st.Counter = max(s.st.Counter, n)
	return s
}

func (s *Switch) Name() string          { return "switch" }
func (s *Switch) State() *wizard.State  { return &s.st.State }
func (s *Switch) Setup(context.Context) { s.setup("Switch") }

func (s *Switch) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	resolveRepos(&s.st.Repos, s.deps.Repos)
	staleRepos(&s.st.Repos, s.deps.Repos)
	if p.Pending(1) || !s.st.Repos.IsResolved() {
		if len(s.deps.Repos) == 1 {
			s.st.Repos.Set(s.deps.Repos)
			p.Skip(1)
		} else {
			step := steps.PickRepositories(&s.scope, "", s.st.Repos.Get())
			return p.Ask(1, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
				repos := steps.Repositories(r)
				if len(repos) == 0 {
					return wizard.Stay()
				}
				s.st.Repos.Set(repos)
				return wizard.Advance()
			})
		}
	}
	repos := s.st.Repos.Get()

	resolveReference(&s.st.Reference, repos[0], s.env())
	staleReference(&s.st.Reference, repos[0], s.env())
	if p.Pending(2) || !s.st.Reference.IsResolved() {
		o := steps.BranchOrTagOptions{
			Placeholder: "Choose a branch or tag to switch to",
			AllowRefs:   true,
		}
		if ref, ok := s.st.Reference.Value(); ok {
			o.Picked = ref.Name
		}
		step := steps.PickBranchOrTag(ctx, s.env(), &s.scope, repos, o)
		return p.Ask(2, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			ref, ok := steps.Reference(r)
			if !ok {
				return wizard.Stay()
			}
			s.st.Reference.Set(ref)
			return wizard.Advance()
		})
	}
	ref := s.st.Reference.Get()

	title := steps.AppendReposToTitle("Switch", &s.scope, repos, "")
	return s.confirmOrExecute(p, 3, title, []steps.ConfirmItem{{
		Label:  "Switch to " + ref.ShortName(),
		Detail: fmt.Sprintf("Will switch to %s in %s", ref, reposLabel(repos)),
	}}, func(any) wizard.Command {
		return s.checkout(repos, ref)
	})
}

func (s *Switch) checkout(repos []*git.Repository, ref git.Reference) wizard.Command {
	return func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		for _, repo := range repos {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := repo.Checkout(ref.Ref()); err != nil {
					return fmt.Errorf("%s: %w", repo.Name(), err)
				}
				s.env().Actions.Println(fmt.Sprintf("Switched %s to %s", repo.Name(), ref))
				return nil
			})
		}
		return g.Wait()
	}
}

func reposLabel(repos []*git.Repository) string {
	if len(repos) == 1 {
		return repos[0].Name()
	}
	return fmt.Sprintf("%d repositories", len(repos))
}
