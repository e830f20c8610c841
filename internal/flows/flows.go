// Package flows holds gitpick's wizards: history, show, switch, branch and
// tag creation, stash, reset, revert and the command menu that opens them.
//
// Every flow keeps its answers in a state struct embedding wizard.State and
// walks its decisions from the top on each call to Next. A decision is asked
// again when the counter has not reached it or its answer is missing, still
// a placeholder typed by the caller, or stale.
package flows

import (
	"context"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// Deps are shared by every flow of a run.
type Deps struct {
	Env   *steps.Env
	Repos []*git.Repository
	// Confirm adds a final confirmation to flows that change a repository.
	Confirm  bool
	ShowTags bool
}

// base is embedded by the concrete flows.
type base struct {
	deps  *Deps
	scope steps.Scope
}

func (b *base) setup(title string) {
	b.scope = steps.Scope{Repos: b.deps.Repos, Title: title, ShowTags: b.deps.ShowTags}
}

func (b *base) env() *steps.Env { return b.deps.Env }

// askRepo handles a repository decision. It auto-skips when only one
// repository is open and reports false when nothing needs asking. changed
// runs when the user picks a different repository.
func (b *base) askRepo(p *wizard.Pass, ordinal int, ans *wizard.Answer[*git.Repository], changed func()) (wizard.Action, bool) {
	resolveRepo(ans, b.deps.Repos)
	if staleRepo(ans, b.deps.Repos) && changed != nil {
		changed()
	}
	if !p.Pending(ordinal) && ans.IsResolved() {
		return wizard.Action{}, false
	}
	if len(b.deps.Repos) == 1 {
		if ans.Get() != b.deps.Repos[0] && changed != nil {
			changed()
		}
		ans.Set(b.deps.Repos[0])
		p.Skip(ordinal)
		return wizard.Action{}, false
	}

	step := steps.PickRepository(&b.scope, "", ans.Get())
	return p.Ask(ordinal, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
		repo, ok := steps.Repository(r)
		if !ok {
			return wizard.Stay()
		}
		if ans.Get() != repo && changed != nil {
			changed()
		}
		ans.Set(repo)
		return wizard.Advance()
	}), true
}

// askReference handles a branch, tag or commit decision on one repository.
// A single candidate is taken without asking.
func (b *base) askReference(ctx context.Context, p *wizard.Pass, ordinal int, repo *git.Repository, ans *wizard.Answer[git.Reference], o steps.BranchOrTagOptions, changed func()) (wizard.Action, bool) {
	resolveReference(ans, repo, b.env())
	if staleReference(ans, repo, b.env()) && changed != nil {
		changed()
	}
	if !p.Pending(ordinal) && ans.IsResolved() {
		return wizard.Action{}, false
	}

	if ref, ok := ans.Value(); ok {
		o.Picked = ref.Name
	}
	step := steps.PickBranchOrTag(ctx, b.env(), &b.scope, []*git.Repository{repo}, o)
	integrate := func(_ context.Context, r wizard.Result) wizard.Outcome {
		ref, ok := steps.Reference(r)
		if !ok {
			return wizard.Stay()
		}
		if ans.Get() != ref && changed != nil {
			changed()
		}
		ans.Set(ref)
		return wizard.Advance()
	}
	if only, ok := singleValue(step); ok {
		integrate(ctx, wizard.Picked(only))
		p.Skip(ordinal)
		return wizard.Action{}, false
	}
	return p.Ask(ordinal, step, integrate), true
}

// singleValue returns the only value item of a step with exactly one.
func singleValue(step *wizard.Step) (wizard.Item, bool) {
	var found wizard.Item
	n := 0
	for _, it := range step.Items {
		if it.Kind == wizard.ItemValue {
			found = it
			n++
		}
	}
	return found, n == 1
}

// fullCommit reloads c with its changed files.
func fullCommit(ctx context.Context, repo *git.Repository, c *git.Commit) (*git.Commit, error) {
	if c.IsStash() {
		return repo.StashCommit(ctx, git.Stash{Name: c.StashName, Hash: c.Hash, Message: c.Message, Date: c.Date})
	}
	return repo.Commit(ctx, c.Hash)
}

// confirmOrExecute asks the confirmation at ordinal when confirmations are
// on, otherwise it runs the default choice right away.
func (b *base) confirmOrExecute(p *wizard.Pass, ordinal int, title string, choices []steps.ConfirmItem, run func(value any) wizard.Command) wizard.Action {
	if !b.deps.Confirm {
		return p.Execute(choices[0].Label, run(choices[0].Value))
	}
	return b.confirm(p, ordinal, title, choices, run)
}

// confirm always asks which of choices to run.
func (b *base) confirm(p *wizard.Pass, ordinal int, title string, choices []steps.ConfirmItem, run func(value any) wizard.Command) wizard.Action {
	step := steps.Confirm(title, choices...)
	return p.Ask(ordinal, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
		v, ok := steps.Confirmed(r)
		if !ok {
			return wizard.Stay()
		}
		label := ""
		if it, ok := r.First(); ok {
			label = it.Label
		}
		return wizard.Execute(label, run(v))
	})
}
