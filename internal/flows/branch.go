package flows

import (
	"context"
	"strings"

	"github.com/gosimple/slug"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// BranchState holds the answers of the branch creation flow.
type BranchState struct {
	wizard.State
	Repo      wizard.Answer[*git.Repository]
	Reference wizard.Answer[git.Reference]
	Name      wizard.Answer[string]
}

// BranchCreate creates a branch at a branch, tag or commit.
type BranchCreate struct {
	base
	st BranchState
}

// NewBranchCreate returns a branch creation flow seeded with st.
func NewBranchCreate(d *Deps, st BranchState) *BranchCreate {
	b := &BranchCreate{base: base{deps: d}, st: st}
	n := 0
	if st.Repo.IsSet() {
		n++
		if st.Reference.IsSet() {
			n++
			if st.Name.IsSet() {
				n++
			}
		}
	}
	b.st.Counter = max(b.st.Counter, n)
	return b
}

func (b *BranchCreate) Name() string          { return "branch" }
func (b *BranchCreate) State() *wizard.State  { return &b.st.State }
func (b *BranchCreate) Setup(context.Context) { b.setup("Create Branch") }

func (b *BranchCreate) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	if act, ok := b.askRepo(p, 1, &b.st.Repo, func() { b.st.Reference.Clear() }); ok {
		return act
	}
	repo := b.st.Repo.Get()

	if act, ok := b.askReference(ctx, p, 2, repo, &b.st.Reference, steps.BranchOrTagOptions{
		Placeholder: "Choose a base to create the new branch from",
		AllowRefs:   true,
	}, nil); ok {
		return act
	}
	ref := b.st.Reference.Get()

	if p.Pending(3) || !b.st.Name.IsResolved() {
		value := b.st.Name.Get()
		if value == "" {
			value = b.st.Name.Placeholder()
		}
		if value == "" {
			value = b.suggestName(ctx, repo, ref)
		}
		step := steps.InputRefName(&b.scope, []*git.Repository{repo}, git.RefBranch,
			" from "+ref.ShortName(), "Please provide a name for the new branch", value)
		return p.Ask(3, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			b.st.Name.Set(strings.TrimSpace(r.Text))
			return wizard.Advance()
		})
	}
	name := b.st.Name.Get()

	title := steps.RepoTitle("Create Branch", &b.scope, repo, "")
	return b.confirmOrExecute(p, 4, title, []steps.ConfirmItem{
		{Label: "Create Branch", Detail: "Will create branch " + name + " from " + ref.ShortName(), Value: false},
		{Label: "Create Branch and Switch", Detail: "Will create and switch to branch " + name, Value: true},
	}, func(v any) wizard.Command {
		checkout, _ := v.(bool)
		return func(context.Context) error {
			if err := repo.CreateBranch(name, ref.Ref(), checkout); err != nil {
				return err
			}
			b.env().Actions.Println("Created branch " + name + " from " + ref.ShortName())
			return nil
		}
	})
}

// suggestName derives a branch name from a commit summary or the short name
// of a remote branch.
func (b *BranchCreate) suggestName(ctx context.Context, repo *git.Repository, ref git.Reference) string {
	switch {
	case ref.IsRevision():
		c, err := repo.Commit(ctx, ref.Hash)
		if err != nil {
			return ""
		}
		return slug.Make(c.Summary())
	case ref.Kind == git.RefBranch && ref.Remote:
		_, short, _ := strings.Cut(ref.Name, "/")
		return short
	}
	return ""
}
