package flows

import (
	"context"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/steps"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// TagState holds the answers of the tag creation flow.
type TagState struct {
	wizard.State
	Repo      wizard.Answer[*git.Repository]
	Reference wizard.Answer[git.Reference]
	Name      wizard.Answer[string]
	Message   wizard.Answer[string]
}

// TagCreate creates a lightweight or annotated tag.
type TagCreate struct {
	base
	st TagState
}

// NewTagCreate returns a tag creation flow seeded with st.
func NewTagCreate(d *Deps, st TagState) *TagCreate {
	t := &TagCreate{base: base{deps: d}, st: st}
	n := 0
	if st.Repo.IsSet() {
		n++
		if st.Reference.IsSet() {
			n++
			if st.Name.IsSet() {
				n++
				if st.Message.IsSet() {
					n++
				}
			}
		}
	}
	t.st.Counter = max(t.st.Counter, n)
	return t
}

func (t *TagCreate) Name() string          { return "tag" }
func (t *TagCreate) State() *wizard.State  { return &t.st.State }
func (t *TagCreate) Setup(context.Context) { t.setup("Create Tag") }

func (t *TagCreate) Next(ctx context.Context, p *wizard.Pass) wizard.Action {
	if act, ok := t.askRepo(p, 1, &t.st.Repo, func() { t.st.Reference.Clear() }); ok {
		return act
	}
	repo := t.st.Repo.Get()

	if act, ok := t.askReference(ctx, p, 2, repo, &t.st.Reference, steps.BranchOrTagOptions{
		Placeholder: "Choose a branch or tag to create the new tag from",
		AllowRefs:   true,
	}, nil); ok {
		return act
	}
	ref := t.st.Reference.Get()

	if p.Pending(3) || !t.st.Name.IsResolved() {
		value := t.st.Name.Get()
		if value == "" {
			value = t.st.Name.Placeholder()
		}
		step := steps.InputRefName(&t.scope, []*git.Repository{repo}, git.RefTag,
			" at "+ref.ShortName(), "Please provide a name for the new tag", value)
		return p.Ask(3, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			t.st.Name.Set(strings.TrimSpace(r.Text))
			return wizard.Advance()
		})
	}
	name := t.st.Name.Get()

	if ph := t.st.Message.Placeholder(); ph != "" {
		t.st.Message.Set(ph)
	}
	if p.Pending(4) || !t.st.Message.IsResolved() {
		title := steps.RepoTitle(t.scope.Title, &t.scope, repo, " "+name)
		step := steps.InputText(title, "Please provide an optional message to annotate the tag", t.st.Message.Get())
		return p.Ask(4, step, func(_ context.Context, r wizard.Result) wizard.Outcome {
			t.st.Message.Set(strings.TrimSpace(r.Text))
			return wizard.Advance()
		})
	}
	message := t.st.Message.Get()

	detail := "Will create tag " + name + " at " + ref.ShortName()
	if message != "" {
		detail = "Will create annotated tag " + name + " at " + ref.ShortName()
	}
	title := steps.RepoTitle("Create Tag", &t.scope, repo, "")
	return t.confirmOrExecute(p, 5, title, []steps.ConfirmItem{
		{Label: "Create Tag", Detail: detail},
	}, func(any) wizard.Command {
		return func(context.Context) error {
			if err := repo.CreateTag(name, ref.Ref(), message); err != nil {
				return err
			}
			t.env().Actions.Println("Created tag " + name + " at " + ref.ShortName())
			return nil
		}
	})
}
