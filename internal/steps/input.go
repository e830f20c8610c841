package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/git"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// InputRefName asks for a new branch or tag name. Names that are invalid
// or already taken in any of repos are rejected with a message.
func InputRefName(s *Scope, repos []*git.Repository, kind git.RefKind, titleContext, placeholder, value string) *wizard.Step {
	noun := kind.String()
	return &wizard.Step{
		Kind:        wizard.StepInput,
		Title:       AppendReposToTitle(s.Title, s, repos, titleContext),
		Placeholder: placeholder,
		Value:       value,
		Validate: func(_ context.Context, value string) (bool, string) {
			return ValidateRefName(repos, noun, value)
		},
	}
}

// ValidateRefName checks a new branch or tag name.
func ValidateRefName(repos []*git.Repository, noun, value string) (bool, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, "Please enter a valid " + noun + " name"
	}
	if !git.ValidateRefName(value) {
		return false, fmt.Sprintf("'%s' isn't a valid %s name", value, noun)
	}
	for _, r := range repos {
		if r.HasBranchOrTag(value) {
			return false, fmt.Sprintf("A branch or tag named '%s' already exists in %s", value, r.Name())
		}
	}
	return true, ""
}

// InputText asks for free text. Any value, including an empty one, is
// accepted.
func InputText(title, placeholder, value string) *wizard.Step {
	return &wizard.Step{
		Kind:        wizard.StepInput,
		Title:       title,
		Placeholder: placeholder,
		Value:       value,
	}
}

// ConfirmItem is one way to go ahead on a confirmation step.
type ConfirmItem struct {
	Label  string
	Detail string
	// Value is handed back through Confirmed.
	Value any
}

// Confirm asks the user to pick one of choices or cancel.
func Confirm(title string, choices ...ConfirmItem) *wizard.Step {
	items := make([]wizard.Item, 0, len(choices)+1)
	for _, c := range choices {
		items = append(items, wizard.Item{Label: c.Label, Detail: c.Detail, Value: confirmed{c.Value}})
	}
	items = append(items, wizard.DirectiveItem(wizard.DirectiveCancel, ""))
	return &wizard.Step{
		Title:       "Confirm " + title,
		Placeholder: "Confirm " + title,
		Items:       items,
	}
}

type confirmed struct{ value any }

// Confirmed returns the value of the picked confirmation.
func Confirmed(r wizard.Result) (any, bool) {
	it, ok := r.First()
	if !ok {
		return nil, false
	}
	c, ok := it.Value.(confirmed)
	return c.value, ok
}
