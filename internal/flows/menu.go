package flows

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// MenuState holds the answers of the command menu.
type MenuState struct {
	wizard.State
	// Last is the name of the most recently opened command.
	Last string
}

// Menu lists the registered commands and runs the picked one. Backing out
// of a command returns to the menu.
type Menu struct {
	base
	st MenuState
}

// NewMenu returns the command menu.
func NewMenu(d *Deps) *Menu {
	return &Menu{base: base{deps: d}}
}

func (m *Menu) Name() string          { return "menu" }
func (m *Menu) State() *wizard.State  { return &m.st.State }
func (m *Menu) Setup(context.Context) { m.setup("gitpick") }

// ResumeAfterBreak keeps the menu open when a command is backed out of.
func (m *Menu) ResumeAfterBreak() bool { return true }

func (m *Menu) Next(_ context.Context, p *wizard.Pass) wizard.Action {
	step := &wizard.Step{
		Title:       m.scope.Title,
		Placeholder: "Choose a command",
	}
	for _, c := range Commands() {
		step.Items = append(step.Items, wizard.Item{
			Kind:        wizard.ItemDelegate,
			Label:       c.Label,
			Description: c.Name,
			Detail:      c.Description,
			Picked:      c.Name == m.st.Last,
			Delegate: func() wizard.Flow {
				m.st.Last = c.Name
				return c.New(m.deps, gjson.Result{})
			},
		})
	}
	return p.Ask(1, step, nil)
}
