// Package tui presents wizard steps as interactive terminal pickers built on
// bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexander-akhmetov/gitpick/internal/debug"
	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

const maxVisible = 12

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Submit key.Binding
	Back   key.Binding
	Cancel key.Binding
}

func newKeyMap(step *wizard.Step) keyMap {
	k := keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Select: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Cancel: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel")),
	}
	if !step.Multiselect {
		k.Select.SetEnabled(false)
	}
	if step.Kind == wizard.StepInput {
		k.Up.SetEnabled(false)
		k.Down.SetEnabled(false)
		k.Submit.SetHelp("enter", "submit")
	}
	if !step.CanGoBack {
		k.Back.SetHelp("esc", "quit")
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Submit, k.Back, k.Cancel}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// handlerDoneMsg reports a finished button or key handler.
type handlerDoneMsg struct{ err error }

type picker struct {
	ctx     context.Context
	step    *wizard.Step
	lp      *wizard.ListPicker
	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	items      []wizard.Item
	generation int
	visible    []int
	cursor     int
	selected   map[int]bool
	// base is the item list to restore when the typed value stops being a
	// reference the step resolves on its own.
	base       []wizard.Item
	overridden bool
	notices    int

	busy    bool
	message string
	failed  bool

	result wizard.Result
	done   bool
}

func newPicker(ctx context.Context, step *wizard.Step) picker {
	ti := textinput.New()
	ti.Placeholder = step.Placeholder
	ti.SetValue(step.Value)
	ti.Prompt = "> "
	if step.Prompt != "" {
		ti.Prompt = step.Prompt + " "
	}
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := picker{
		ctx:     ctx,
		step:    step,
		lp:      wizard.NewListPicker(step),
		input:   ti,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(step),
	}
	m.items = m.lp.Items()
	m.base = m.items
	m.resetSelection()
	m.refilter()
	if step.Value != "" {
		m.valueChanged()
	}
	for i, idx := range m.visible {
		if m.items[idx].Picked && !step.Multiselect {
			m.cursor = i
			break
		}
	}
	return m
}

func (m picker) Init() tea.Cmd {
	return textinput.Blink
}

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case handlerDoneMsg:
		m.busy = false
		if msg.err != nil {
			debug.Logf("tui: handler failed: %v", msg.err)
			m.message, m.failed = msg.err.Error(), true
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m picker) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		return m.finish(wizard.Cancel())
	}
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		if !m.step.CanGoBack {
			return m.finish(wizard.Cancel())
		}
		return m.finish(wizard.Back())
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if idx, ok := m.activeIndex(); ok && m.items[idx].Kind != wizard.ItemDirective {
			m.selected[idx] = !m.selected[idx]
		}
		return m, nil
	}

	if h := m.handler(msg.String()); h != nil {
		return m.run(h)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.message, m.failed = "", false
		m.valueChanged()
	}
	return m, cmd
}

// handler finds the button or key bound to k.
func (m picker) handler(k string) func(context.Context, wizard.Picker) error {
	for _, b := range m.step.Buttons {
		if b.Key == k && b.OnClick != nil {
			return b.OnClick
		}
	}
	for _, sk := range m.step.Keys {
		if sk.Key == k && sk.OnPress != nil {
			return sk.OnPress
		}
	}
	return nil
}

// run starts h in the background and shows the spinner until it returns.
func (m picker) run(h func(context.Context, wizard.Picker) error) (tea.Model, tea.Cmd) {
	if idx, ok := m.activeIndex(); ok {
		m.lp.SetActive(idx)
	} else {
		m.lp.SetActive(-1)
	}
	m.lp.SetValue(m.input.Value())
	m.busy = true
	m.message, m.failed = "", false
	ctx, lp := m.ctx, m.lp
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return handlerDoneMsg{err: h(ctx, lp)}
	})
}

func (m *picker) valueChanged() {
	if m.step.Kind == wizard.StepInput {
		return
	}
	value := m.input.Value()
	m.lp.SetValue(value)
	if m.step.ValidateValue != nil {
		if m.step.ValidateValue(m.ctx, m.lp, value) {
			m.overridden = true
		} else if m.overridden {
			m.overridden = false
			m.lp.SetItems(m.base)
		}
		m.sync()
	}
	m.refilter()
}

// sync picks up what handlers changed through the ListPicker.
func (m *picker) sync() {
	if g := m.lp.Generation(); g != m.generation {
		m.generation = g
		m.items = m.lp.Items()
		if !m.overridden {
			m.base = m.items
		}
		m.cursor = 0
		m.resetSelection()
	}
	m.input.Placeholder = m.lp.Placeholder()
	if notices := m.lp.Notices(); len(notices) > m.notices {
		m.notices = len(notices)
		m.message, m.failed = notices[len(notices)-1], false
	}
	m.refilter()
}

func (m *picker) resetSelection() {
	m.selected = make(map[int]bool)
	if !m.step.Multiselect {
		return
	}
	for i, it := range m.items {
		if it.Picked {
			m.selected[i] = true
		}
	}
}

func (m *picker) refilter() {
	filter := strings.ToLower(strings.TrimSpace(m.input.Value()))
	visible := make([]int, 0, len(m.items))
	for i, it := range m.items {
		if m.overridden || filter == "" || it.AlwaysShow || m.matches(it, filter) {
			visible = append(visible, i)
		}
	}
	m.visible = visible
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m picker) matches(it wizard.Item, filter string) bool {
	if strings.Contains(strings.ToLower(it.Label), filter) ||
		strings.Contains(strings.ToLower(it.Description), filter) {
		return true
	}
	return m.step.MatchOnDetail && strings.Contains(strings.ToLower(it.Detail), filter)
}

func (m picker) activeIndex() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return 0, false
	}
	return m.visible[m.cursor], true
}

func (m picker) submit() (tea.Model, tea.Cmd) {
	if m.step.Kind == wizard.StepInput {
		value := m.input.Value()
		if ok, msg := m.step.Check(m.ctx, value); !ok {
			m.message, m.failed = msg, true
			return m, nil
		}
		return m.finish(wizard.Text(value))
	}

	if m.step.Multiselect {
		var picked []wizard.Item
		for i, it := range m.items {
			if m.selected[i] {
				picked = append(picked, it)
			}
		}
		if len(picked) > 0 {
			return m.finish(wizard.Picked(picked...))
		}
	}
	idx, ok := m.activeIndex()
	if !ok {
		if m.step.AllowEmpty {
			return m.finish(wizard.Picked())
		}
		return m, nil
	}
	return m.finish(wizard.Picked(m.items[idx]))
}

func (m picker) finish(r wizard.Result) (tea.Model, tea.Cmd) {
	m.result = r
	m.done = true
	return m, tea.Quit
}
