package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

func items(labels ...string) []wizard.Item {
	out := make([]wizard.Item, len(labels))
	for i, l := range labels {
		out[i] = wizard.Item{Label: l, Value: l}
	}
	return out
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m picker, msgs ...tea.Msg) (picker, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(picker)
		require.True(t, ok)
	}
	return m, cmd
}

// finishHandler runs the background command of a button or key and feeds
// its result back.
func finishHandler(t *testing.T, m picker, cmd tea.Cmd) picker {
	t.Helper()
	require.NotNil(t, cmd)
	require.True(t, m.busy)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(handlerDoneMsg); ok {
			m, _ = send(t, m, done)
			return m
		}
	}
	t.Fatal("no handler result in batch")
	return m
}

func labelsOf(m picker) []string {
	var out []string
	for _, idx := range m.visible {
		out = append(out, m.items[idx].Label)
	}
	return out
}

func TestPicker_MovesAndPicks(t *testing.T) {
	m := newPicker(context.Background(), &wizard.Step{Title: "Pick", Items: items("main", "feature", "v1")})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyUp})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, m.done)
	it, ok := m.result.First()
	require.True(t, ok)
	assert.Equal(t, "feature", it.Label)
}

func TestPicker_StartsOnPickedItem(t *testing.T) {
	list := items("main", "feature")
	list[1].Picked = true
	m := newPicker(context.Background(), &wizard.Step{Items: list})
	assert.Equal(t, 1, m.cursor)
}

func TestPicker_Filter(t *testing.T) {
	list := append(items("main", "feature", "fix-login"), wizard.DirectiveItem(wizard.DirectiveBack, ""))
	list[0].Detail = "abc1234"
	m := newPicker(context.Background(), &wizard.Step{Items: list, MatchOnDetail: true})

	m, _ = send(t, m, keys("fe"))
	assert.Equal(t, []string{"feature", "Back"}, labelsOf(m))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, keys("abc"))
	assert.Equal(t, []string{"main", "Back"}, labelsOf(m))
}

func TestPicker_Multiselect(t *testing.T) {
	list := items("a", "b", "c")
	list[2].Picked = true
	m := newPicker(context.Background(), &wizard.Step{Items: list, Multiselect: true})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter})

	require.True(t, m.done)
	var got []string
	for _, it := range m.result.Items {
		got = append(got, it.Label)
	}
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestPicker_BreakKeys(t *testing.T) {
	tests := []struct {
		name      string
		key       tea.KeyMsg
		canGoBack bool
		want      wizard.ResultKind
	}{
		{name: "esc goes back", key: tea.KeyMsg{Type: tea.KeyEsc}, canGoBack: true, want: wizard.ResultBack},
		{name: "esc on first step cancels", key: tea.KeyMsg{Type: tea.KeyEsc}, want: wizard.ResultCancel},
		{name: "ctrl+c cancels", key: tea.KeyMsg{Type: tea.KeyCtrlC}, canGoBack: true, want: wizard.ResultCancel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newPicker(context.Background(), &wizard.Step{Items: items("a"), CanGoBack: tc.canGoBack})
			m, _ = send(t, m, tc.key)
			require.True(t, m.done)
			assert.Equal(t, tc.want, m.result.Kind)
		})
	}
}

func TestPicker_InputValidation(t *testing.T) {
	step := &wizard.Step{
		Kind: wizard.StepInput,
		Validate: func(_ context.Context, v string) (bool, string) {
			if v == "main" {
				return false, "A branch named 'main' already exists"
			}
			return true, ""
		},
	}
	m := newPicker(context.Background(), step)

	m, _ = send(t, m, keys("main"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.done)
	assert.True(t, m.failed)
	assert.Contains(t, m.View(), "already exists")

	m, _ = send(t, m, keys("-2"), tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.done)
	assert.Equal(t, wizard.Text("main-2"), m.result)
}

func TestPicker_ButtonReplacesItems(t *testing.T) {
	on := false
	step := &wizard.Step{
		Items: items("main"),
		Buttons: []wizard.Button{{
			Label: "Show Tags",
			Key:   "ctrl+t",
			On:    func() bool { return on },
			OnClick: func(_ context.Context, p wizard.Picker) error {
				on = true
				p.SetItems(items("main", "v1"))
				p.SetPlaceholder("Choose a branch or tag")
				p.Notify("tags shown")
				return nil
			},
		}},
	}
	m := newPicker(context.Background(), step)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	m = finishHandler(t, m, cmd)

	assert.False(t, m.busy)
	assert.Equal(t, []string{"main", "v1"}, labelsOf(m))
	assert.Equal(t, "Choose a branch or tag", m.input.Placeholder)
	assert.Equal(t, "tags shown", m.message)
	assert.Contains(t, m.View(), "[ctrl+t] Show Tags")
}

func TestPicker_KeyHandlerSeesActiveItem(t *testing.T) {
	var seen string
	step := &wizard.Step{
		Items: items("a", "b"),
		Keys: []wizard.Key{{
			Key: "right",
			OnPress: func(_ context.Context, p wizard.Picker) error {
				it, _ := p.Active()
				seen = it.Label
				return errors.New("not on a remote")
			},
		}},
	}
	m := newPicker(context.Background(), step)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = finishHandler(t, m, cmd)

	assert.Equal(t, "b", seen)
	assert.True(t, m.failed)
	assert.Equal(t, "not on a remote", m.message)
}

func TestPicker_ValidateValueRestoresItems(t *testing.T) {
	step := &wizard.Step{
		Items: items("main", "feature"),
		ValidateValue: func(_ context.Context, p wizard.Picker, v string) bool {
			if !strings.HasPrefix(v, "#") {
				return false
			}
			p.SetItems([]wizard.Item{{Label: "commit " + v[1:], AlwaysShow: true}})
			return true
		},
	}
	m := newPicker(context.Background(), step)

	m, _ = send(t, m, keys("#ab"))
	assert.Equal(t, []string{"commit ab"}, labelsOf(m))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, []string{"main", "feature"}, labelsOf(m))
}

func TestPicker_View(t *testing.T) {
	list := items("main", "feature")
	list[0].Description = "current branch"
	m := newPicker(context.Background(), &wizard.Step{Title: "Switch", Placeholder: "Choose a branch", Items: list})

	view := m.View()
	assert.Contains(t, view, "Switch")
	assert.Contains(t, view, "main")
	assert.Contains(t, view, "current branch")
	assert.Contains(t, view, "feature")
}
