package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

func lineItems(labels ...string) []wizard.Item {
	out := make([]wizard.Item, len(labels))
	for i, l := range labels {
		out[i] = wizard.Item{Label: l, Value: l}
	}
	return out
}

func present(t *testing.T, step *wizard.Step, input string) (wizard.Result, string) {
	t.Helper()
	var out bytes.Buffer
	h := NewLineHost(strings.NewReader(input), &out)
	r, err := h.Present(context.Background(), step)
	require.NoError(t, err)
	return r, out.String()
}

func pickedLabels(r wizard.Result) []string {
	var out []string
	for _, it := range r.Items {
		out = append(out, it.Label)
	}
	return out
}

func TestLineHost_Pick(t *testing.T) {
	tests := []struct {
		name  string
		step  *wizard.Step
		input string
		want  []string
	}{
		{
			name:  "number",
			step:  &wizard.Step{Items: lineItems("main", "feature", "v1")},
			input: "2\n",
			want:  []string{"feature"},
		},
		{
			name:  "filter then number",
			step:  &wizard.Step{Items: lineItems("main", "feature", "fix-login")},
			input: "fea\n1\n",
			want:  []string{"feature"},
		},
		{
			name:  "cleared filter",
			step:  &wizard.Step{Items: lineItems("main", "feature")},
			input: "fea\n\n1\n",
			want:  []string{"main"},
		},
		{
			name:  "multiselect",
			step:  &wizard.Step{Items: lineItems("a", "b", "c"), Multiselect: true},
			input: "1, 3\n",
			want:  []string{"a", "c"},
		},
		{
			name:  "out of range retried",
			step:  &wizard.Step{Items: lineItems("main", "feature")},
			input: "5\n1\n",
			want:  []string{"main"},
		},
		{
			name:  "no trailing newline",
			step:  &wizard.Step{Items: lineItems("main", "feature")},
			input: "2",
			want:  []string{"feature"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := present(t, tc.step, tc.input)
			require.Equal(t, wizard.ResultItems, r.Kind)
			assert.Equal(t, tc.want, pickedLabels(r))
		})
	}
}

func TestLineHost_Breaks(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		canGoBack bool
		want      wizard.ResultKind
	}{
		{name: "back", input: "b\n", canGoBack: true, want: wizard.ResultBack},
		{name: "back on first step", input: "b\n", want: wizard.ResultCancel},
		{name: "quit", input: "q\n", canGoBack: true, want: wizard.ResultCancel},
		{name: "closed input", input: "", canGoBack: true, want: wizard.ResultCancel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := present(t, &wizard.Step{Items: lineItems("a"), CanGoBack: tc.canGoBack}, tc.input)
			assert.Equal(t, tc.want, r.Kind)
		})
	}
}

func TestLineHost_Output(t *testing.T) {
	list := lineItems("main", "feature")
	list[0].Description = "current branch"
	list[1].Picked = true
	_, out := present(t, &wizard.Step{Title: "Switch", Placeholder: "Choose a branch", Items: list}, "7\n1\n")

	assert.Contains(t, out, "Switch\n")
	assert.Contains(t, out, "  1) main  current branch\n")
	assert.Contains(t, out, "  2) feature *\n")
	assert.Contains(t, out, "Choose a branch. Enter number (1-2)")
	assert.Contains(t, out, "selection out of range: 7 (must be 1-2)")
}

func TestLineHost_SingleSelectRejectsList(t *testing.T) {
	r, out := present(t, &wizard.Step{Items: lineItems("a", "b")}, "1,2\n2\n")
	assert.Equal(t, []string{"b"}, pickedLabels(r))
	assert.Contains(t, out, "pick a single number")
}

func TestLineHost_Input(t *testing.T) {
	step := &wizard.Step{
		Kind:        wizard.StepInput,
		Placeholder: "Please provide a name for the new branch",
		Validate: func(_ context.Context, v string) (bool, string) {
			if v == "main" {
				return false, "A branch named 'main' already exists"
			}
			return true, ""
		},
	}
	r, out := present(t, step, "main\nmain-2\n")

	assert.Equal(t, wizard.Text("main-2"), r)
	assert.Contains(t, out, "Please provide a name for the new branch (b to go back, q to quit): ")
	assert.Contains(t, out, "A branch named 'main' already exists")
}

func TestLineHost_ValidateValue(t *testing.T) {
	step := &wizard.Step{
		Items: lineItems("main", "feature"),
		ValidateValue: func(_ context.Context, p wizard.Picker, v string) bool {
			if !strings.HasPrefix(v, "#") {
				return false
			}
			p.SetItems([]wizard.Item{{Label: "commit " + v[1:], AlwaysShow: true}})
			p.Notify("resolved " + v)
			return true
		},
	}

	r, out := present(t, step, "#ab\n1\n")
	assert.Equal(t, []string{"commit ab"}, pickedLabels(r))
	assert.Contains(t, out, "resolved #ab")

	r, _ = present(t, step, "#ab\nfea\n1\n")
	assert.Equal(t, []string{"feature"}, pickedLabels(r))
}

func TestLineHost_InputKeepsPrefilledValue(t *testing.T) {
	step := &wizard.Step{Kind: wizard.StepInput, Placeholder: "Please provide a name for the new branch", Value: "add-readme"}
	r, out := present(t, step, "\n")

	assert.Equal(t, wizard.Text("add-readme"), r)
	assert.Contains(t, out, "Please provide a name for the new branch [add-readme]")
}
