package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswer_Lifecycle(t *testing.T) {
	var a Answer[string]
	assert.True(t, a.IsUnset())
	assert.False(t, a.IsSet())
	assert.Empty(t, a.Get())

	a = Placeholder[string]("src/main.go")
	assert.True(t, a.IsPlaceholder())
	assert.True(t, a.IsSet())
	assert.Equal(t, "src/main.go", a.Placeholder())
	_, ok := a.Value()
	assert.False(t, ok)

	a.Set("resolved")
	assert.True(t, a.IsResolved())
	assert.Empty(t, a.Placeholder())
	v, ok := a.Value()
	assert.True(t, ok)
	assert.Equal(t, "resolved", v)

	a.Clear()
	assert.True(t, a.IsUnset())
	assert.Empty(t, a.Get())
}

func TestResult_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Result
		want ResultKind
	}{
		{name: "back directive", in: Picked(DirectiveItem(DirectiveBack, "Enter a reference or commit id")), want: ResultBack},
		{name: "cancel directive", in: Picked(DirectiveItem(DirectiveCancel, "")), want: ResultCancel},
		{name: "value item", in: Picked(Item{Kind: ItemValue, Label: "main"}), want: ResultItems},
		{name: "directive among values", in: Picked(Item{Kind: ItemValue}, DirectiveItem(DirectiveBack, "")), want: ResultItems},
		{name: "text", in: Text("x"), want: ResultText},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.normalize().Kind)
		})
	}
}

func TestResult_IsBreak(t *testing.T) {
	assert.True(t, Back().IsBreak())
	assert.True(t, Cancel().IsBreak())
	assert.False(t, Text("").IsBreak())
	assert.False(t, Picked().IsBreak())

	_, ok := Picked().First()
	assert.False(t, ok)
}
