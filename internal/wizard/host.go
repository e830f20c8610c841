package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Host presents steps to a user and reports what they did.
type Host interface {
	Present(ctx context.Context, step *Step) (Result, error)
}

// Run drives e with host until the run terminates. Host errors cancel the
// run and are returned wrapped.
func Run(ctx context.Context, e *Engine, host Host) (Termination, error) {
	step, err := e.Start(ctx)
	for step != nil && err == nil {
		var r Result
		if ctx.Err() != nil {
			r = Cancel()
		} else {
			r, err = host.Present(ctx, step)
			if err != nil {
				_, _ = e.Next(ctx, Cancel())
				return e.Termination(), fmt.Errorf("present %q: %w", step.Title, err)
			}
		}
		step, err = e.Next(ctx, r)
	}
	if err != nil {
		return e.Termination(), err
	}
	return e.Termination(), nil
}

// ErrScriptExhausted is returned by ScriptedHost when a step arrives after
// the last scripted answer.
var ErrScriptExhausted = errors.New("wizard: scripted host has no answer left")

// Reply produces a result for a step.
type Reply func(step *Step) (Result, error)

// ScriptedHost answers steps from a fixed script. It records every step it
// was shown.
type ScriptedHost struct {
	Script    []Reply
	Presented []*Step
}

// NewScriptedHost returns a host that plays answers in order.
func NewScriptedHost(answers ...Reply) *ScriptedHost {
	return &ScriptedHost{Script: answers}
}

// Present implements Host.
func (h *ScriptedHost) Present(_ context.Context, step *Step) (Result, error) {
	h.Presented = append(h.Presented, step)
	if len(h.Script) == 0 {
		return Result{}, fmt.Errorf("step %q: %w", step.Title, ErrScriptExhausted)
	}
	next := h.Script[0]
	h.Script = h.Script[1:]
	return next(step)
}

// Titles returns the titles of the presented steps in order.
func (h *ScriptedHost) Titles() []string {
	titles := make([]string, len(h.Presented))
	for i, s := range h.Presented {
		titles[i] = s.Title
	}
	return titles
}

// PickLabel picks the first item whose label contains label.
func PickLabel(label string) Reply {
	return PickWhere(func(it Item) bool { return strings.Contains(it.Label, label) }, label)
}

// PickValue picks the first item whose value satisfies match.
func PickValue(match func(v any) bool) Reply {
	return PickWhere(func(it Item) bool { return it.Kind == ItemValue && match(it.Value) }, "value")
}

// PickWhere picks the first item satisfying match.
func PickWhere(match func(Item) bool, desc string) Reply {
	return func(step *Step) (Result, error) {
		for _, it := range step.Items {
			if match(it) {
				return Picked(it), nil
			}
		}
		return Result{}, fmt.Errorf("step %q: no item matching %s", step.Title, desc)
	}
}

// PickIndexes picks the items at the given positions.
func PickIndexes(idx ...int) Reply {
	return func(step *Step) (Result, error) {
		items := make([]Item, 0, len(idx))
		for _, i := range idx {
			if i < 0 || i >= len(step.Items) {
				return Result{}, fmt.Errorf("step %q: index %d out of range", step.Title, i)
			}
			items = append(items, step.Items[i])
		}
		return Picked(items...), nil
	}
}

// Submit enters text.
func Submit(text string) Reply {
	return func(*Step) (Result, error) { return Text(text), nil }
}

// GoBack answers with Back.
func GoBack() Reply {
	return func(*Step) (Result, error) { return Back(), nil }
}

// Quit answers with Cancel.
func Quit() Reply {
	return func(*Step) (Result, error) { return Cancel(), nil }
}
