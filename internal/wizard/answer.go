package wizard

type answerKind int

const (
	answerUnset answerKind = iota
	answerPlaceholder
	answerResolved
)

// Answer is one stored decision. It is unset, a placeholder typed by the
// caller (a path, a ref name) that a step still has to resolve, or a resolved
// value.
type Answer[T any] struct {
	kind        answerKind
	placeholder string
	value       T
}

// Placeholder returns an answer holding an unresolved identifier.
func Placeholder[T any](s string) Answer[T] {
	return Answer[T]{kind: answerPlaceholder, placeholder: s}
}

// Resolved returns an answer holding v.
func Resolved[T any](v T) Answer[T] {
	return Answer[T]{kind: answerResolved, value: v}
}

// IsUnset reports whether nothing was stored.
func (a Answer[T]) IsUnset() bool { return a.kind == answerUnset }

// IsPlaceholder reports whether the answer still needs resolving.
func (a Answer[T]) IsPlaceholder() bool { return a.kind == answerPlaceholder }

// IsResolved reports whether the answer holds a concrete value.
func (a Answer[T]) IsResolved() bool { return a.kind == answerResolved }

// IsSet reports whether the answer is a placeholder or a resolved value.
func (a Answer[T]) IsSet() bool { return a.kind != answerUnset }

// Placeholder returns the unresolved identifier, or "" when there is none.
func (a Answer[T]) Placeholder() string { return a.placeholder }

// Value returns the resolved value and whether there was one.
func (a Answer[T]) Value() (T, bool) {
	return a.value, a.kind == answerResolved
}

// Get returns the resolved value or the zero value of T.
func (a Answer[T]) Get() T {
	if a.kind != answerResolved {
		var zero T
		return zero
	}
	return a.value
}

// Set stores a resolved value.
func (a *Answer[T]) Set(v T) {
	a.kind = answerResolved
	a.placeholder = ""
	a.value = v
}

// Clear forgets the answer.
func (a *Answer[T]) Clear() {
	var zero T
	a.kind = answerUnset
	a.placeholder = ""
	a.value = zero
}

// State is the part of every flow's answer accumulator the engine owns.
// Concrete flows embed it next to their own Answer fields.
type State struct {
	// Counter is how many decisions are considered answered in the current pass.
	Counter int
	// Confirm requests a final confirmation step on flows that support one.
	Confirm bool
}
