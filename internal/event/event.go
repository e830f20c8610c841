// Package event defines typed events emitted by the wizard engine as a run
// moves between steps. The CLI bridges them into the debug log and tests use
// them to assert on transitions.
package event

import "fmt"

// Kind identifies the type of event.
type Kind int

const (
	// KindPresented is a step handed to the picker host.
	KindPresented Kind = iota
	// KindAnswered is a result integrated into the flow state.
	KindAnswered
	// KindAutoSkipped is a decision answered without asking because it had a single candidate.
	KindAutoSkipped
	// KindRewound is a backward move of the step counter.
	KindRewound
	// KindToggled is a toggle item that rewound two decisions.
	KindToggled
	// KindDelegated is a hand-off to a sub-wizard.
	KindDelegated
	// KindReturned is a sub-wizard handing control back to its parent.
	KindReturned
	// KindCompleted is a run that finished with a terminal action.
	KindCompleted
	// KindBroken is a run that was cancelled or backed out of its first decision.
	KindBroken
)

var kindNames = map[Kind]string{
	KindPresented:   "presented",
	KindAnswered:    "answered",
	KindAutoSkipped: "auto_skipped",
	KindRewound:     "rewound",
	KindToggled:     "toggled",
	KindDelegated:   "delegated",
	KindReturned:    "returned",
	KindCompleted:   "completed",
	KindBroken:      "broken",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is a single engine transition.
type Event struct {
	Kind    Kind
	Flow    string // name of the flow on top of the frame stack
	Depth   int    // frame stack depth, 1 for the top-level flow
	Counter int    // step counter after the transition
	Ordinal int    // ordinal of the decision involved, 0 when not applicable
	Text    string // step title, delegated flow name or other payload
}

// Handler is a callback that receives typed events.
type Handler func(Event)

// Collect returns a Handler that appends every event to dst.
func Collect(dst *[]Event) Handler {
	return func(ev Event) { *dst = append(*dst, ev) }
}

// Kinds returns the kinds of the given events in order.
func Kinds(events []Event) []Kind {
	kinds := make([]Kind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}
