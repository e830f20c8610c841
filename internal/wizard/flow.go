package wizard

import (
	"context"

	"github.com/alexander-akhmetov/gitpick/internal/event"
)

// Provenance records how a run was started. It is copied to every delegated
// flow and shown to hosts through Step.PickedVia.
type Provenance int

const (
	// PickedViaCommand is a direct invocation: a CLI subcommand, a link, or a
	// programmatic caller with a seeded state.
	PickedViaCommand Provenance = iota
	// PickedViaMenu is a flow chosen from the command menu.
	PickedViaMenu
)

func (p Provenance) String() string {
	if p == PickedViaMenu {
		return "menu"
	}
	return "command"
}

// Flow is one wizard. Next walks the flow's decision list from the top every
// time it is called and stops at the first decision that needs the user.
type Flow interface {
	// Name is the command name, used for titles, logs and the registry.
	Name() string
	// State returns the flow's engine-owned counters.
	State() *State
	// Setup builds the per-run context. It runs once, before the first Next.
	Setup(ctx context.Context)
	// Next returns what the engine should do now.
	Next(ctx context.Context, p *Pass) Action
}

// StartingStepper lets a flow change how far back a directly invoked,
// pre-seeded run may navigate. initial is the counter derived from the seed.
type StartingStepper interface {
	StartingStep(initial int) int
}

// Resumer is implemented by flows that carry on after a delegated flow was
// backed out of entirely, instead of ending with it. The command menu is one.
type Resumer interface {
	ResumeAfterBreak() bool
}

// Integrator folds a picked or submitted value into the flow state.
type Integrator func(ctx context.Context, r Result) Outcome

// ActionKind identifies what a flow asks the engine to do.
type ActionKind int

const (
	// ActionAsk presents a step and suspends.
	ActionAsk ActionKind = iota
	// ActionDelegate runs another flow on top of this one.
	ActionDelegate
	// ActionExecute completes the run with a terminal command.
	ActionExecute
	// ActionBreak ends this flow as if the user backed out of it.
	ActionBreak
)

// Action is the instruction a flow returns from Next.
type Action struct {
	Kind ActionKind

	// ActionAsk
	Ordinal   int
	Step      *Step
	Integrate Integrator

	// ActionDelegate
	Flow Flow

	// ActionExecute
	Label   string
	Command Command
}

// OutcomeKind identifies how an integrated result moves the counter.
type OutcomeKind int

const (
	// OutcomeAdvance marks the decision answered.
	OutcomeAdvance OutcomeKind = iota
	// OutcomeStay leaves the counter alone and re-evaluates.
	OutcomeStay
	// OutcomeToggle marks the decision answered, then rewinds two.
	OutcomeToggle
	// OutcomeDelegate marks the decision answered and runs Flow.
	OutcomeDelegate
	// OutcomeExecute marks the decision answered and completes the run.
	OutcomeExecute
	// OutcomeRewind behaves like a Back result.
	OutcomeRewind
)

// Outcome is returned by an Integrator.
type Outcome struct {
	Kind    OutcomeKind
	Flow    Flow
	Label   string
	Command Command
}

// Advance marks the decision answered.
func Advance() Outcome { return Outcome{Kind: OutcomeAdvance} }

// Stay re-evaluates without moving the counter.
func Stay() Outcome { return Outcome{Kind: OutcomeStay} }

// Toggle rewinds two decisions after answering.
func Toggle() Outcome { return Outcome{Kind: OutcomeToggle} }

// Rewind goes back one decision.
func Rewind() Outcome { return Outcome{Kind: OutcomeRewind} }

// DelegateTo runs f after answering.
func DelegateTo(f Flow) Outcome { return Outcome{Kind: OutcomeDelegate, Flow: f} }

// Execute completes the run with cmd after answering.
func Execute(label string, cmd Command) Outcome {
	return Outcome{Kind: OutcomeExecute, Label: label, Command: cmd}
}

// Pass is handed to Flow.Next. It exposes the counter of the flow's frame
// and builds actions.
type Pass struct {
	engine *Engine
	frame  *frame
}

// Counter returns the flow's current step counter.
func (p *Pass) Counter() int { return p.frame.flow.State().Counter }

// Pending reports whether the decision at ordinal has not been reached.
func (p *Pass) Pending(ordinal int) bool { return p.Counter() < ordinal }

// PickedVia returns the run's provenance.
func (p *Pass) PickedVia() Provenance { return p.engine.pickedVia }

// Skip records that the decision at ordinal was answered automatically.
// It only counts when the counter has not reached ordinal yet.
func (p *Pass) Skip(ordinal int) {
	s := p.frame.flow.State()
	if s.Counter >= ordinal {
		return
	}
	s.Counter = ordinal
	p.frame.skipped[ordinal] = true
	p.engine.emitOrdinal(event.KindAutoSkipped, ordinal, "")
}

// Ask presents step as the decision at ordinal.
func (p *Pass) Ask(ordinal int, step *Step, integrate Integrator) Action {
	return Action{Kind: ActionAsk, Ordinal: ordinal, Step: step, Integrate: integrate}
}

// Delegate runs f without answering a decision first.
func (p *Pass) Delegate(f Flow) Action {
	return Action{Kind: ActionDelegate, Flow: f}
}

// Execute completes the run with cmd.
func (p *Pass) Execute(label string, cmd Command) Action {
	return Action{Kind: ActionExecute, Label: label, Command: cmd}
}

// Break ends the flow as if the user backed out of its first decision. The
// delegating flow ends too unless it is a Resumer.
func (p *Pass) Break() Action {
	return Action{Kind: ActionBreak}
}
