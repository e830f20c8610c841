// Package wizard implements the step engine behind every gitpick command.
//
// A Flow describes its decisions as a re-entrant function: each call to
// Flow.Next starts from the first decision and returns the first one that
// still needs an answer. The Engine owns the step counter algebra (auto-skip,
// rewind on Back, toggle rewinds, delegation to sub-flows) and suspends on
// every step until a host resumes it with a Result.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexander-akhmetov/gitpick/internal/event"
)

var (
	// ErrNotSuspended is returned by Next when no step is awaiting a result.
	ErrNotSuspended = errors.New("wizard: no step is awaiting a result")
	// ErrTerminated is returned when the run has already finished.
	ErrTerminated = errors.New("wizard: run has terminated")
	// ErrNoProgress is returned when flows keep handing control around
	// without presenting a step.
	ErrNoProgress = errors.New("wizard: flow made no progress")
)

// maxTransitions bounds the delegate/return hops between two steps.
const maxTransitions = 64

// Status is the engine's position in its state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSuspended
	StatusCompleted
	StatusBroken
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusSuspended:
		return "suspended"
	case StatusCompleted:
		return "completed"
	case StatusBroken:
		return "broken"
	}
	return "unknown"
}

// Terminated reports whether s is a final status.
func (s Status) Terminated() bool {
	return s == StatusCompleted || s == StatusBroken
}

// FrameStatus is the state of one flow on the frame stack.
type FrameStatus int

const (
	FrameRunning FrameStatus = iota
	FrameDelegating
)

// FrameInfo is a read-only snapshot of one frame.
type FrameInfo struct {
	Flow         string
	Counter      int
	StartingStep int
	Status       FrameStatus
}

// Termination describes how a run ended. Command is set when the run
// completed with a terminal action; the caller runs it.
type Termination struct {
	Status  Status
	Label   string
	Command Command
}

type frame struct {
	flow         Flow
	startingStep int
	skipped      map[int]bool
	status       FrameStatus
	ready        bool
}

func newFrame(f Flow, startingStep int) *frame {
	return &frame{flow: f, startingStep: startingStep, skipped: make(map[int]bool)}
}

// forget drops auto-skip marks above counter.
func (f *frame) forget(counter int) {
	for ordinal := range f.skipped {
		if ordinal > counter {
			delete(f.skipped, ordinal)
		}
	}
}

// backTarget is the counter a Back from ordinal lands on: one decision
// before it, plus every auto-skipped decision directly in front of that.
func (f *frame) backTarget(ordinal int) int {
	c := min(f.flow.State().Counter, ordinal-1) - 1
	for c >= 0 && f.skipped[c+1] {
		c--
	}
	return c
}

type pending struct {
	step      *Step
	ordinal   int
	integrate Integrator
}

// Engine drives one wizard run. It is not safe for concurrent use; hosts
// call Start once and then Next once per presented step.
type Engine struct {
	id        string
	pickedVia Provenance
	frames    []*frame
	status    Status
	pending   *pending
	term      Termination
	handler   event.Handler
	log       zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPickedVia sets the run's provenance.
func WithPickedVia(p Provenance) Option {
	return func(e *Engine) { e.pickedVia = p }
}

// WithEventHandler registers a transition callback.
func WithEventHandler(h event.Handler) Option {
	return func(e *Engine) { e.handler = h }
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an engine for flow. The flow's State must already carry the
// counter derived from its seeded answers.
func New(flow Flow, opts ...Option) *Engine {
	e := &Engine{
		id:  uuid.NewString(),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("run", e.id).Logger()

	start := 0
	if e.pickedVia == PickedViaCommand {
		start = flow.State().Counter
		if ss, ok := flow.(StartingStepper); ok {
			start = ss.StartingStep(start)
		}
	}
	e.frames = []*frame{newFrame(flow, start)}
	return e
}

// ID returns the run identifier used in logs.
func (e *Engine) ID() string { return e.id }

// Status returns the current engine status.
func (e *Engine) Status() Status { return e.status }

// Termination returns how the run ended. It is only meaningful once Status
// is terminal.
func (e *Engine) Termination() Termination { return e.term }

// Current returns the step awaiting a result, if any.
func (e *Engine) Current() *Step {
	if e.pending == nil {
		return nil
	}
	return e.pending.step
}

// Frames returns a snapshot of the frame stack, bottom first.
func (e *Engine) Frames() []FrameInfo {
	infos := make([]FrameInfo, len(e.frames))
	for i, f := range e.frames {
		infos[i] = FrameInfo{
			Flow:         f.flow.Name(),
			Counter:      f.flow.State().Counter,
			StartingStep: f.startingStep,
			Status:       f.status,
		}
	}
	return infos
}

// Start runs the flow up to its first step. A nil step means the run
// terminated without asking anything.
func (e *Engine) Start(ctx context.Context) (*Step, error) {
	switch {
	case e.status.Terminated():
		return nil, ErrTerminated
	case e.status == StatusSuspended:
		return e.pending.step, nil
	}
	e.status = StatusRunning
	return e.advance(ctx)
}

// Next integrates the result for the current step and runs the flow to its
// next step. A nil step means the run terminated.
func (e *Engine) Next(ctx context.Context, r Result) (*Step, error) {
	if e.status.Terminated() {
		return nil, ErrTerminated
	}
	if e.pending == nil {
		return nil, ErrNotSuspended
	}
	p := e.pending
	r = r.normalize()

	switch r.Kind {
	case ResultCancel:
		e.pending = nil
		e.breakAll()
		return nil, nil
	case ResultBack:
		e.pending = nil
		e.status = StatusRunning
		if !e.back(p.ordinal) {
			return nil, nil
		}
		return e.advance(ctx)
	case ResultText:
		if ok, msg := p.step.Check(ctx, r.Text); !ok {
			e.log.Debug().Str("value", r.Text).Str("reason", msg).Msg("input rejected")
			return p.step, nil
		}
	case ResultItems:
		if len(r.Items) == 0 && !p.step.AllowEmpty {
			return p.step, nil
		}
	}

	e.pending = nil
	e.status = StatusRunning
	if !e.apply(p.ordinal, e.dispatch(ctx, p, r)) {
		return nil, nil
	}
	return e.advance(ctx)
}

// Reevaluate discards the current step and walks the flow again without
// new input. With unchanged state it presents the same decision.
func (e *Engine) Reevaluate(ctx context.Context) (*Step, error) {
	if e.status.Terminated() {
		return nil, ErrTerminated
	}
	if e.pending == nil {
		return nil, ErrNotSuspended
	}
	e.pending = nil
	e.status = StatusRunning
	return e.advance(ctx)
}

func (e *Engine) top() *frame { return e.frames[len(e.frames)-1] }

func (e *Engine) advance(ctx context.Context) (*Step, error) {
	for range maxTransitions {
		f := e.top()
		if !f.ready {
			f.flow.Setup(ctx)
			f.ready = true
		}

		act := f.flow.Next(ctx, &Pass{engine: e, frame: f})
		switch act.Kind {
		case ActionAsk:
			step := act.Step
			step.Ordinal = act.Ordinal
			step.Flow = f.flow.Name()
			step.PickedVia = e.pickedVia
			step.CanGoBack = len(e.frames) > 1 || f.backTarget(act.Ordinal) >= f.startingStep
			e.pending = &pending{step: step, ordinal: act.Ordinal, integrate: act.Integrate}
			e.status = StatusSuspended
			e.emitOrdinal(event.KindPresented, act.Ordinal, step.Title)
			return step, nil
		case ActionDelegate:
			e.delegate(act.Flow)
		case ActionExecute:
			e.complete(act.Label, act.Command)
			return nil, nil
		case ActionBreak:
			if !e.leave(true) {
				return nil, nil
			}
		default:
			e.breakAll()
			return nil, fmt.Errorf("flow %s: unknown action kind %d", f.flow.Name(), act.Kind)
		}
	}
	e.breakAll()
	return nil, ErrNoProgress
}

func (e *Engine) dispatch(ctx context.Context, p *pending, r Result) Outcome {
	if r.Kind == ResultItems && len(r.Items) == 1 {
		it := r.Items[0]
		switch it.Kind {
		case ItemToggle:
			return Toggle()
		case ItemCommand:
			return Execute(it.Label, it.Command)
		case ItemDelegate:
			return DelegateTo(it.Delegate())
		}
	}
	if p.integrate == nil {
		return Advance()
	}
	return p.integrate(ctx, r)
}

// apply moves the counter for an outcome. It returns false once the run has
// terminated.
func (e *Engine) apply(ordinal int, out Outcome) bool {
	f := e.top()
	switch out.Kind {
	case OutcomeAdvance:
		e.answer(f, ordinal)
	case OutcomeStay:
	case OutcomeToggle:
		e.answer(f, ordinal)
		s := f.flow.State()
		s.Counter = max(s.Counter-2, 0)
		f.forget(s.Counter)
		e.emitOrdinal(event.KindToggled, ordinal, "")
	case OutcomeRewind:
		return e.back(ordinal)
	case OutcomeDelegate:
		e.answer(f, ordinal)
		e.delegate(out.Flow)
	case OutcomeExecute:
		e.answer(f, ordinal)
		e.complete(out.Label, out.Command)
		return false
	}
	return true
}

func (e *Engine) answer(f *frame, ordinal int) {
	s := f.flow.State()
	if s.Counter < ordinal {
		s.Counter = ordinal
	}
	delete(f.skipped, ordinal)
	e.emitOrdinal(event.KindAnswered, ordinal, "")
}

// back rewinds the top frame for a Back at ordinal. It returns false once
// the run has terminated.
func (e *Engine) back(ordinal int) bool {
	f := e.top()
	c := f.backTarget(ordinal)
	if c < f.startingStep {
		return e.leave(c < 0)
	}
	f.flow.State().Counter = c
	f.forget(c)
	e.emitOrdinal(event.KindRewound, ordinal, "")
	return true
}

// leave pops the top frame after it was backed out of. The parent resumes
// one decision back, passing over decisions it answered automatically. A frame that underflowed takes its parent down with it
// unless the parent is a Resumer; with no parent the run is broken.
func (e *Engine) leave(underflow bool) bool {
	e.frames = e.frames[:len(e.frames)-1]
	if len(e.frames) == 0 {
		e.status = StatusBroken
		e.term = Termination{Status: StatusBroken}
		e.emit(event.Event{Kind: event.KindBroken})
		return false
	}

	parent := e.top()
	if underflow {
		if r, ok := parent.flow.(Resumer); !ok || !r.ResumeAfterBreak() {
			e.breakAll()
			return false
		}
	}
	parent.status = FrameRunning
	s := parent.flow.State()
	c := s.Counter - 1
	for c >= 0 && parent.skipped[c+1] {
		c--
	}
	if c < parent.startingStep {
		return e.leave(c < 0)
	}
	s.Counter = c
	parent.forget(c)
	e.emitOrdinal(event.KindReturned, 0, "")
	return true
}

func (e *Engine) delegate(f Flow) {
	e.top().status = FrameDelegating
	e.frames = append(e.frames, newFrame(f, f.State().Counter))
	e.emitOrdinal(event.KindDelegated, 0, f.Name())
}

func (e *Engine) complete(label string, cmd Command) {
	e.status = StatusCompleted
	e.term = Termination{Status: StatusCompleted, Label: label, Command: cmd}
	e.emitOrdinal(event.KindCompleted, 0, label)
	e.frames = e.frames[:1]
}

func (e *Engine) breakAll() {
	e.status = StatusBroken
	e.term = Termination{Status: StatusBroken}
	e.emitOrdinal(event.KindBroken, 0, "")
	e.frames = e.frames[:1]
}

func (e *Engine) emitOrdinal(kind event.Kind, ordinal int, text string) {
	e.emit(event.Event{Kind: kind, Ordinal: ordinal, Text: text})
}

func (e *Engine) emit(ev event.Event) {
	if len(e.frames) > 0 {
		f := e.top()
		ev.Flow = f.flow.Name()
		ev.Counter = f.flow.State().Counter
	}
	ev.Depth = len(e.frames)

	e.log.Debug().
		Str("flow", ev.Flow).
		Int("depth", ev.Depth).
		Int("counter", ev.Counter).
		Int("ordinal", ev.Ordinal).
		Str("text", ev.Text).
		Msg(ev.Kind.String())

	if e.handler != nil {
		e.handler(ev)
	}
}
