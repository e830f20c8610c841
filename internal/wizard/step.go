package wizard

import "context"

// StepKind discriminates the two shapes of step a host can present.
type StepKind int

const (
	// StepPick is a selection from a list of items.
	StepPick StepKind = iota
	// StepInput is free-text entry checked by a validator.
	StepInput
)

func (k StepKind) String() string {
	if k == StepInput {
		return "input"
	}
	return "pick"
}

// ItemKind tells the engine how a picked item is integrated.
type ItemKind int

const (
	// ItemValue carries a domain value handed to the flow's integrate callback.
	ItemValue ItemKind = iota
	// ItemDirective is a synthetic Back or Cancel entry.
	ItemDirective
	// ItemToggle answers the step and rewinds two decisions.
	ItemToggle
	// ItemCommand is a terminal action; picking it completes the run.
	ItemCommand
	// ItemDelegate hands control to another flow.
	ItemDelegate
)

// Directive is the meaning of an ItemDirective.
type Directive int

const (
	DirectiveBack Directive = iota
	DirectiveCancel
)

func (d Directive) String() string {
	if d == DirectiveCancel {
		return "Cancel"
	}
	return "Back"
}

// Command is the real-world effect behind an ItemCommand. It runs after the
// engine has terminated, or in place when triggered by a key.
type Command func(ctx context.Context) error

// Item is one entry of a pick step.
type Item struct {
	Kind        ItemKind
	Label       string
	Description string
	Detail      string
	Picked      bool
	AlwaysShow  bool

	Value     any
	Directive Directive
	Command   Command
	// Delegate builds the sub-flow with its own seeded state.
	Delegate func() Flow
}

// DirectiveItem returns a Back or Cancel entry. An empty label uses the
// directive name.
func DirectiveItem(d Directive, label string) Item {
	if label == "" {
		label = d.String()
	}
	return Item{Kind: ItemDirective, Label: label, Directive: d, AlwaysShow: true}
}

// DirectiveItems is the list shown in place of an empty candidate set.
func DirectiveItems() []Item {
	return []Item{DirectiveItem(DirectiveBack, ""), DirectiveItem(DirectiveCancel, "")}
}

// Picker is the live control surface a host hands to button, key and
// live-validation handlers while a step is on screen.
type Picker interface {
	Items() []Item
	Active() (Item, bool)
	Value() string
	SetItems(items []Item)
	SetPlaceholder(placeholder string)
	SetBusy(busy bool)
	SetEnabled(enabled bool)
	Notify(message string)
}

// Button is a side action shown next to a pick step. It never resolves the
// step.
type Button struct {
	Label string
	Key   string
	// On reports the current state of a toggle button. Nil for plain buttons.
	On      func() bool
	OnClick func(ctx context.Context, p Picker) error
}

// Key is a key binding handled while the step is on screen.
type Key struct {
	Key     string
	Help    string
	OnPress func(ctx context.Context, p Picker) error
}

// Step is an inert description of one decision. The engine stamps Ordinal,
// Flow, PickedVia and CanGoBack before handing it to a host.
type Step struct {
	Kind        StepKind
	Title       string
	Placeholder string
	Prompt      string
	Value       string

	Items         []Item
	Multiselect   bool
	AllowEmpty    bool
	MatchOnDetail bool
	Buttons       []Button
	Keys          []Key
	// ValidateValue runs as the filter text changes and may replace the
	// items through the picker. It reports whether it handled the value.
	ValidateValue func(ctx context.Context, p Picker, value string) bool

	// Validate checks input step values on every edit and on submit.
	Validate func(ctx context.Context, value string) (bool, string)

	Ordinal   int
	Flow      string
	PickedVia Provenance
	CanGoBack bool
}

// IsDirectiveOnly reports whether the step has no real candidates.
func (s *Step) IsDirectiveOnly() bool {
	if s.Kind != StepPick || len(s.Items) == 0 {
		return false
	}
	for _, it := range s.Items {
		if it.Kind != ItemDirective {
			return false
		}
	}
	return true
}

// Check runs the input validator. Steps without one accept any value.
func (s *Step) Check(ctx context.Context, value string) (bool, string) {
	if s.Validate == nil {
		return true, ""
	}
	return s.Validate(ctx, value)
}
