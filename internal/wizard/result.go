package wizard

// ResultKind discriminates what a host returned for a step.
type ResultKind int

const (
	// ResultItems carries the picked items.
	ResultItems ResultKind = iota
	// ResultText carries submitted free text.
	ResultText
	// ResultBack asks to return to the previous decision.
	ResultBack
	// ResultCancel abandons the whole run.
	ResultCancel
)

func (k ResultKind) String() string {
	switch k {
	case ResultItems:
		return "items"
	case ResultText:
		return "text"
	case ResultBack:
		return "back"
	case ResultCancel:
		return "cancel"
	}
	return "unknown"
}

// Result is the outcome of presenting a step.
type Result struct {
	Kind  ResultKind
	Items []Item
	Text  string
}

// Picked returns a result selecting items.
func Picked(items ...Item) Result { return Result{Kind: ResultItems, Items: items} }

// Text returns a result submitting s.
func Text(s string) Result { return Result{Kind: ResultText, Text: s} }

// Back returns the go-back result.
func Back() Result { return Result{Kind: ResultBack} }

// Cancel returns the cancel result.
func Cancel() Result { return Result{Kind: ResultCancel} }

// IsBreak reports whether the result abandons the step, either backward or
// entirely.
func (r Result) IsBreak() bool {
	return r.Kind == ResultBack || r.Kind == ResultCancel
}

// First returns the first picked item.
func (r Result) First() (Item, bool) {
	if len(r.Items) == 0 {
		return Item{}, false
	}
	return r.Items[0], true
}

// normalize turns a picked directive into the matching break result.
func (r Result) normalize() Result {
	if r.Kind != ResultItems || len(r.Items) != 1 || r.Items[0].Kind != ItemDirective {
		return r
	}
	if r.Items[0].Directive == DirectiveCancel {
		return Cancel()
	}
	return Back()
}
