package wizard

import "sync"

// ListPicker is an in-memory Picker over a step's items. Hosts without a
// live widget use it to run buttons, keys and value validators.
type ListPicker struct {
	mu          sync.Mutex
	items       []Item
	active      int
	value       string
	placeholder string
	busy        bool
	enabled     bool
	notices     []string
	generation  int
}

// NewListPicker returns a picker showing step's items.
func NewListPicker(step *Step) *ListPicker {
	return &ListPicker{
		items:       append([]Item(nil), step.Items...),
		value:       step.Value,
		placeholder: step.Placeholder,
		enabled:     true,
	}
}

// Items implements Picker.
func (p *ListPicker) Items() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Item(nil), p.items...)
}

// Active implements Picker.
func (p *ListPicker) Active() (Item, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active < 0 || p.active >= len(p.items) {
		return Item{}, false
	}
	return p.items[p.active], true
}

// SetActive moves the cursor to the item at i.
func (p *ListPicker) SetActive(i int) {
	p.mu.Lock()
	p.active = i
	p.mu.Unlock()
}

// Value implements Picker.
func (p *ListPicker) Value() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// SetValue changes the filter text.
func (p *ListPicker) SetValue(v string) {
	p.mu.Lock()
	p.value = v
	p.mu.Unlock()
}

// SetItems implements Picker. The cursor returns to the first item.
func (p *ListPicker) SetItems(items []Item) {
	p.mu.Lock()
	p.items = append([]Item(nil), items...)
	p.active = 0
	p.generation++
	p.mu.Unlock()
}

// Generation counts the calls to SetItems.
func (p *ListPicker) Generation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// SetPlaceholder implements Picker.
func (p *ListPicker) SetPlaceholder(placeholder string) {
	p.mu.Lock()
	p.placeholder = placeholder
	p.mu.Unlock()
}

// Placeholder returns the current placeholder.
func (p *ListPicker) Placeholder() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placeholder
}

// SetBusy implements Picker.
func (p *ListPicker) SetBusy(busy bool) {
	p.mu.Lock()
	p.busy = busy
	p.mu.Unlock()
}

// Busy reports the busy flag.
func (p *ListPicker) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// SetEnabled implements Picker.
func (p *ListPicker) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

// Notify implements Picker. Notices are kept in order.
func (p *ListPicker) Notify(message string) {
	p.mu.Lock()
	p.notices = append(p.notices, message)
	p.mu.Unlock()
}

// Notices returns the messages passed to Notify.
func (p *ListPicker) Notices() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.notices...)
}
