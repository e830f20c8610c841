package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// Host runs one bubbletea program per presented step.
type Host struct {
	in  io.Reader
	out io.Writer
}

// NewHost returns a host reading keys from in and drawing to out.
func NewHost(in io.Reader, out io.Writer) *Host {
	return &Host{in: in, out: out}
}

// Present implements wizard.Host. A program killed by ctx counts as a
// cancel.
func (h *Host) Present(ctx context.Context, step *wizard.Step) (wizard.Result, error) {
	p := tea.NewProgram(newPicker(ctx, step),
		tea.WithContext(ctx),
		tea.WithInput(h.in),
		tea.WithOutput(h.out),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return wizard.Cancel(), nil
		}
		return wizard.Result{}, fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(picker)
	if !ok || !m.done {
		return wizard.Cancel(), nil
	}
	return m.result, nil
}
