package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

// LineHost presents steps as numbered lists on plain streams. It serves
// runs whose stdin or stdout is not a terminal.
type LineHost struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineHost creates a LineHost reading answers from in.
func NewLineHost(in io.Reader, out io.Writer) *LineHost {
	return &LineHost{in: bufio.NewReader(in), out: out}
}

// Present prints the step and reads lines until one of them answers it.
// Numbers pick items, "b" goes back and "q" cancels. Any other text filters
// the list or, for input steps, becomes the value. An empty line keeps an
// input step's prefilled value.
func (h *LineHost) Present(ctx context.Context, step *wizard.Step) (wizard.Result, error) {
	lp := wizard.NewListPicker(step)
	base := lp.Items()
	filter := step.Value
	overridden := false
	notices := 0
	if filter != "" && step.Kind == wizard.StepPick && step.ValidateValue != nil {
		lp.SetValue(filter)
		overridden = step.ValidateValue(ctx, lp, filter)
	}

	for {
		if ctx.Err() != nil {
			return wizard.Cancel(), nil
		}
		for _, n := range lp.Notices()[notices:] {
			_, _ = fmt.Fprintln(h.out, n)
		}
		notices = len(lp.Notices())

		shown := h.print(step, lp.Items(), filter, overridden)

		line, err := h.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return wizard.Result{}, fmt.Errorf("read input: %w", err)
		}
		if err != nil && line == "" {
			return wizard.Cancel(), nil
		}
		line = strings.TrimSpace(line)

		switch line {
		case "q":
			return wizard.Cancel(), nil
		case "b":
			if !step.CanGoBack {
				return wizard.Cancel(), nil
			}
			return wizard.Back(), nil
		}

		if step.Kind == wizard.StepInput {
			if line == "" {
				line = step.Value
			}
			if ok, msg := step.Check(ctx, line); !ok {
				_, _ = fmt.Fprintln(h.out, msg)
				continue
			}
			return wizard.Text(line), nil
		}

		if line == "" {
			if len(shown) == 0 && step.AllowEmpty {
				return wizard.Picked(), nil
			}
			filter = ""
			continue
		}

		if picked, ok, err := parseSelection(line, shown, step.Multiselect); ok {
			return wizard.Picked(picked...), nil
		} else if err != nil {
			_, _ = fmt.Fprintln(h.out, err)
			continue
		}

		filter = line
		if step.ValidateValue == nil {
			continue
		}
		lp.SetValue(line)
		if step.ValidateValue(ctx, lp, line) {
			overridden = true
		} else if overridden {
			overridden = false
			lp.SetItems(base)
		}
	}
}

// print writes the title and the items matching filter, numbered from one.
// It returns the numbered items in order.
func (h *LineHost) print(step *wizard.Step, items []wizard.Item, filter string, overridden bool) []wizard.Item {
	_, _ = fmt.Fprintln(h.out)
	if step.Title != "" {
		_, _ = fmt.Fprintln(h.out, step.Title)
	}
	if step.Kind == wizard.StepInput {
		prompt := step.Placeholder
		if prompt == "" {
			prompt = "Enter a value"
		}
		if step.Value != "" {
			prompt += " [" + step.Value + "]"
		}
		_, _ = fmt.Fprintf(h.out, "%s (b to go back, q to quit): ", prompt)
		return nil
	}

	var shown []wizard.Item
	f := strings.ToLower(filter)
	for _, it := range items {
		if !overridden && f != "" && !it.AlwaysShow && !matchItem(it, f, step.MatchOnDetail) {
			continue
		}
		shown = append(shown, it)
		line := fmt.Sprintf("  %d) %s", len(shown), it.Label)
		if it.Description != "" {
			line += "  " + it.Description
		}
		if it.Detail != "" {
			line += "  (" + it.Detail + ")"
		}
		if it.Picked {
			line += " *"
		}
		_, _ = fmt.Fprintln(h.out, line)
	}

	prompt := "Enter number"
	if step.Multiselect {
		prompt = "Enter numbers separated by commas"
	}
	if step.Placeholder != "" {
		prompt = step.Placeholder + ". " + prompt
	}
	_, _ = fmt.Fprintf(h.out, "%s (1-%d), text to filter, b to go back, q to quit: ", prompt, len(shown))
	return shown
}

func matchItem(it wizard.Item, filter string, onDetail bool) bool {
	if strings.Contains(strings.ToLower(it.Label), filter) ||
		strings.Contains(strings.ToLower(it.Description), filter) {
		return true
	}
	return onDetail && strings.Contains(strings.ToLower(it.Detail), filter)
}

// parseSelection reads item numbers from line. ok is false when line is not
// a selection at all; err is set when it is one but cannot be honoured.
func parseSelection(line string, shown []wizard.Item, multi bool) (picked []wizard.Item, ok bool, err error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		n, convErr := strconv.Atoi(f)
		if convErr != nil {
			return nil, false, nil
		}
		nums = append(nums, n)
	}
	if len(nums) > 1 && !multi {
		return nil, false, errors.New("pick a single number")
	}
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if n < 1 || n > len(shown) {
			return nil, false, fmt.Errorf("selection out of range: %d (must be 1-%d)", n, len(shown))
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		picked = append(picked, shown[n-1])
	}
	if multi && len(picked) > 1 {
		// a directive only makes sense on its own
		for _, it := range picked {
			if it.Kind == wizard.ItemDirective {
				return nil, false, fmt.Errorf("%s cannot be combined with other picks", it.Label)
			}
		}
	}
	return picked, true, nil
}
