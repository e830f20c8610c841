package tui

import (
	"fmt"
	"strings"

	"github.com/alexander-akhmetov/gitpick/internal/wizard"
)

func (m picker) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.step.Title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.busy {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")

	if m.step.Kind != wizard.StepInput {
		m.renderItems(&b)
	}

	if m.message != "" {
		style := noticeStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n")
	}
	if buttons := m.renderButtons(); buttons != "" {
		b.WriteString(buttons)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m picker) renderItems(b *strings.Builder) {
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.visible))
	for pos := start; pos < end; pos++ {
		it := m.items[m.visible[pos]]

		marker := "  "
		if pos == m.cursor {
			marker = activeStyle.Render("› ")
		}
		check := ""
		if m.step.Multiselect && it.Kind != wizard.ItemDirective {
			check = "[ ] "
			if m.selected[m.visible[pos]] {
				check = "[x] "
			}
		}

		label := labelStyle.Render(it.Label)
		switch {
		case it.Kind == wizard.ItemDirective:
			label = directiveStyle.Render(it.Label)
		case pos == m.cursor:
			label = activeStyle.Render(it.Label)
		}
		line := marker + check + label
		if it.Description != "" {
			line += "  " + descriptionStyle.Render(it.Description)
		}
		if it.Detail != "" {
			line += "  " + detailStyle.Render(it.Detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if hidden := len(m.visible) - end; hidden > 0 {
		b.WriteString(detailStyle.Render(fmt.Sprintf("  … %d more", hidden)))
		b.WriteString("\n")
	}
}

func (m picker) renderButtons() string {
	var parts []string
	for _, btn := range m.step.Buttons {
		style := buttonStyle
		if btn.On != nil && btn.On() {
			style = buttonOnStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%s] %s", btn.Key, btn.Label)))
	}
	return strings.Join(parts, " ")
}
