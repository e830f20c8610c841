package actions

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	diffAddStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	diffDelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	diffHunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	diffFileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Output prints action results. In TTY mode it colours diffs, renders
// markdown with glamour and highlights code with chroma; otherwise it
// prints plain text.
type Output struct {
	out      io.Writer
	isTTY    bool
	width    int
	theme    string
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

// NewOutput creates an Output. If width is <= 0, defaults to 80. An empty
// theme uses "dark".
func NewOutput(out io.Writer, isTTY bool, width int, theme string) *Output {
	if width <= 0 {
		width = 80
	}
	if theme == "" {
		theme = "dark"
	}
	o := &Output{out: out, isTTY: isTTY, width: width, theme: theme}
	if isTTY {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(theme),
			glamour.WithWordWrap(max(width-6, 40)),
		)
		if err == nil {
			o.renderer = r
		}
	}
	return o
}

// Println writes one plain line.
func (o *Output) Println(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.out, text)
}

// Header writes a title line.
func (o *Output) Header(text string) {
	o.Println(o.style(headerStyle, text))
}

// Markdown renders text as markdown.
func (o *Output) Markdown(text string) {
	if o.renderer != nil {
		if rendered, err := o.renderer.Render(text); err == nil {
			o.Println(strings.TrimRight(rendered, "\n"))
			return
		}
	}
	o.Println(strings.TrimRight(text, "\n"))
}

// Diff writes a unified diff, colouring each line by its prefix.
func (o *Output) Diff(diff string) {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		lines[i] = o.diffLine(line)
	}
	o.Println(strings.Join(lines, "\n"))
}

func (o *Output) diffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return o.style(diffFileStyle, line)
	case strings.HasPrefix(line, "@@"):
		return o.style(diffHunkStyle, line)
	case strings.HasPrefix(line, "+"):
		return o.style(diffAddStyle, line)
	case strings.HasPrefix(line, "-"):
		return o.style(diffDelStyle, line)
	}
	return o.style(dimStyle, line)
}

// Code writes source, syntax highlighted by file name in TTY mode.
func (o *Output) Code(source, fileName string) {
	if !o.isTTY {
		o.Println(strings.TrimRight(source, "\n"))
		return
	}
	o.Println(highlight(source, fileName))
}

func (o *Output) style(s lipgloss.Style, text string) string {
	if o.isTTY {
		return s.Render(text)
	}
	return text
}

// highlight tokenises source with the lexer matching fileName, falling back
// to content detection and then plain text.
func highlight(source, fileName string) string {
	lexer := lexers.Match(fileName)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return source
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
