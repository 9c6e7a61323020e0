package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

var (
	countStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// Progress renders a single status line that updates in place while the
// pipeline works through declarations. On non-terminal writers it stays
// silent: batch logs never fill with carriage returns.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	total   int
	current int
	enabled bool
	width   int
}

// NewProgress creates a progress line for total steps. Output is enabled
// only when w is a terminal.
func NewProgress(w io.Writer, label string, total int) *Progress {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Progress{
		w:       w,
		label:   label,
		total:   total,
		enabled: enabled,
		width:   80,
	}
}

// Step advances the counter and redraws the line with the current item.
func (p *Progress) Step(item string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	if !p.enabled {
		return
	}
	count := countStyle.Render(fmt.Sprintf("[%d/%d]", p.current, p.total))
	line := fmt.Sprintf("%s %s %s", count, labelStyle.Render(p.label), item)
	p.redraw(line)
}

// Done finishes the line and moves to the next row.
func (p *Progress) Done(note string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	line := fmt.Sprintf("%s %s", doneStyle.Render("done:"), p.label)
	if note != "" {
		line += " (" + note + ")"
	}
	p.redraw(line)
	fmt.Fprintln(p.w)
}

// redraw truncates to the terminal width and overwrites the current row.
// Truncation is display-width aware so wide runes never wrap the line.
func (p *Progress) redraw(line string) {
	if runewidth.StringWidth(line) > p.width {
		line = runewidth.Truncate(line, p.width-1, "…")
	}
	fmt.Fprintf(p.w, "\r\033[K%s", line)
}
