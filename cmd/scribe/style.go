package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
)

// painter styles terminal output; plain text when the writer is not a tty.
type painter struct {
	color bool
}

func newPainter(w io.Writer) painter {
	return painter{color: shouldColorize(w)}
}

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p painter) heading(text string) string { return p.paint(headingStyle, text) }
func (p painter) muted(text string) string   { return p.paint(mutedStyle, text) }
func (p painter) error(text string) string   { return p.paint(errorStyle, text) }
func (p painter) ok(text string) string      { return p.paint(okStyle, text) }

func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
