package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles are bound to one output stream, so color is dropped when that
// stream is not a terminal.
type styles struct {
	err     lipgloss.Style
	success lipgloss.Style
	key     lipgloss.Style
	dim     lipgloss.Style
	heading lipgloss.Style

	statusTodo     lipgloss.Style
	statusProgress lipgloss.Style
	statusDone     lipgloss.Style
	statusOther    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		err:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		key:     r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		dim:     r.NewStyle().Faint(true),
		heading: r.NewStyle().Bold(true),

		statusTodo:     r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		statusProgress: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		statusDone:     r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		statusOther:    r.NewStyle().Bold(true),
	}
}

// status picks the style for a Jira status category name.
func (s styles) status(category string) lipgloss.Style {
	switch category {
	case "To Do":
		return s.statusTodo
	case "In Progress":
		return s.statusProgress
	case "Done":
		return s.statusDone
	default:
		return s.statusOther
	}
}
