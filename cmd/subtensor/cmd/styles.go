package cmd

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = "154"
	colorGray   = "245"
)

// styles used by the table and run output.
type styles struct {
	Header lipgloss.Style
	Name   lipgloss.Style
	Dim    lipgloss.Style
}

func newStyles(plain bool) styles {
	if plain {
		return styles{Header: lipgloss.NewStyle(), Name: lipgloss.NewStyle(), Dim: lipgloss.NewStyle()}
	}
	return styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Name:   lipgloss.NewStyle().Bold(true),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
}
