package inventory

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	campaign   lipgloss.Style
	game       lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	dropName   lipgloss.Style
	dropMeta   lipgloss.Style
	claimable  lipgloss.Style
	claimed    lipgloss.Style
	upcoming   lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		campaign:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("141")),
		game:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		dropName:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		dropMeta:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		claimable:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		claimed:    lipgloss.NewStyle().Faint(true),
		upcoming:   lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
