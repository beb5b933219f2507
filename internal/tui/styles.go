package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used across the renderer, following
// the Theme/Styles split in
// github.com/haivivi/giztoy's pkg/cli/tui.go (one accent color driving a
// small set of named styles) rather than one-off inline styling per view.
type Styles struct {
	InfoBar       lipgloss.Style
	PaneTitle     lipgloss.Style
	PaneBorder    lipgloss.Style
	PaneBorderOn  lipgloss.Style
	Selected      lipgloss.Style
	Retained      lipgloss.Style
	ErrorOverlay  lipgloss.Style
	FooterHelp    lipgloss.Style
	StatusConnect lipgloss.Style
	StatusWarn    lipgloss.Style
}

var defaultStyles = Styles{
	InfoBar: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7af")).Padding(0, 1),
	PaneTitle: lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#ffffff")),
	PaneBorder: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")),
	PaneBorderOn: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#00d7af")),
	Selected: lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("#005f5f")).
		Foreground(lipgloss.Color("#ffffff")),
	Retained: lipgloss.NewStyle().Foreground(lipgloss.Color("#d7af00")),
	ErrorOverlay: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("#af0000")).
		Padding(0, 1),
	FooterHelp:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
	StatusConnect: lipgloss.NewStyle().Foreground(lipgloss.Color("#00d700")),
	StatusWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#d70000")),
}
