package components

import "github.com/charmbracelet/lipgloss"

// Styles is the palette views and components render with. The application
// theme builds one per color scheme.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Accent  lipgloss.Style
	Muted   lipgloss.Style
	Help    lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowAlt lipgloss.Style
	Selected    lipgloss.Style
	Border      lipgloss.Style
}

// DefaultStyles returns the classic kennel palette.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#E8D8B0")
	secondary := lipgloss.Color("#B08A5A")
	accent := lipgloss.Color("#F2B35E")
	muted := lipgloss.Color("#6E5A40")

	return Styles{
		Title:       lipgloss.NewStyle().Foreground(accent).Bold(true),
		Section:     lipgloss.NewStyle().Foreground(primary).Bold(true),
		Label:       lipgloss.NewStyle().Foreground(secondary),
		Value:       lipgloss.NewStyle().Foreground(primary),
		Accent:      lipgloss.NewStyle().Foreground(accent),
		Muted:       lipgloss.NewStyle().Foreground(muted),
		Help:        lipgloss.NewStyle().Foreground(secondary),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8FD694")),
		TableHeader: lipgloss.NewStyle().Foreground(accent).Bold(true),
		TableRow:    lipgloss.NewStyle().Foreground(primary),
		TableRowAlt: lipgloss.NewStyle().Foreground(secondary),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1C140C")).Background(primary).Bold(true),
		Border:      lipgloss.NewStyle().Foreground(secondary),
	}
}
