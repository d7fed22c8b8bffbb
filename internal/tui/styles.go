// Package tui provides the terminal console for the kennel registry.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kennelworks/pedigree/internal/config"
	"github.com/kennelworks/pedigree/internal/tui/components"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	// Colors (raw values for reference)
	PrimaryColor    lipgloss.Color
	SecondaryColor  lipgloss.Color
	AccentColor     lipgloss.Color
	BackgroundColor lipgloss.Color
	ErrorColor      lipgloss.Color
	WarningColor    lipgloss.Color
	SuccessColor    lipgloss.Color
	MutedColor      lipgloss.Color

	// Color styles (for direct use)
	Base    lipgloss.Style
	Primary lipgloss.Style
	Accent  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Muted   lipgloss.Style

	// Component styles
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Box       lipgloss.Style
	Selected  lipgloss.Style
	Alert     lipgloss.Style
	AlertWarn lipgloss.Style
	AlertCrit lipgloss.Style

	// Status bar
	StatusKey     lipgloss.Style
	StatusDivider lipgloss.Style
}

// NewTheme creates a new theme based on the color scheme configuration.
func NewTheme(scheme config.ColorScheme) *Theme {
	switch scheme {
	case config.ColorSchemeHeather:
		return newHeatherTheme()
	case config.ColorSchemeMono:
		return newMonoTheme()
	default:
		return newClassicTheme()
	}
}

// newClassicTheme is the default parchment-and-tan palette.
func newClassicTheme() *Theme {
	return buildTheme(palette{
		primary:    "#E8D8B0",
		secondary:  "#B08A5A",
		accent:     "#F2B35E",
		background: "#1C140C",
		muted:      "#6E5A40",
		errorColor: "#FF5F5F",
		warning:    "#FFC857",
		success:    "#8FD694",
	})
}

func newHeatherTheme() *Theme {
	return buildTheme(palette{
		primary:    "#E2D1F9",
		secondary:  "#9F86C0",
		accent:     "#C9A7EB",
		background: "#1A1423",
		muted:      "#5E548E",
		errorColor: "#FF6B6B",
		warning:    "#F7B267",
		success:    "#A1E8AF",
	})
}

func newMonoTheme() *Theme {
	return buildTheme(palette{
		primary:    "#FFFFFF",
		secondary:  "#AAAAAA",
		accent:     "#FFFFFF",
		background: "#000000",
		muted:      "#666666",
		errorColor: "#FFFFFF",
		warning:    "#DDDDDD",
		success:    "#AAAAAA",
	})
}

type palette struct {
	primary, secondary, accent, background, muted lipgloss.Color
	errorColor, warning, success                  lipgloss.Color
}

func buildTheme(p palette) *Theme {
	t := &Theme{
		PrimaryColor:    p.primary,
		SecondaryColor:  p.secondary,
		AccentColor:     p.accent,
		BackgroundColor: p.background,
		MutedColor:      p.muted,
		ErrorColor:      p.errorColor,
		WarningColor:    p.warning,
		SuccessColor:    p.success,
	}

	t.Base = lipgloss.NewStyle().Foreground(p.primary)
	t.Primary = lipgloss.NewStyle().Foreground(p.primary)
	t.Accent = lipgloss.NewStyle().Foreground(p.accent)
	t.Error = lipgloss.NewStyle().Foreground(p.errorColor)
	t.Warning = lipgloss.NewStyle().Foreground(p.warning)
	t.Success = lipgloss.NewStyle().Foreground(p.success)
	t.Muted = lipgloss.NewStyle().Foreground(p.muted)

	t.Header = lipgloss.NewStyle().
		Foreground(p.primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(p.secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(p.primary).
		Bold(true)

	t.Label = lipgloss.NewStyle().Foreground(p.secondary)
	t.Value = lipgloss.NewStyle().Foreground(p.primary)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.secondary).
		Padding(0, 1)

	t.Selected = lipgloss.NewStyle().
		Foreground(p.background).
		Background(p.primary).
		Bold(true)

	t.Alert = lipgloss.NewStyle().
		Foreground(p.primary).
		Bold(true)

	t.AlertWarn = lipgloss.NewStyle().
		Foreground(p.warning).
		Bold(true)

	t.AlertCrit = lipgloss.NewStyle().
		Foreground(p.errorColor).
		Bold(true)

	t.StatusKey = lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(p.muted).
		SetString(" │ ")

	return t
}

// ComponentStyles returns the palette handed to views and components.
func (t *Theme) ComponentStyles() components.Styles {
	return components.Styles{
		Title:       t.Title,
		Section:     t.Subtitle,
		Label:       t.Label,
		Value:       t.Value,
		Accent:      t.Accent,
		Muted:       t.Muted,
		Help:        t.Label,
		Error:       t.Error,
		Warning:     t.Warning,
		Success:     t.Success,
		TableHeader: t.Accent.Bold(true),
		TableRow:    t.Primary,
		TableRowAlt: t.Label,
		Selected:    t.Selected,
		Border:      t.Label,
	}
}

// Box characters for drawing
const (
	BoxHorizontal       = "─"
	BoxDoubleHorizontal = "═"
)

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	return t.Label.Render(strings.Repeat(BoxHorizontal, max(width, 0)))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	return t.Primary.Render(strings.Repeat(BoxDoubleHorizontal, max(width, 0)))
}
