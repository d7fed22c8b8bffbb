package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColumnSpec defines a column with proportional or fixed width.
type ColumnSpec struct {
	// MinWidth is the smallest width a weighted column is given.
	MinWidth int
	// Weight is the proportional share of remaining width.
	Weight float64
	// Fixed is a fixed width (overrides Weight if > 0).
	Fixed int
	// Priority determines drop order when the terminal is narrow (lower = dropped first).
	Priority int
}

// CalculateColumnWidths distributes available width among columns
// proportionally. Columns that do not fit are dropped lowest priority first
// and returned with width 0. separator is the width of one column gap.
func CalculateColumnWidths(specs []ColumnSpec, availableWidth int, separator int) []int {
	widths := make([]int, len(specs))
	visible := make([]bool, len(specs))
	visibleCount := 0
	totalFixed := 0
	totalWeight := 0.0

	for i, spec := range specs {
		visible[i] = true
		visibleCount++
		if spec.Fixed > 0 {
			totalFixed += spec.Fixed
		} else {
			totalWeight += spec.Weight
			totalFixed += spec.MinWidth
		}
	}

	remaining := func() int {
		gaps := 0
		if visibleCount > 1 {
			gaps = (visibleCount - 1) * separator
		}
		return availableWidth - totalFixed - gaps - 2 // row padding
	}

	for remaining() < 0 && visibleCount > 1 {
		lowest := -1
		for i, spec := range specs {
			if visible[i] && (lowest < 0 || spec.Priority < specs[lowest].Priority) {
				lowest = i
			}
		}
		visible[lowest] = false
		visibleCount--
		if specs[lowest].Fixed > 0 {
			totalFixed -= specs[lowest].Fixed
		} else {
			totalWeight -= specs[lowest].Weight
			totalFixed -= specs[lowest].MinWidth
		}
	}

	spare := remaining()
	if spare < 0 {
		spare = 0
	}

	for i, spec := range specs {
		switch {
		case !visible[i]:
			widths[i] = 0
		case spec.Fixed > 0:
			widths[i] = spec.Fixed
		case totalWeight > 0:
			widths[i] = spec.MinWidth + int(float64(spare)*spec.Weight/totalWeight)
		default:
			widths[i] = spec.MinWidth
		}
	}

	return widths
}

// SideBySide renders two blocks next to each other, stacking them when they
// do not fit in totalWidth.
func SideBySide(left, right string, totalWidth, gap int) string {
	leftWidth := lipgloss.Width(left)
	if leftWidth+lipgloss.Width(right)+gap > totalWidth {
		return left + "\n\n" + right
	}

	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")
	rows := max(len(leftLines), len(rightLines))

	var b strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(leftLines) {
			l = leftLines[i]
		}
		if i < len(rightLines) {
			r = rightLines[i]
		}
		b.WriteString(PadRight(l, leftWidth+gap))
		b.WriteString(r)
		if i < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Gauge renders value as a bar filled relative to limit. The bar turns to
// the warning and error styles past half and three quarters of limit.
func Gauge(value, limit float64, width int, styles Styles) string {
	if limit <= 0 {
		limit = 1
	}
	ratio := value / limit
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	barWidth := width - 2 // brackets
	if barWidth < 4 {
		barWidth = 4
	}
	filled := int(ratio * float64(barWidth))
	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"

	switch {
	case ratio >= 0.75:
		return styles.Error.Render(bar)
	case ratio >= 0.5:
		return styles.Warning.Render(bar)
	default:
		return styles.Success.Render(bar)
	}
}

// Truncate shortens s to fit within maxWidth, adding an ellipsis if needed.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth == 1 {
		return string(runes[:1])
	}
	if len(runes) > maxWidth-1 {
		runes = runes[:maxWidth-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadLeft pads s with spaces on the left to width.
func PadLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}
