// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column. Width is the fixed width, or the minimum
// width when Weight is set. Columns with the lowest Priority are dropped
// first on narrow terminals.
type Column struct {
	Title    string
	Width    int
	Weight   float64
	Priority int
	Align    lipgloss.Position
}

const columnSeparator = " | "

// Table is a scrolling, paginated table.
type Table struct {
	columns     []Column
	rows        [][]string
	selected    int
	offset      int
	visibleRows int
	focused     bool
	styles      Styles

	// Pagination
	currentPage int
	totalPages  int
	totalRows   int
}

// NewTable creates a new table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{
		columns:     columns,
		rows:        [][]string{},
		visibleRows: 10,
		styles:      DefaultStyles(),
	}
}

// SetRows replaces the table data and keeps the selection in range.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	if t.selected >= len(rows) {
		t.selected = max(len(rows)-1, 0)
	}
	if t.offset > t.selected {
		t.offset = t.selected
	}
}

// SetPagination sets pagination info shown under the rows.
func (t *Table) SetPagination(page, totalPages, totalRows int) {
	t.currentPage = page
	t.totalPages = totalPages
	t.totalRows = totalRows
}

// SetVisibleRows sets the number of visible rows.
func (t *Table) SetVisibleRows(n int) {
	if n < 1 {
		n = 1
	}
	t.visibleRows = n
}

// SetStyles sets the table styles.
func (t *Table) SetStyles(styles Styles) {
	t.styles = styles
}

// Focus sets the table focus state. Only a focused table highlights its
// selection.
func (t *Table) Focus(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected row index.
func (t *Table) Selected() int {
	return t.selected
}

// SelectedRow returns the currently selected row data.
func (t *Table) SelectedRow() []string {
	if t.selected >= 0 && t.selected < len(t.rows) {
		return t.rows[t.selected]
	}
	return nil
}

// MoveUp moves the selection up.
func (t *Table) MoveUp() {
	if t.selected > 0 {
		t.selected--
		if t.selected < t.offset {
			t.offset = t.selected
		}
	}
}

// MoveDown moves the selection down.
func (t *Table) MoveDown() {
	if t.selected < len(t.rows)-1 {
		t.selected++
		if t.selected >= t.offset+t.visibleRows {
			t.offset = t.selected - t.visibleRows + 1
		}
	}
}

// PageUp moves up one screen of rows.
func (t *Table) PageUp() {
	t.selected -= t.visibleRows
	if t.selected < 0 {
		t.selected = 0
	}
	t.offset = t.selected
}

// PageDown moves down one screen of rows.
func (t *Table) PageDown() {
	t.selected += t.visibleRows
	if t.selected >= len(t.rows) {
		t.selected = len(t.rows) - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
	t.offset = max(t.selected-t.visibleRows+1, 0)
}

// GoToTop selects the first row.
func (t *Table) GoToTop() {
	t.selected = 0
	t.offset = 0
}

// GoToBottom selects the last row.
func (t *Table) GoToBottom() {
	if len(t.rows) > 0 {
		t.selected = len(t.rows) - 1
		t.offset = max(t.selected-t.visibleRows+1, 0)
	}
}

// Render renders the table at its columns' declared widths.
func (t *Table) Render() string {
	return t.RenderResponsive(0)
}

// RenderResponsive renders the table fitted to width. A width of zero or
// less uses the declared column widths.
func (t *Table) RenderResponsive(width int) string {
	widths := t.computeWidths(width)

	total := 0
	shown := 0
	for _, w := range widths {
		if w > 0 {
			total += w
			shown++
		}
	}
	if shown > 1 {
		total += (shown - 1) * len(columnSeparator)
	}
	rule := t.styles.Border.Render(strings.Repeat("─", total+2))

	var b strings.Builder
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Title
	}
	b.WriteString(t.renderRow(headers, widths, t.styles.TableHeader))
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")

	end := min(t.offset+t.visibleRows, len(t.rows))
	for i := t.offset; i < end; i++ {
		style := t.styles.TableRow
		switch {
		case i == t.selected && t.focused:
			style = t.styles.Selected
		case (i-t.offset)%2 == 1:
			style = t.styles.TableRowAlt
		}
		b.WriteString(t.renderRow(t.rows[i], widths, style))
		b.WriteString("\n")
	}

	if t.totalPages > 0 {
		b.WriteString(rule)
		b.WriteString("\n")
		b.WriteString(t.styles.Border.Render(fmt.Sprintf("Page %d/%d | %d total", t.currentPage, t.totalPages, t.totalRows)))
	}

	return b.String()
}

// computeWidths returns one width per column; 0 means the column is hidden.
func (t *Table) computeWidths(width int) []int {
	if width <= 0 {
		widths := make([]int, len(t.columns))
		for i, col := range t.columns {
			widths[i] = col.Width
		}
		return widths
	}

	specs := make([]ColumnSpec, len(t.columns))
	for i, col := range t.columns {
		if col.Weight > 0 {
			specs[i] = ColumnSpec{MinWidth: col.Width, Weight: col.Weight, Priority: col.Priority}
		} else {
			specs[i] = ColumnSpec{Fixed: col.Width, Priority: col.Priority}
		}
	}
	return CalculateColumnWidths(specs, width, len(columnSeparator))
}

func (t *Table) renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, col := range t.columns {
		w := widths[i]
		if w == 0 {
			continue
		}
		cell := ""
		if i < len(cells) {
			cell = Truncate(cells[i], w)
		}

		switch col.Align {
		case lipgloss.Right:
			cell = PadLeft(cell, w)
		case lipgloss.Center:
			left := (w - lipgloss.Width(cell)) / 2
			cell = PadRight(strings.Repeat(" ", left)+cell, w)
		default:
			cell = PadRight(cell, w)
		}
		parts = append(parts, style.Render(cell))
	}

	return " " + strings.Join(parts, columnSeparator) + " "
}

// Empty returns true if the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}
