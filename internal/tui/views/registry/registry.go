// Package registry provides the TUI view over the registered dogs.
package registry

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/tui/components"
	"github.com/kennelworks/pedigree/internal/util"
)

// Lister loads pages of registered dogs.
type Lister interface {
	ListDogs(ctx context.Context, filter models.DogFilter, page models.Pagination) (*models.DogList, error)
}

// View lists the registry a page at a time and shows which dogs are marked
// as the sire and dam of a planned mating.
type View struct {
	lister     Lister
	table      *components.Table
	styles     components.Styles
	dogs       []*models.Dog
	page       models.Pagination
	filter     models.DogFilter
	totalPages int
	loaded     bool
	err        error
	asOf       time.Time
	dateFormat string

	sireID string
	damID  string
}

// New creates a registry view showing pageSize dogs per page.
func New(lister Lister, pageSize int, dateFormat string) *View {
	// Higher priority = kept longer when the terminal narrows.
	columns := []components.Column{
		{Title: "", Width: 1, Priority: 9},
		{Title: "Reg #", Width: 11, Priority: 10},
		{Title: "Name", Width: 14, Weight: 2, Priority: 11},
		{Title: "Breed", Width: 10, Weight: 1, Priority: 4},
		{Title: "Sex", Width: 5, Priority: 8},
		{Title: "Born", Width: 10, Weight: 0.5, Priority: 3},
		{Title: "Age", Width: 3, Align: lipgloss.Right, Priority: 5},
		{Title: "COI", Width: 7, Align: lipgloss.Right, Priority: 7},
		{Title: "CH", Width: 2, Priority: 2},
		{Title: "HT", Width: 2, Priority: 1},
	}

	if dateFormat == "" {
		dateFormat = time.DateOnly
	}

	table := components.NewTable(columns)
	table.SetVisibleRows(pageSize)
	table.Focus(true)

	return &View{
		lister:     lister,
		table:      table,
		styles:     components.DefaultStyles(),
		page:       models.Pagination{Page: 1, PageSize: pageSize},
		asOf:       time.Now(),
		dateFormat: dateFormat,
	}
}

// Load fetches the current page from the registry.
func (v *View) Load(ctx context.Context) error {
	result, err := v.lister.ListDogs(ctx, v.filter, v.page)
	if err != nil {
		v.err = err
		return err
	}

	v.err = nil
	v.loaded = true
	v.dogs = result.Dogs
	v.totalPages = result.TotalPages
	v.table.SetPagination(result.Page, result.TotalPages, result.Total)
	v.refreshRows()
	return nil
}

func (v *View) refreshRows() {
	rows := make([][]string, len(v.dogs))
	for i, d := range v.dogs {
		bd := d.BirthDate()
		rows[i] = []string{
			v.mark(d.ID),
			d.RegistrationNumber,
			d.Name,
			d.BreedName,
			d.Sex.String(),
			util.FormatBirthDate(bd, v.dateFormat),
			util.FormatAge(bd, v.asOf),
			util.FormatPercent(d.COI),
			flag(d.IsChampion),
			flag(d.HealthTested),
		}
	}
	v.table.SetRows(rows)
}

func (v *View) mark(id string) string {
	switch id {
	case v.sireID:
		return "S"
	case v.damID:
		return "D"
	default:
		return ""
	}
}

func flag(b bool) string {
	if b {
		return "✓"
	}
	return ""
}

// SetStyles sets the view palette.
func (v *View) SetStyles(styles components.Styles) {
	v.styles = styles
	v.table.SetStyles(styles)
}

// SetAsOf sets the date ages are calculated at.
func (v *View) SetAsOf(t time.Time) {
	v.asOf = t
	v.refreshRows()
}

// SetMarks records the dogs marked as sire and dam. Empty IDs clear a mark.
func (v *View) SetMarks(sireID, damID string) {
	v.sireID = sireID
	v.damID = damID
	v.refreshRows()
}

// SetSearch filters by name or registration number and returns to page one.
func (v *View) SetSearch(term string) {
	v.filter.SearchTerm = strings.TrimSpace(term)
	v.page.Page = 1
}

// Search returns the active search term.
func (v *View) Search() string {
	return v.filter.SearchTerm
}

// SetVisibleRows sets the number of visible table rows.
func (v *View) SetVisibleRows(n int) {
	v.table.SetVisibleRows(n)
}

// NextPage advances to the next page and reports whether there was one.
func (v *View) NextPage() bool {
	if v.page.Page >= v.totalPages {
		return false
	}
	v.page.Page++
	return true
}

// PrevPage returns to the previous page and reports whether there was one.
func (v *View) PrevPage() bool {
	if v.page.Page <= 1 {
		return false
	}
	v.page.Page--
	return true
}

// Page returns the current page number.
func (v *View) Page() int {
	return v.page.Page
}

// MoveUp moves the selection up.
func (v *View) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *View) MoveDown() {
	v.table.MoveDown()
}

// GoToTop selects the first dog on the page.
func (v *View) GoToTop() {
	v.table.GoToTop()
}

// GoToBottom selects the last dog on the page.
func (v *View) GoToBottom() {
	v.table.GoToBottom()
}

// SelectedDog returns the currently selected dog.
func (v *View) SelectedDog() *models.Dog {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.dogs) {
		return v.dogs[idx]
	}
	return nil
}

// Render renders the registry, responsive to the given terminal width.
func (v *View) Render(width, height int) string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("═══ KENNEL REGISTRY ═══"))
	b.WriteString("\n\n")

	if v.filter.SearchTerm != "" {
		b.WriteString(v.styles.Label.Render("Search: "))
		b.WriteString(v.styles.Value.Render(v.filter.SearchTerm))
		b.WriteString("\n\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	switch {
	case !v.loaded && v.err == nil:
		b.WriteString(v.styles.Label.Render("Loading..."))
		b.WriteString("\n")
	case v.table.Empty():
		b.WriteString(v.styles.Label.Render("No dogs found."))
		b.WriteString("\n")
	default:
		b.WriteString(v.table.RenderResponsive(width))
	}

	b.WriteString("\n")
	if width < 60 {
		b.WriteString(v.styles.Help.Render("↑↓:Nav  Enter:Lineage  s/d:Mark  /:Search"))
	} else {
		b.WriteString(v.styles.Help.Render("Up/Down:Select  Enter:Lineage  s:Mark sire  d:Mark dam  /:Search  PgUp/Dn:Page"))
	}

	return b.String()
}
