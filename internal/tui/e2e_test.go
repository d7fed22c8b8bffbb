package tui

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/kennelworks/pedigree/internal/config"
)

// newE2EApp creates an App for end-to-end testing via teatest.
// Unlike newTestApp, this does NOT pre-configure width/height/ready or load
// the registry since teatest sends WindowSizeMsg via WithInitialTermSize and
// runs Init.
func newE2EApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	return New(newTestService(t, cfg), cfg)
}

// waitFor is a convenience wrapper around teatest.WaitFor with a standard timeout.
func waitFor(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte(text))
	}, teatest.WithDuration(5*time.Second))
}

// down sends n down-arrow presses.
func down(tm *teatest.TestModel, n int) {
	for range n {
		tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	}
}

// --- End-to-end tests ---
// These launch the real Bubble Tea program in a headless virtual terminal,
// send actual keystrokes, and assert on the rendered screen output.

func TestE2E_RegistryOnStartup(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	// Title and rows appear in the same frame once the registry loads
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("KENNEL REGISTRY")) &&
			bytes.Contains(bts, []byte(nameBracken)) &&
			bytes.Contains(bts, []byte("Page 1/1"))
	}, teatest.WithDuration(5*time.Second))
}

func TestE2E_AnalyzeDog(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, nameTansy)

	// Tansy is the last of six rows
	down(tm, 5)
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("LINEAGE ANALYSIS")) &&
			bytes.Contains(bts, []byte("COMMON ANCESTORS (1)")) &&
			bytes.Contains(bts, []byte("6.25%"))
	}, teatest.WithDuration(5*time.Second))

	// Esc → back to the registry
	tm.Send(tea.KeyMsg{Type: tea.KeyEscape})
	waitFor(t, tm, "KENNEL REGISTRY")
}

func TestE2E_PlanMating(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, nameMoss)

	// Fern (row 3) as dam, Moss (row 4) as sire
	down(tm, 3)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	waitFor(t, tm, "Dam: "+nameFern)

	down(tm, 1)
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	waitFor(t, tm, "Sire: "+nameMoss)

	tm.Send(tea.KeyMsg{Type: tea.KeyF4})
	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("MATING PLANNER")) &&
			bytes.Contains(bts, []byte("COMPATIBILITY (5 generations)"))
	}, teatest.WithDuration(5*time.Second))

	// Fewer generations re-scores the pair
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	waitFor(t, tm, "COMPATIBILITY (4 generations)")
}

func TestE2E_HelpScreenAndBack(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "KENNEL REGISTRY")

	// F1 → Help
	tm.Send(tea.KeyMsg{Type: tea.KeyF1})
	waitFor(t, tm, "RISK LEVELS")

	// Esc → Back to registry
	tm.Send(tea.KeyMsg{Type: tea.KeyEscape})
	waitFor(t, tm, "KENNEL REGISTRY")
}

func TestE2E_SearchFlow(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "KENNEL REGISTRY")

	// Enter search mode with '/'
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	waitFor(t, tm, "Search:")

	tm.Type("Ashgrove")
	waitFor(t, tm, "Ashgrove_")

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitFor(t, tm, "2 total")

	// Esc in search mode clears the filter
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEscape})
	waitFor(t, tm, "6 total")
}

func TestE2E_QuitFlow(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))

	waitFor(t, tm, "KENNEL REGISTRY")

	// Press q → confirm dialog
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	waitFor(t, tm, "CONFIRM EXIT")

	// Press y → quit
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})

	m := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
	app, ok := m.(*App)
	if !ok {
		t.Fatal("expected *App final model")
	}
	if !app.quitting {
		t.Error("expected app to be quitting")
	}
}

func TestE2E_QuitCancel(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	waitFor(t, tm, "KENNEL REGISTRY")

	tm.Send(tea.KeyMsg{Type: tea.KeyF10})
	waitFor(t, tm, "CONFIRM EXIT")

	// Press n → cancel
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	// Verify app is still responsive by navigating to another module
	tm.Send(tea.KeyMsg{Type: tea.KeyF4})
	waitFor(t, tm, "MATING PLANNER")
}

func TestE2E_NarrowTerminal(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(50, 24))
	t.Cleanup(func() { tm.Quit() })

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("KENNEL REGISTRY")) &&
			bytes.Contains(bts, []byte("F2:Reg"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyF3})
	waitFor(t, tm, "No dog selected")
}

func TestE2E_StatusBarShowsKeyBindings(t *testing.T) {
	tm := teatest.NewTestModel(t, newE2EApp(t),
		teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() { tm.Quit() })

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("[F1]Help")) &&
			bytes.Contains(bts, []byte("[F3]Lineage")) &&
			bytes.Contains(bts, []byte("[F4]Mating"))
	}, teatest.WithDuration(5*time.Second))
}
