package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kennelworks/pedigree/internal/config"
	"github.com/kennelworks/pedigree/internal/models"
	"github.com/kennelworks/pedigree/internal/services/pedigree"
	"github.com/kennelworks/pedigree/internal/testutil"
)

// Registry order is by name, so the test kennel lists as:
//
//	0 Ashgrove Bramble    bitch, founder
//	1 Ashgrove Clover     bitch, founder
//	2 Glenrothes Bracken  dog, founder
//	3 Heatherbrae Fern    bitch, Bracken x Clover
//	4 Heatherbrae Moss    dog, Bracken x Bramble
//	5 Heatherbrae Tansy   bitch, Moss x Fern
const (
	nameBramble = "Ashgrove Bramble"
	nameClover  = "Ashgrove Clover"
	nameBracken = "Glenrothes Bracken"
	nameFern    = "Heatherbrae Fern"
	nameMoss    = "Heatherbrae Moss"
	nameTansy   = "Heatherbrae Tansy"
)

// newTestService returns a pedigree service over a migrated in-memory
// registry holding the half-sibling test kennel.
func newTestService(t *testing.T, cfg *config.Config) *pedigree.Service {
	t.Helper()

	db := testutil.NewMigratedTestDB(t, filepath.Join("..", "database", "migrations"))

	breed := testutil.FixtureBreed(func(b *models.Breed) { b.Name = "Border Collie" })
	db.InsertBreed(t, breed)

	named := func(name string) func(*models.Dog) {
		return func(d *models.Dog) { d.Name = name }
	}
	bramble := testutil.FixtureBitch(breed.ID, named(nameBramble))
	clover := testutil.FixtureBitch(breed.ID, named(nameClover))
	bracken := testutil.FixtureDog(breed.ID, named(nameBracken))
	moss := testutil.FixturePuppy(breed.ID, bracken.ID, bramble.ID, named(nameMoss))
	fern := testutil.FixturePuppy(breed.ID, bracken.ID, clover.ID, named(nameFern), func(d *models.Dog) {
		d.Sex = models.SexFemale
	})
	tansy := testutil.FixturePuppy(breed.ID, moss.ID, fern.ID, named(nameTansy), func(d *models.Dog) {
		d.Sex = models.SexFemale
	})
	db.InsertDogs(t, bramble, clover, bracken, moss, fern, tansy)

	return pedigree.NewService(db.DB, cfg.Analysis)
}

// newTestApp creates an App over the test kennel with the registry loaded.
// The window is set to 120x40 and marked ready.
func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	app := New(newTestService(t, cfg), cfg)

	app.width = 120
	app.height = 40
	app.ready = true
	app.updateViewDimensions()

	run(app, app.loadRegistry())
	return app
}

// run executes cmd synchronously and feeds its message back to the app.
func run(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	app.Update(cmd())
}

// press sends msg to the app and runs the command it returns.
func press(app *App, msg tea.Msg) {
	_, cmd := app.Update(msg)
	run(app, cmd)
}

// selectDog moves the registry selection to the dog with the given name.
func selectDog(t *testing.T, app *App, name string) *models.Dog {
	t.Helper()

	app.registryView.GoToTop()
	for range 20 {
		if dog := app.registryView.SelectedDog(); dog != nil && dog.Name == name {
			return dog
		}
		app.registryView.MoveDown()
	}
	t.Fatalf("dog %q not found in registry", name)
	return nil
}

// keyMsg creates a tea.KeyMsg for a regular character key.
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// specialKeyMsg creates a tea.KeyMsg for a special key type.
func specialKeyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}
