package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	// Navigation
	Up       Key
	Down     Key
	PageUp   Key
	PageDown Key
	Home     Key
	End      Key

	// Actions
	Select   Key
	Back     Key
	Quit     Key
	Search   Key
	MarkSire Key
	MarkDam  Key
	Deeper   Key
	Shallow  Key

	// Function keys for module navigation
	F1  Key
	F2  Key
	F3  Key
	F4  Key
	F10 Key
}

// Key represents a key binding.
type Key struct {
	Keys    []string
	Help    string
	Enabled bool
}

func newKey(help string, keys ...string) Key {
	return Key{Keys: keys, Help: help, Enabled: true}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       newKey("up", "up", "k"),
		Down:     newKey("down", "down", "j"),
		PageUp:   newKey("previous page", "pgup"),
		PageDown: newKey("next page", "pgdown"),
		Home:     newKey("first row", "home", "g"),
		End:      newKey("last row", "end", "G"),

		Select:   newKey("analyze", "enter"),
		Back:     newKey("back", "esc"),
		Quit:     newKey("quit", "q", "ctrl+c"),
		Search:   newKey("search", "/"),
		MarkSire: newKey("mark sire", "s"),
		MarkDam:  newKey("mark dam", "d"),
		Deeper:   newKey("more generations", "+", "="),
		Shallow:  newKey("fewer generations", "-"),

		F1:  newKey("Help", "f1", "?"),
		F2:  newKey("Registry", "f2"),
		F3:  newKey("Lineage", "f3"),
		F4:  newKey("Mating", "f4"),
		F10: newKey("Quit", "f10"),
	}
}

// Matches checks if a key message matches this key binding.
func (k Key) Matches(msg tea.KeyMsg) bool {
	if !k.Enabled {
		return false
	}

	keyStr := msg.String()
	for _, key := range k.Keys {
		if keyStr == key {
			return true
		}
	}
	return false
}

// MatchesAny checks if a key message matches any of the provided key bindings.
func MatchesAny(msg tea.KeyMsg, keys ...Key) bool {
	for _, k := range keys {
		if k.Matches(msg) {
			return true
		}
	}
	return false
}

// IsQuit checks if the key message is a quit command.
func (km KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return km.Quit.Matches(msg) || km.F10.Matches(msg)
}

// IsFunctionKey checks if the key message selects a module.
func (km KeyMap) IsFunctionKey(msg tea.KeyMsg) bool {
	return MatchesAny(msg, km.F1, km.F2, km.F3, km.F4, km.F10)
}

// GetFunctionKeyModule returns the module selected by a function key.
func (km KeyMap) GetFunctionKeyModule(msg tea.KeyMsg) Module {
	switch {
	case km.F1.Matches(msg):
		return ModuleHelp
	case km.F2.Matches(msg):
		return ModuleRegistry
	case km.F3.Matches(msg):
		return ModuleLineage
	case km.F4.Matches(msg):
		return ModuleMating
	case km.F10.Matches(msg):
		return moduleQuit
	default:
		return ""
	}
}

// StatusBarHelp returns the help text for the status bar, shortened for
// narrow terminals.
func (km KeyMap) StatusBarHelp(width int) string {
	if width < int(BreakpointNarrow) {
		return "F1:? F2:Reg F3:Lin F4:Mate F10:Quit"
	}
	return "[F1]Help [F2]Registry [F3]Lineage [F4]Mating [F10]Quit"
}
