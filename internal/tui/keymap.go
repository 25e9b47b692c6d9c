package tui

// GlobalKeyBindings lists the keys that are always handled by the root model
// before dispatching to focused panels.
var GlobalKeyBindings = []string{
	"tab", "shift+tab", "1", "2", "3", "4", "left", "right",
	"q", "ctrl+c", "n", "r", "x", "u", "t", "esc",
}

// panelKeys maps each FocusTarget to the keys that panel handles internally.
var panelKeys = map[FocusTarget][]string{
	FocusHistory:  {"j", "k", "enter", "e"},
	FocusOps:      {"j", "k", "enter"},
	FocusPattern:  {"[", "]", "j", "k"},
	FocusActivity: {"[", "]", "f", "j", "k"},
}

// IsGlobalKey reports whether key is a global keybinding (handled before panel dispatch).
func IsGlobalKey(key string) bool {
	for _, k := range GlobalKeyBindings {
		if k == key {
			return true
		}
	}
	return false
}

// PanelKeys returns the list of keys handled by the given focused panel.
func PanelKeys(focus FocusTarget) []string {
	return panelKeys[focus]
}
