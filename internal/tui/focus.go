package tui

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusHistory  FocusTarget = iota // Left sidebar, step history
	FocusOps                         // Left sidebar, available operations
	FocusPattern                     // Right top, pattern and journal
	FocusActivity                    // Right bottom, activity and matches
)

const focusCount = 4

// Next returns the next focus target in forward order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % focusCount
}

// Prev returns the previous focus target in reverse order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + focusCount - 1) % focusCount
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusHistory:
		return "history"
	case FocusOps:
		return "ops"
	case FocusPattern:
		return "pattern"
	case FocusActivity:
		return "activity"
	default:
		return "unknown"
	}
}

// promptKind says what the root prompt is collecting.
type promptKind int

const (
	promptNone   promptKind = iota
	promptNew               // seed text for a new unit
	promptRename            // new name for the selected unit
	promptTest              // input to match the pattern against
)
