package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Tabs, Footer Rect
	History, Ops         Rect
	Pattern, Secondary   Rect
	TooSmall             bool // true when terminal is below the minimum 80×24
}

// Calculate computes the panel layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 24.
//
//   - Header: full width, row 0
//   - Tabs: full width, row 1 (one tab per open unit)
//   - Footer: full width, last row
//   - Sidebar: 30% of width, clamped to [28, 44]
//   - History: top 55% of the sidebar, Ops below it
//   - Pattern: top 40% of the right column, Secondary below it
func Calculate(width, height int) Layout {
	if width < 80 || height < 24 {
		return Layout{TooSmall: true}
	}

	bodyH := height - 3

	sidebarW := min(max(width*30/100, 28), 44)
	rightW := width - sidebarW

	historyH := bodyH * 55 / 100
	opsH := bodyH - historyH

	patternH := bodyH * 40 / 100
	secH := bodyH - patternH

	return Layout{
		Header:    Rect{X: 0, Y: 0, Width: width, Height: 1},
		Tabs:      Rect{X: 0, Y: 1, Width: width, Height: 1},
		Footer:    Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		History:   Rect{X: 0, Y: 2, Width: sidebarW, Height: historyH},
		Ops:       Rect{X: 0, Y: 2 + historyH, Width: sidebarW, Height: opsH},
		Pattern:   Rect{X: sidebarW, Y: 2, Width: rightW, Height: patternH},
		Secondary: Rect{X: sidebarW, Y: 2 + patternH, Width: rightW, Height: secH},
	}
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	return max(r.Width-2, 1), max(r.Height-2, 1)
}
