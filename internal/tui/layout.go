package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer     Rect
	Contexts, Attempts Rect
	Timer, Log         Rect
	TooSmall           bool // true when terminal is below the minimum 80×24
}

// Calculate computes the panel layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 24.
//
// Algorithm:
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Sidebar: 25% of width, clamped to [24, 35]
//   - Contexts: sidebar width × 50% of body height (top of sidebar)
//   - Attempts: sidebar width × remaining body height (bottom of sidebar)
//   - Timer: remaining width × 70% of body height (top-right)
//   - Log: remaining width × remaining body height (bottom-right)
func Calculate(width, height int) Layout {
	if width < 80 || height < 24 {
		return Layout{TooSmall: true}
	}

	bodyH := height - 2 // subtract header + footer rows

	sidebarW := width * 25 / 100
	if sidebarW < 24 {
		sidebarW = 24
	}
	if sidebarW > 35 {
		sidebarW = 35
	}
	rightW := width - sidebarW

	contextsH := bodyH * 50 / 100
	attemptsH := bodyH - contextsH

	timerH := bodyH * 70 / 100
	logH := bodyH - timerH

	return Layout{
		Header:   Rect{X: 0, Y: 0, Width: width, Height: 1},
		Footer:   Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		Contexts: Rect{X: 0, Y: 1, Width: sidebarW, Height: contextsH},
		Attempts: Rect{X: 0, Y: 1 + contextsH, Width: sidebarW, Height: attemptsH},
		Timer:    Rect{X: sidebarW, Y: 1, Width: rightW, Height: timerH},
		Log:      Rect{X: sidebarW, Y: 1 + timerH, Width: rightW, Height: logH},
		TooSmall: false,
	}
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
