package game

import "dragchess/internal/server/core"

// Turn tracks the side to move and the perspective the board is shown
// in. Both flip together after every applied move.
type Turn struct {
	active      core.Color
	orientation core.Orientation
}

// NewTurn starts with the given color to move. Black moves toward
// increasing square ids, so its view is unflipped.
func NewTurn(start core.Color) Turn {
	t := Turn{active: start, orientation: core.OrientationNormal}
	if start == core.ColorWhite {
		t.orientation = core.OrientationFlipped
	}
	return t
}

func (t Turn) Active() core.Color {
	return t.active
}

func (t Turn) Orientation() core.Orientation {
	return t.orientation
}

// Advance hands the move to the other side
func (t *Turn) Advance() {
	t.active = core.OppositeColor(t.active)
	t.orientation = t.orientation.Toggle()
}
