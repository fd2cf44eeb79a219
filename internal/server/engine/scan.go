// Package engine decides move legality and game outcome for the
// capture-the-king variant. Everything here is read-only over the board.
package engine

import (
	"dragchess/internal/server/board"
	"dragchess/internal/server/core"
)

// IsBlocked reports whether any square strictly between origin and dest
// is occupied. Only rank, file and diagonal lines are scanned; other
// pairs, and adjacent or identical squares, have nothing in between.
func IsBlocked(b *board.Board, origin, dest core.Square) bool {
	if !origin.Valid() || !dest.Valid() {
		return false
	}

	fromX, fromY := core.FileOf(origin), core.RankOf(origin)
	toX, toY := core.FileOf(dest), core.RankOf(dest)
	deltaX, deltaY := toX-fromX, toY-fromY
	if !isLine(deltaX, deltaY) {
		return false
	}

	// Each axis advances on its own; a zero step leaves that axis fixed
	stepX, stepY := sign(deltaX), sign(deltaY)
	for x, y := fromX+stepX, fromY+stepY; x != toX || y != toY; x, y = x+stepX, y+stepY {
		if b.IsOccupied(core.SquareAt(x, y)) {
			return true
		}
	}
	return false
}

func isLine(deltaX, deltaY int) bool {
	return deltaX == 0 || deltaY == 0 || abs(deltaX) == abs(deltaY)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
