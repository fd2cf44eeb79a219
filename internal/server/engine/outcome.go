package engine

import (
	"dragchess/internal/server/board"
	"dragchess/internal/server/core"
)

var (
	whiteKing = core.Piece{Kind: core.KindKing, Color: core.ColorWhite}
	blackKing = core.Piece{Kind: core.KindKing, Color: core.ColorBlack}
)

// Evaluate derives the outcome from king presence alone. When both kings
// are gone the black-king rule is applied last and white is the winner.
func Evaluate(b *board.Board) core.Outcome {
	outcome := core.OutcomeOngoing
	if !b.Contains(whiteKing) {
		outcome = core.OutcomeBlackWins
	}
	if !b.Contains(blackKing) {
		outcome = core.OutcomeWhiteWins
	}
	return outcome
}
