package engine

import (
	"dragchess/internal/server/board"
	"dragchess/internal/server/core"
)

// Forward is the rank direction a color's pawns advance in. Black starts
// on the low ranks and moves toward increasing indices.
func Forward(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}

// StartingRank is the rank a color's pawns may double-step from
func StartingRank(c core.Color) int {
	if c == core.ColorWhite {
		return core.BoardWidth - 2
	}
	return 1
}

// move carries the geometry of a proposed relocation
type move struct {
	piece          core.Piece
	origin, dest   core.Square
	deltaX, deltaY int
	dx, dy         int
}

func newMove(p core.Piece, origin, dest core.Square) move {
	deltaX := core.FileOf(dest) - core.FileOf(origin)
	deltaY := core.RankOf(dest) - core.RankOf(origin)
	return move{
		piece:  p,
		origin: origin,
		dest:   dest,
		deltaX: deltaX,
		deltaY: deltaY,
		dx:     abs(deltaX),
		dy:     abs(deltaY),
	}
}

type rule func(m move, b *board.Board) bool

var rules = map[core.PieceKind]rule{
	core.KindPawn:   pawnRule,
	core.KindKnight: knightRule,
	core.KindBishop: bishopRule,
	core.KindRook:   rookRule,
	core.KindQueen:  queenRule,
	core.KindKing:   kingRule,
}

// IsLegal reports whether the piece may relocate from origin to dest on
// the given board. Ownership of the destination is not considered, and
// no check safety is applied.
func IsLegal(p core.Piece, origin, dest core.Square, b *board.Board) bool {
	if !origin.Valid() || !dest.Valid() || origin == dest {
		return false
	}
	r, ok := rules[p.Kind]
	if !ok {
		return false
	}
	return r(newMove(p, origin, dest), b)
}

// Targets lists every square the piece on origin could legally reach by
// shape, including squares held by its own side
func Targets(b *board.Board, origin core.Square) []core.Square {
	p, ok := b.PieceAt(origin)
	if !ok {
		return nil
	}
	var out []core.Square
	for sq := core.Square(0); sq < core.NumSquares; sq++ {
		if IsLegal(p, origin, sq, b) {
			out = append(out, sq)
		}
	}
	return out
}

func pawnRule(m move, b *board.Board) bool {
	fwd := Forward(m.piece.Color)
	destTaken := b.IsOccupied(m.dest)

	switch {
	case m.deltaX == 0 && m.deltaY == 2*fwd:
		if core.RankOf(m.origin) != StartingRank(m.piece.Color) {
			return false
		}
		between := core.Square(int(m.origin) + fwd*core.BoardWidth)
		return !destTaken && !b.IsOccupied(between)
	case m.deltaX == 0 && m.deltaY == fwd:
		return !destTaken
	case m.dx == 1 && m.deltaY == fwd:
		return destTaken
	default:
		return false
	}
}

func knightRule(m move, _ *board.Board) bool {
	return (m.dx == 1 && m.dy == 2) || (m.dx == 2 && m.dy == 1)
}

func bishopRule(m move, b *board.Board) bool {
	return m.dx == m.dy && !IsBlocked(b, m.origin, m.dest)
}

func rookRule(m move, b *board.Board) bool {
	return (m.deltaX == 0 || m.deltaY == 0) && !IsBlocked(b, m.origin, m.dest)
}

func queenRule(m move, b *board.Board) bool {
	return bishopRule(m, b) || rookRule(m, b)
}

func kingRule(m move, _ *board.Board) bool {
	return m.dx <= 1 && m.dy <= 1
}
