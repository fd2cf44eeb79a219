package engine

import (
	"testing"

	"dragchess/internal/server/board"
	"dragchess/internal/server/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func piece(kind core.PieceKind, color core.Color) core.Piece {
	return core.Piece{Kind: kind, Color: color}
}

func onlyPiece(p core.Piece, sq core.Square) *board.Board {
	b := board.New()
	b.Place(sq, p)
	return b
}

func TestKnightOffsets(t *testing.T) {
	for origin := core.Square(0); origin < core.NumSquares; origin++ {
		knight := piece(core.KindKnight, core.ColorWhite)
		b := onlyPiece(knight, origin)
		for dest := core.Square(0); dest < core.NumSquares; dest++ {
			dx := abs(core.FileOf(dest) - core.FileOf(origin))
			dy := abs(core.RankOf(dest) - core.RankOf(origin))
			want := (dx == 1 && dy == 2) || (dx == 2 && dy == 1)
			assert.Equal(t, want, IsLegal(knight, origin, dest, b), "knight %d -> %d", origin, dest)
		}
	}
}

func TestKnightIgnoresDestinationOwner(t *testing.T) {
	b := board.NewStarting()
	knight := piece(core.KindKnight, core.ColorBlack)
	// b8 knight onto its own pawn at d7: shape is legal, ownership is the caller's concern
	assert.True(t, IsLegal(knight, 1, 11, b))
	assert.True(t, IsLegal(knight, 1, 16, b))
}

func TestKingChebyshevDistance(t *testing.T) {
	for origin := core.Square(0); origin < core.NumSquares; origin++ {
		king := piece(core.KindKing, core.ColorBlack)
		b := onlyPiece(king, origin)
		for dest := core.Square(0); dest < core.NumSquares; dest++ {
			dx := abs(core.FileOf(dest) - core.FileOf(origin))
			dy := abs(core.RankOf(dest) - core.RankOf(origin))
			want := max(dx, dy) <= 1 && dest != origin
			assert.Equal(t, want, IsLegal(king, origin, dest, b), "king %d -> %d", origin, dest)
		}
	}
}

func TestSlidersOnEmptyBoard(t *testing.T) {
	origin := core.SquareAt(3, 4)
	tests := []struct {
		kind core.PieceKind
		want func(dx, dy int) bool
	}{
		{core.KindBishop, func(dx, dy int) bool { return dx == dy }},
		{core.KindRook, func(dx, dy int) bool { return dx == 0 || dy == 0 }},
		{core.KindQueen, func(dx, dy int) bool { return dx == dy || dx == 0 || dy == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := piece(tt.kind, core.ColorWhite)
			b := onlyPiece(p, origin)
			for dest := core.Square(0); dest < core.NumSquares; dest++ {
				if dest == origin {
					assert.False(t, IsLegal(p, origin, dest, b))
					continue
				}
				dx := abs(core.FileOf(dest) - core.FileOf(origin))
				dy := abs(core.RankOf(dest) - core.RankOf(origin))
				assert.Equal(t, tt.want(dx, dy), IsLegal(p, origin, dest, b), "%s %d -> %d", tt.kind, origin, dest)
			}
		})
	}
}

// The original scan advanced file and rank together on every step, which
// only visits the right squares on diagonals. Each case below puts the
// sole blocker on a straight line, where that loop never looked.
func TestSlidersBlockedOnStraightLines(t *testing.T) {
	tests := []struct {
		name    string
		kind    core.PieceKind
		origin  core.Square
		dest    core.Square
		blocker core.Square
	}{
		{"rook along rank", core.KindRook, 0, 7, 3},
		{"rook along file", core.KindRook, 0, 56, 24},
		{"rook backwards along file", core.KindRook, 63, 7, 31},
		{"queen along rank", core.KindQueen, 36, 32, 34},
		{"queen along file", core.KindQueen, 4, 60, 12},
		{"queen along diagonal", core.KindQueen, 0, 63, 45},
		{"bishop along anti-diagonal", core.KindBishop, 7, 56, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := piece(tt.kind, core.ColorBlack)
			b := onlyPiece(p, tt.origin)
			require.True(t, IsLegal(p, tt.origin, tt.dest, b), "clear path should be legal")

			b.Place(tt.blocker, piece(core.KindPawn, core.ColorWhite))
			assert.True(t, IsBlocked(b, tt.origin, tt.dest))
			assert.False(t, IsLegal(p, tt.origin, tt.dest, b))
		})
	}
}

func TestSlidersBlockedAnywhereOnPath(t *testing.T) {
	for _, kind := range []core.PieceKind{core.KindBishop, core.KindRook, core.KindQueen} {
		p := piece(kind, core.ColorWhite)
		for origin := core.Square(0); origin < core.NumSquares; origin++ {
			empty := onlyPiece(p, origin)
			for dest := core.Square(0); dest < core.NumSquares; dest++ {
				if !IsLegal(p, origin, dest, empty) {
					continue
				}
				for _, between := range squaresBetween(origin, dest) {
					b := empty.Clone()
					b.Place(between, piece(core.KindKnight, core.ColorBlack))
					assert.False(t, IsLegal(p, origin, dest, b), "%s %d -> %d blocked at %d", kind, origin, dest, between)
				}
			}
		}
	}
}

func squaresBetween(origin, dest core.Square) []core.Square {
	fx, fy := core.FileOf(origin), core.RankOf(origin)
	tx, ty := core.FileOf(dest), core.RankOf(dest)
	sx, sy := sign(tx-fx), sign(ty-fy)
	var out []core.Square
	for x, y := fx+sx, fy+sy; x != tx || y != ty; x, y = x+sx, y+sy {
		out = append(out, core.SquareAt(x, y))
	}
	return out
}

func TestIsBlockedEdgeCases(t *testing.T) {
	b := board.NewStarting()
	assert.False(t, IsBlocked(b, 0, 0), "identical squares")
	assert.False(t, IsBlocked(b, 0, 8), "adjacent squares")
	assert.False(t, IsBlocked(b, 0, 17), "knight jump is not a line")
	assert.False(t, IsBlocked(b, -1, 8), "off board")
	assert.True(t, IsBlocked(b, 0, 16), "own pawn between rook and a6")
	// A line must not wrap from the h-file to the a-file of the next rank
	assert.False(t, IsBlocked(board.New(), 7, 8))
}

func TestPawnDoubleStepOnlyFromStartingRank(t *testing.T) {
	tests := []struct {
		name   string
		color  core.Color
		origin core.Square
		dest   core.Square
		want   bool
	}{
		{"black from rank 1", core.ColorBlack, 8, 24, true},
		{"black from rank 2", core.ColorBlack, 16, 32, false},
		{"white from rank 6", core.ColorWhite, 52, 36, true},
		{"white from rank 5", core.ColorWhite, 44, 28, false},
		{"black backwards", core.ColorBlack, 24, 8, false},
		{"white from black's starting rank", core.ColorWhite, 12, 28, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := piece(core.KindPawn, tt.color)
			b := onlyPiece(p, tt.origin)
			assert.Equal(t, tt.want, IsLegal(p, tt.origin, tt.dest, b))
		})
	}
}

func TestPawnDoubleStepNeedsClearPath(t *testing.T) {
	pawn := piece(core.KindPawn, core.ColorBlack)

	b := onlyPiece(pawn, 8)
	b.Place(16, piece(core.KindKnight, core.ColorWhite))
	assert.False(t, IsLegal(pawn, 8, 24, b), "intermediate square occupied")

	b = onlyPiece(pawn, 8)
	b.Place(24, piece(core.KindKnight, core.ColorWhite))
	assert.False(t, IsLegal(pawn, 8, 24, b), "destination occupied")
}

func TestPawnSingleStep(t *testing.T) {
	pawn := piece(core.KindPawn, core.ColorWhite)
	b := onlyPiece(pawn, 36)
	assert.True(t, IsLegal(pawn, 36, 28, b))
	assert.False(t, IsLegal(pawn, 36, 44, b), "white never moves toward higher indices")

	b.Place(28, piece(core.KindRook, core.ColorBlack))
	assert.False(t, IsLegal(pawn, 36, 28, b), "straight moves never capture")
}

func TestPawnDiagonalCaptureNeedsOccupant(t *testing.T) {
	pawn := piece(core.KindPawn, core.ColorBlack)
	b := onlyPiece(pawn, 19)
	assert.False(t, IsLegal(pawn, 19, 26, b))
	assert.False(t, IsLegal(pawn, 19, 28, b))

	b.Place(26, piece(core.KindQueen, core.ColorWhite))
	b.Place(28, piece(core.KindQueen, core.ColorWhite))
	assert.True(t, IsLegal(pawn, 19, 26, b))
	assert.True(t, IsLegal(pawn, 19, 28, b))
}

func TestPawnCaptureDoesNotWrapFiles(t *testing.T) {
	// h-file pawn: index+9 lands on the a-file of the rank after next
	pawn := piece(core.KindPawn, core.ColorBlack)
	b := onlyPiece(pawn, 15)
	b.Place(24, piece(core.KindRook, core.ColorWhite))
	assert.False(t, IsLegal(pawn, 15, 24, b))
}

func TestUnknownKindIsIllegal(t *testing.T) {
	p := core.Piece{Kind: core.PieceKind(42), Color: core.ColorWhite}
	b := onlyPiece(p, 0)
	for dest := core.Square(1); dest < core.NumSquares; dest++ {
		assert.False(t, IsLegal(p, 0, dest, b))
	}
	assert.False(t, IsLegal(core.Piece{}, 0, 1, b))
}

func TestTargetsFromStart(t *testing.T) {
	b := board.NewStarting()
	assert.ElementsMatch(t, []core.Square{16, 24}, Targets(b, 8))
	assert.ElementsMatch(t, []core.Square{11, 16, 18}, Targets(b, 1))
	// Own pieces next to the rook pass the shape check; the caller filters ownership
	assert.ElementsMatch(t, []core.Square{1, 8}, Targets(b, 0))
	assert.Nil(t, Targets(b, 30))
}

func TestForwardAndStartingRank(t *testing.T) {
	assert.Equal(t, 1, Forward(core.ColorBlack))
	assert.Equal(t, -1, Forward(core.ColorWhite))
	assert.Equal(t, 1, StartingRank(core.ColorBlack))
	assert.Equal(t, 6, StartingRank(core.ColorWhite))
}
