package board

import (
	"strings"
	"testing"

	"dragchess/internal/server/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartingLayout(t *testing.T) {
	b := NewStarting()

	backRank := []core.PieceKind{
		core.KindRook, core.KindKnight, core.KindBishop, core.KindQueen,
		core.KindKing, core.KindBishop, core.KindKnight, core.KindRook,
	}
	for i, kind := range backRank {
		p, ok := b.PieceAt(core.Square(i))
		require.True(t, ok, "square %d", i)
		assert.Equal(t, core.Piece{Kind: kind, Color: core.ColorBlack}, p)

		p, ok = b.PieceAt(core.Square(56 + i))
		require.True(t, ok, "square %d", 56+i)
		assert.Equal(t, core.Piece{Kind: kind, Color: core.ColorWhite}, p)
	}
	for i := 8; i < 16; i++ {
		p, _ := b.PieceAt(core.Square(i))
		assert.Equal(t, core.Piece{Kind: core.KindPawn, Color: core.ColorBlack}, p)
		p, _ = b.PieceAt(core.Square(i + 40))
		assert.Equal(t, core.Piece{Kind: core.KindPawn, Color: core.ColorWhite}, p)
	}
	for i := 16; i < 48; i++ {
		assert.False(t, b.IsOccupied(core.Square(i)), "square %d", i)
	}
}

func TestPlacementRoundTrip(t *testing.T) {
	b := NewStarting()
	assert.Equal(t, StartingPlacement, b.Placement())

	b.Move(8, 24)
	assert.Equal(t, "rnbqkbnr/1ppppppp/8/p7/8/8/PPPPPPPP/RNBQKBNR", b.Placement())

	parsed, err := ParsePlacement(b.Placement())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)
}

func TestParsePlacementErrors(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		wantErr   string
	}{
		{"too few ranks", "8/8/8", "expected 8 ranks"},
		{"short rank", "7/8/8/8/8/8/8/8", "rank 1 has 7 files"},
		{"long rank", "ppppppppp/8/8/8/8/8/8/8", "too many pieces"},
		{"unknown piece", "x7/8/8/8/8/8/8/8", "unknown piece"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlacement(tt.placement)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMoveOverwritesDestination(t *testing.T) {
	b := New()
	rook := core.Piece{Kind: core.KindRook, Color: core.ColorWhite}
	pawn := core.Piece{Kind: core.KindPawn, Color: core.ColorBlack}
	b.Place(0, rook)
	b.Place(40, pawn)

	captured, ok := b.Move(0, 40)
	require.True(t, ok)
	assert.Equal(t, pawn, captured)
	assert.False(t, b.IsOccupied(0))
	p, _ := b.PieceAt(40)
	assert.Equal(t, rook, p)

	_, ok = b.Move(0, 8)
	assert.False(t, ok, "moving from an empty square captures nothing")
	assert.False(t, b.IsOccupied(8))
}

func TestPieceAtOffBoard(t *testing.T) {
	b := NewStarting()
	_, ok := b.PieceAt(-1)
	assert.False(t, ok)
	_, ok = b.PieceAt(64)
	assert.False(t, ok)

	b.Place(64, core.Piece{Kind: core.KindKing, Color: core.ColorWhite})
	assert.Equal(t, StartingPlacement, b.Placement())
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewStarting()
	c := b.Clone()
	c.Remove(4)
	assert.True(t, b.IsOccupied(4))
	assert.False(t, c.IsOccupied(4))
}

func TestSquareShadeAlternates(t *testing.T) {
	assert.Equal(t, ShadeDark, SquareShade(0))
	assert.Equal(t, ShadeLight, SquareShade(1))
	assert.Equal(t, ShadeLight, SquareShade(8))
	assert.Equal(t, ShadeDark, SquareShade(9))
	assert.Equal(t, ShadeDark, SquareShade(63))
	for sq := core.Square(0); sq < core.NumSquares; sq++ {
		if core.FileOf(sq) < 7 {
			assert.NotEqual(t, SquareShade(sq), SquareShade(sq+1), "square %d", sq)
		}
	}
}

func TestToASCII(t *testing.T) {
	lines := strings.Split(NewStarting().ToASCII(), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "8 r n b q k b n r  8", lines[1])
	assert.Equal(t, "5 . . . . . . . .  5", lines[4])
	assert.Equal(t, "1 R N B Q K B N R  1", lines[8])
}
