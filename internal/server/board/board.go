package board

import (
	"fmt"
	"strings"

	"dragchess/internal/server/core"
)

const (
	// StartingPlacement has black on the top two ranks, white on the bottom two
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
)

// Square shades of the original board styling
const (
	ShadeDark  = "charcoal-grey"
	ShadeLight = "copper"
)

// Board holds piece placement over the 64 squares. It performs no
// legality checks.
type Board struct {
	squares [core.NumSquares]core.Piece
}

// New returns an empty board
func New() *Board {
	return &Board{}
}

// NewStarting returns a board in the standard starting layout
func NewStarting() *Board {
	b, err := ParsePlacement(StartingPlacement)
	if err != nil {
		panic(fmt.Sprintf("board: starting placement: %v", err))
	}
	return b
}

// ParsePlacement reads a FEN piece-placement field. The first rank listed
// holds squares 0-7.
func ParsePlacement(placement string) (*Board, error) {
	ranks := strings.Split(placement, "/")
	if len(ranks) != core.BoardWidth {
		return nil, fmt.Errorf("invalid placement: expected %d ranks, got %d", core.BoardWidth, len(ranks))
	}

	b := &Board{}
	for r, row := range ranks {
		file := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= core.BoardWidth {
				return nil, fmt.Errorf("invalid placement: too many pieces in rank %d", r+1)
			}
			piece, ok := core.PieceFromSymbol(ch)
			if !ok {
				return nil, fmt.Errorf("invalid placement: unknown piece %q", ch)
			}
			b.squares[core.SquareAt(file, r)] = piece
			file++
		}
		if file != core.BoardWidth {
			return nil, fmt.Errorf("invalid placement: rank %d has %d files", r+1, file)
		}
	}

	return b, nil
}

// Placement serializes the board in the ParsePlacement format
func (b *Board) Placement() string {
	var sb strings.Builder
	for r := 0; r < core.BoardWidth; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 0; f < core.BoardWidth; f++ {
			p := b.squares[core.SquareAt(f, r)]
			if p.Kind == core.KindNone {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Symbol())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// PieceAt returns the piece on a square, false if empty or off the board
func (b *Board) PieceAt(sq core.Square) (core.Piece, bool) {
	if !sq.Valid() {
		return core.Piece{}, false
	}
	p := b.squares[sq]
	return p, p.Kind != core.KindNone
}

func (b *Board) IsOccupied(sq core.Square) bool {
	_, ok := b.PieceAt(sq)
	return ok
}

// Place puts a piece on a square, replacing any occupant
func (b *Board) Place(sq core.Square, p core.Piece) {
	if !sq.Valid() {
		return
	}
	b.squares[sq] = p
}

// Remove clears a square and returns what was on it
func (b *Board) Remove(sq core.Square) (core.Piece, bool) {
	p, ok := b.PieceAt(sq)
	if ok {
		b.squares[sq] = core.Piece{}
	}
	return p, ok
}

// Move relocates the origin piece, overwriting whatever occupied the
// destination. The overwritten piece is returned.
func (b *Board) Move(origin, dest core.Square) (captured core.Piece, ok bool) {
	p, found := b.PieceAt(origin)
	if !found || !dest.Valid() || origin == dest {
		return core.Piece{}, false
	}
	captured, ok = b.Remove(dest)
	b.squares[origin] = core.Piece{}
	b.squares[dest] = p
	return captured, ok
}

// Contains reports whether any square holds the given piece
func (b *Board) Contains(p core.Piece) bool {
	for _, sq := range b.squares {
		if sq == p {
			return true
		}
	}
	return false
}

// Clone returns an independent copy
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// SquareShade returns the styling class for a square
func SquareShade(sq core.Square) string {
	i := int(sq)
	row := (core.NumSquares-1-i)/core.BoardWidth + 1
	even := i%2 == 0
	if row%2 == 0 {
		if even {
			return ShadeDark
		}
		return ShadeLight
	}
	if even {
		return ShadeLight
	}
	return ShadeDark
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < core.BoardWidth; r++ {
		sb.WriteString(fmt.Sprintf("%d ", core.BoardWidth-r))
		for f := 0; f < core.BoardWidth; f++ {
			piece, ok := b.PieceAt(core.SquareAt(f, r))
			if !ok {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece.Symbol()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", core.BoardWidth-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
