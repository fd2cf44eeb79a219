package core

import "fmt"

// BoardWidth is the number of files (and ranks) on the board
const BoardWidth = 8

// NumSquares is the total number of squares
const NumSquares = BoardWidth * BoardWidth

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the long color name used in UI messages
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorBlack:
		return "black"
	default:
		return "none"
	}
}

func (c Color) Valid() bool {
	return c == ColorWhite || c == ColorBlack
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "w", "b", "white" or "black"
func ParseColor(s string) (Color, error) {
	switch s {
	case "w", "white":
		return ColorWhite, nil
	case "b", "black":
		return ColorBlack, nil
	default:
		return 0, fmt.Errorf("invalid color: %q", s)
	}
}

type PieceKind byte

const (
	KindNone PieceKind = iota
	KindPawn
	KindKnight
	KindBishop
	KindRook
	KindQueen
	KindKing
)

var kindNames = [...]string{
	KindNone:   "",
	KindPawn:   "pawn",
	KindKnight: "knight",
	KindBishop: "bishop",
	KindRook:   "rook",
	KindQueen:  "queen",
	KindKing:   "king",
}

// Lowercase symbols, uppercased for white
var kindSymbols = [...]byte{
	KindNone:   0,
	KindPawn:   'p',
	KindKnight: 'n',
	KindBishop: 'b',
	KindRook:   'r',
	KindQueen:  'q',
	KindKing:   'k',
}

func (k PieceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a piece name to its kind, KindNone if unrecognized
func ParseKind(name string) PieceKind {
	for k, n := range kindNames {
		if n != "" && n == name {
			return PieceKind(k)
		}
	}
	return KindNone
}

// Piece is a colored chess man; its color never changes once placed
type Piece struct {
	Kind  PieceKind `json:"kind"`
	Color Color     `json:"color"`
}

// Symbol returns the FEN-style letter, uppercase for white
func (p Piece) Symbol() byte {
	if int(p.Kind) >= len(kindSymbols) {
		return '?'
	}
	s := kindSymbols[p.Kind]
	if s != 0 && p.Color == ColorWhite {
		s -= 'a' - 'A'
	}
	return s
}

func (p Piece) String() string {
	return p.Color.Name() + " " + p.Kind.String()
}

// PieceFromSymbol is the inverse of Piece.Symbol
func PieceFromSymbol(ch byte) (Piece, bool) {
	color := ColorBlack
	if ch >= 'A' && ch <= 'Z' {
		color = ColorWhite
		ch += 'a' - 'A'
	}
	for k, s := range kindSymbols {
		if s != 0 && s == ch {
			return Piece{Kind: PieceKind(k), Color: color}, true
		}
	}
	return Piece{}, false
}

// Square indexes the board row by row from the top-left corner
type Square int

const NoSquare Square = -1

func (s Square) Valid() bool {
	return s >= 0 && s < NumSquares
}

func FileOf(s Square) int {
	return int(s) % BoardWidth
}

func RankOf(s Square) int {
	return int(s) / BoardWidth
}

// SquareAt returns NoSquare for coordinates off the board
func SquareAt(file, rank int) Square {
	if file < 0 || file >= BoardWidth || rank < 0 || rank >= BoardWidth {
		return NoSquare
	}
	return Square(rank*BoardWidth + file)
}

// Orientation is the perspective the board is presented in
type Orientation int

const (
	OrientationNormal Orientation = iota
	OrientationFlipped
)

func (o Orientation) String() string {
	if o == OrientationFlipped {
		return "flipped"
	}
	return "normal"
}

func (o Orientation) Toggle() Orientation {
	if o == OrientationFlipped {
		return OrientationNormal
	}
	return OrientationFlipped
}

// Remap converts between board and view square ids. Applying it twice
// yields the original square.
func (o Orientation) Remap(s Square) Square {
	if o == OrientationFlipped {
		return NumSquares - 1 - s
	}
	return s
}

// Outcome is derived from the board after every move
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeWhiteWins
	OutcomeBlackWins
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomeWhiteWins:
		return "white wins"
	case OutcomeBlackWins:
		return "black wins"
	default:
		return "unknown"
	}
}

func (o Outcome) IsTerminal() bool {
	return o == OutcomeWhiteWins || o == OutcomeBlackWins
}

// Winner returns 0 while the game is ongoing
func (o Outcome) Winner() Color {
	switch o {
	case OutcomeWhiteWins:
		return ColorWhite
	case OutcomeBlackWins:
		return ColorBlack
	default:
		return 0
	}
}

// Banner is the text shown once the game is decided
func (o Outcome) Banner() string {
	switch o {
	case OutcomeWhiteWins:
		return "White Player Wins!"
	case OutcomeBlackWins:
		return "Black Player Wins!"
	default:
		return ""
	}
}
