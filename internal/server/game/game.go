package game

import (
	"fmt"
	"time"

	"dragchess/internal/server/board"
	"dragchess/internal/server/core"
	"dragchess/internal/server/engine"
)

// StartingColor moves first in a new game
const StartingColor = core.ColorBlack

// MsgOwnPieceBlocked is the transient notice for dropping onto one's own piece
const MsgOwnPieceBlocked = "you cannot go here!"

// MoveStatus classifies a move request
type MoveStatus int

const (
	StatusNoOp MoveStatus = iota
	StatusApplied
	StatusRejectedOwnPieceBlocked
	StatusRejectedIllegalShape
)

func (s MoveStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusRejectedOwnPieceBlocked:
		return "rejected_own_piece_blocked"
	case StatusRejectedIllegalShape:
		return "rejected_illegal_shape"
	default:
		return "noop"
	}
}

// MoveRequest is a proposed relocation as seen by the UI at drop time
type MoveRequest struct {
	Kind                core.PieceKind
	Origin              core.Square
	Destination         core.Square
	DestinationOccupied bool
	DestinationOwner    core.Color
}

// NewMoveRequest builds a request from the board the UI is rendering
func NewMoveRequest(b *board.Board, origin, dest core.Square) MoveRequest {
	req := MoveRequest{Origin: origin, Destination: dest}
	if p, ok := b.PieceAt(origin); ok {
		req.Kind = p.Kind
	}
	if p, ok := b.PieceAt(dest); ok {
		req.DestinationOccupied = true
		req.DestinationOwner = p.Color
	}
	return req
}

// MoveResult tracks the outcome of a move request
type MoveResult struct {
	Status   MoveStatus
	Captured *core.Piece
}

// Message returns the transient notice the UI shows, if any
func (r MoveResult) Message() string {
	if r.Status == StatusRejectedOwnPieceBlocked {
		return MsgOwnPieceBlocked
	}
	return ""
}

// LastMove describes the most recent applied move
type LastMove struct {
	From     core.Square
	To       core.Square
	Piece    core.Piece
	Captured *core.Piece
}

// Session is one game: its board, turn state and players. A Session is
// not safe for concurrent use; callers serialize access.
type Session struct {
	id        string
	board     *board.Board
	turn      Turn
	players   map[core.Color]*core.Player
	plies     int
	lastMove  *LastMove
	createdAt time.Time
	touchedAt time.Time
}

// New creates a session over the given board with startingColor to move
func New(id string, b *board.Board, startingColor core.Color, whitePlayer, blackPlayer *core.Player) *Session {
	now := time.Now().UTC()
	return &Session{
		id:    id,
		board: b,
		turn:  NewTurn(startingColor),
		players: map[core.Color]*core.Player{
			core.ColorWhite: whitePlayer,
			core.ColorBlack: blackPlayer,
		},
		createdAt: now,
		touchedAt: now,
	}
}

// NewStandard creates a session in the starting layout with black to move
func NewStandard(id string) *Session {
	return New(id, board.NewStarting(), StartingColor,
		core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
}

func (s *Session) ID() string {
	return s.id
}

// Board returns a copy of the current board
func (s *Session) Board() *board.Board {
	return s.board.Clone()
}

func (s *Session) ActiveColor() core.Color {
	return s.turn.Active()
}

func (s *Session) Orientation() core.Orientation {
	return s.turn.Orientation()
}

// Outcome is recomputed from the board on every call
func (s *Session) Outcome() core.Outcome {
	return engine.Evaluate(s.board)
}

// Plies counts applied moves
func (s *Session) Plies() int {
	return s.plies
}

func (s *Session) LastMove() *LastMove {
	return s.lastMove
}

// Player returns a copy of the player record for a color, nil if unknown.
// Callers outside the owning goroutine only ever see copies.
func (s *Session) Player(color core.Color) *core.Player {
	p, ok := s.players[color]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// NextPlayer returns a copy of the player whose turn it is
func (s *Session) NextPlayer() *core.Player {
	return s.Player(s.turn.Active())
}

// ClaimSlot binds a color to a registered user
func (s *Session) ClaimSlot(color core.Color, userID string) error {
	p, ok := s.players[color]
	if !ok {
		return fmt.Errorf("invalid color: %v", color)
	}
	if p.Claimed() && p.UserID != userID {
		return fmt.Errorf("%s slot already claimed", color.Name())
	}
	p.UserID = userID
	return nil
}

// SlotOwner returns the user bound to a color, empty if unclaimed
func (s *Session) SlotOwner(color core.Color) string {
	if p, ok := s.players[color]; ok {
		return p.UserID
	}
	return ""
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// IdleSince returns the time of the last applied move or creation
func (s *Session) IdleSince() time.Time {
	return s.touchedAt
}

// Classify decides what RequestMove would do without mutating anything
func (s *Session) Classify(req MoveRequest) MoveResult {
	noop := MoveResult{Status: StatusNoOp}

	if s.Outcome().IsTerminal() {
		return noop
	}
	p, ok := s.board.PieceAt(req.Origin)
	if !ok || p.Color != s.turn.Active() || p.Kind != req.Kind {
		return noop
	}
	if !req.Destination.Valid() || req.Origin == req.Destination {
		return noop
	}

	// A drop computed against a different board is stale
	target, taken := s.board.PieceAt(req.Destination)
	if taken != req.DestinationOccupied || (taken && target.Color != req.DestinationOwner) {
		return noop
	}

	if req.DestinationOccupied && req.DestinationOwner == p.Color {
		return MoveResult{Status: StatusRejectedOwnPieceBlocked}
	}
	if !engine.IsLegal(p, req.Origin, req.Destination, s.board) {
		return MoveResult{Status: StatusRejectedIllegalShape}
	}

	result := MoveResult{Status: StatusApplied}
	if taken {
		result.Captured = &target
	}
	return result
}

// RequestMove applies the move if it classifies as Applied, then hands
// the turn to the other side. Any other result leaves the session as is.
func (s *Session) RequestMove(req MoveRequest) MoveResult {
	result := s.Classify(req)
	if result.Status != StatusApplied {
		return result
	}

	p, _ := s.board.PieceAt(req.Origin)
	s.board.Move(req.Origin, req.Destination)
	s.lastMove = &LastMove{
		From:     req.Origin,
		To:       req.Destination,
		Piece:    p,
		Captured: result.Captured,
	}
	s.plies++
	s.touchedAt = time.Now().UTC()
	s.turn.Advance()

	return result
}

// Move is RequestMove with the request derived from the current board
func (s *Session) Move(origin, dest core.Square) MoveResult {
	return s.RequestMove(NewMoveRequest(s.board, origin, dest))
}

// Targets lists the destinations a move from origin would be applied to
func (s *Session) Targets(origin core.Square) []core.Square {
	var out []core.Square
	for _, sq := range engine.Targets(s.board, origin) {
		if s.Classify(NewMoveRequest(s.board, origin, sq)).Status == StatusApplied {
			out = append(out, sq)
		}
	}
	return out
}
