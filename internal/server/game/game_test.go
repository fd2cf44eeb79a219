package game

import (
	"testing"

	"dragchess/internal/server/board"
	"dragchess/internal/server/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpeningDoubleStepScenario(t *testing.T) {
	s := NewStandard("g1")
	require.Equal(t, core.ColorBlack, s.ActiveColor())

	result := s.Move(8, 24)
	require.Equal(t, StatusApplied, result.Status)
	assert.Nil(t, result.Captured)

	b := s.Board()
	p, ok := b.PieceAt(24)
	require.True(t, ok)
	assert.Equal(t, core.Piece{Kind: core.KindPawn, Color: core.ColorBlack}, p)
	assert.False(t, b.IsOccupied(8))
	assert.Equal(t, core.ColorWhite, s.ActiveColor())
	assert.Equal(t, 1, s.Plies())
	assert.Equal(t, core.OutcomeOngoing, s.Outcome())
}

func TestTurnTogglesOnlyWhenApplied(t *testing.T) {
	tests := []struct {
		name   string
		origin core.Square
		dest   core.Square
		want   MoveStatus
	}{
		{"own piece blocked", 0, 8, StatusRejectedOwnPieceBlocked},
		{"illegal shape", 8, 32, StatusRejectedIllegalShape},
		{"opponent piece", 48, 40, StatusNoOp},
		{"empty origin", 30, 22, StatusNoOp},
		{"same square", 8, 8, StatusNoOp},
		{"off board", 8, 64, StatusNoOp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStandard("g1")
			before := s.Board().Placement()

			result := s.Move(tt.origin, tt.dest)
			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, core.ColorBlack, s.ActiveColor())
			assert.Equal(t, core.OrientationNormal, s.Orientation())
			assert.Equal(t, before, s.Board().Placement())
			assert.Zero(t, s.Plies())
		})
	}
}

func TestOwnPieceBlockedMessage(t *testing.T) {
	s := NewStandard("g1")
	result := s.Move(1, 11)
	assert.Equal(t, StatusRejectedOwnPieceBlocked, result.Status)
	assert.Equal(t, MsgOwnPieceBlocked, result.Message())
	assert.Empty(t, MoveResult{Status: StatusRejectedIllegalShape}.Message())
}

func TestAlternationAndOrientation(t *testing.T) {
	s := NewStandard("g1")
	moves := []struct {
		from, to core.Square
		mover    core.Color
	}{
		{12, 28, core.ColorBlack},
		{51, 35, core.ColorWhite},
		{28, 35, core.ColorBlack}, // pawn takes pawn
		{59, 35, core.ColorWhite}, // queen takes back
	}
	for i, m := range moves {
		require.Equal(t, m.mover, s.ActiveColor(), "move %d", i)
		result := s.Move(m.from, m.to)
		require.Equal(t, StatusApplied, result.Status, "move %d", i)
		assert.Equal(t, core.OppositeColor(m.mover), s.ActiveColor())
	}
	assert.Equal(t, 4, s.Plies())
	assert.Equal(t, core.OrientationNormal, s.Orientation())

	last := s.LastMove()
	require.NotNil(t, last)
	assert.Equal(t, core.Square(59), last.From)
	assert.Equal(t, core.Piece{Kind: core.KindQueen, Color: core.ColorWhite}, last.Piece)
	require.NotNil(t, last.Captured)
	assert.Equal(t, core.Piece{Kind: core.KindPawn, Color: core.ColorBlack}, *last.Captured)
}

func TestCaptureReportsPiece(t *testing.T) {
	b, err := board.ParsePlacement("4k3/8/8/8/8/8/3p4/4K3")
	require.NoError(t, err)
	s := New("g1", b, core.ColorWhite, core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))

	result := s.Move(60, 51)
	require.Equal(t, StatusApplied, result.Status)
	require.NotNil(t, result.Captured)
	assert.Equal(t, core.Piece{Kind: core.KindPawn, Color: core.ColorBlack}, *result.Captured)
}

func TestKingCaptureFreezesGame(t *testing.T) {
	// Black rook on the white king's file with nothing in between
	b, err := board.ParsePlacement("4k3/8/8/8/4r3/8/8/4K3")
	require.NoError(t, err)
	s := New("g1", b, core.ColorBlack, core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))

	result := s.Move(36, 60)
	require.Equal(t, StatusApplied, result.Status)
	require.NotNil(t, result.Captured)
	assert.Equal(t, core.KindKing, result.Captured.Kind)
	assert.Equal(t, core.OutcomeBlackWins, s.Outcome())
	assert.Equal(t, "Black Player Wins!", s.Outcome().Banner())
	assert.Equal(t, core.ColorWhite, s.ActiveColor(), "turn still flips on the winning move")

	frozen := s.Board().Placement()
	for origin := core.Square(0); origin < core.NumSquares; origin++ {
		for dest := core.Square(0); dest < core.NumSquares; dest++ {
			assert.Equal(t, StatusNoOp, s.Move(origin, dest).Status)
		}
	}
	assert.Equal(t, frozen, s.Board().Placement())
	assert.Equal(t, core.ColorWhite, s.ActiveColor())
	assert.Empty(t, s.Targets(4))
}

func TestStaleRequestIsNoOp(t *testing.T) {
	s := NewStandard("g1")

	req := NewMoveRequest(board.New(), 8, 24)
	assert.Equal(t, StatusNoOp, s.RequestMove(req).Status, "kind missing from the request")

	req = MoveRequest{Kind: core.KindPawn, Origin: 8, Destination: 16, DestinationOccupied: true, DestinationOwner: core.ColorWhite}
	assert.Equal(t, StatusNoOp, s.RequestMove(req).Status, "flags disagree with the board")

	req = MoveRequest{Kind: core.KindQueen, Origin: 8, Destination: 16}
	assert.Equal(t, StatusNoOp, s.RequestMove(req).Status, "kind disagrees with the board")

	assert.Zero(t, s.Plies())
}

func TestClassifyDoesNotMutate(t *testing.T) {
	s := NewStandard("g1")
	result := s.Classify(NewMoveRequest(s.Board(), 8, 24))
	assert.Equal(t, StatusApplied, result.Status)
	assert.Equal(t, board.StartingPlacement, s.Board().Placement())
	assert.Equal(t, core.ColorBlack, s.ActiveColor())
}

func TestSessionTargetsFilterOwnPieces(t *testing.T) {
	s := NewStandard("g1")
	assert.ElementsMatch(t, []core.Square{16, 18}, s.Targets(1))
	assert.Empty(t, s.Targets(0))
	assert.Empty(t, s.Targets(57), "white knight cannot move on black's turn")
}

func TestBoardAccessorReturnsCopy(t *testing.T) {
	s := NewStandard("g1")
	s.Board().Remove(4)
	assert.Equal(t, core.OutcomeOngoing, s.Outcome())
}

func TestClaimSlot(t *testing.T) {
	s := NewStandard("g1")
	require.NoError(t, s.ClaimSlot(core.ColorWhite, "u1"))
	require.NoError(t, s.ClaimSlot(core.ColorWhite, "u1"))
	assert.Error(t, s.ClaimSlot(core.ColorWhite, "u2"))
	assert.Equal(t, "u1", s.SlotOwner(core.ColorWhite))
	assert.Empty(t, s.SlotOwner(core.ColorBlack))
	assert.Error(t, s.ClaimSlot(core.Color(9), "u1"))
}

func TestPlayerAccessorsReturnCopies(t *testing.T) {
	s := NewStandard("g1")
	next := s.NextPlayer()
	require.NotNil(t, next)
	assert.Equal(t, core.ColorBlack, next.Color)

	next.UserID = "u1"
	assert.False(t, s.Player(core.ColorBlack).Claimed())

	require.NoError(t, s.ClaimSlot(core.ColorBlack, "u2"))
	assert.True(t, s.NextPlayer().Claimed())
	assert.Equal(t, "u2", s.Player(core.ColorBlack).UserID)
	assert.Nil(t, s.Player(core.Color(9)))
}

func TestTurnAdvance(t *testing.T) {
	turn := NewTurn(core.ColorBlack)
	assert.Equal(t, core.OrientationNormal, turn.Orientation())
	turn.Advance()
	assert.Equal(t, core.ColorWhite, turn.Active())
	assert.Equal(t, core.OrientationFlipped, turn.Orientation())
	assert.Equal(t, core.Square(63), turn.Orientation().Remap(0))
	turn.Advance()
	assert.Equal(t, core.ColorBlack, turn.Active())
	assert.Equal(t, core.Square(0), turn.Orientation().Remap(0))

	assert.Equal(t, core.OrientationFlipped, NewTurn(core.ColorWhite).Orientation())
}
