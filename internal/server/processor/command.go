package processor

import (
	"time"

	"dragchess/internal/server/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdGetTargets
	CmdGetBoard
	CmdClaimSlot
	CmdExpireGames
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	UserID string
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

// TargetsArgs selects the origin square for a targets query
type TargetsArgs struct {
	From int
}

// ExpireArgs drops games idle since before Cutoff
type ExpireArgs struct {
	Cutoff time.Time
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetTargetsCommand(gameID string, from int) Command {
	return Command{
		Type:   CmdGetTargets,
		GameID: gameID,
		Args:   TargetsArgs{From: from},
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewClaimSlotCommand(gameID string, req core.ClaimRequest) Command {
	return Command{
		Type:   CmdClaimSlot,
		GameID: gameID,
		Args:   req,
	}
}

func NewExpireGamesCommand(cutoff time.Time) Command {
	return Command{
		Type: CmdExpireGames,
		Args: ExpireArgs{Cutoff: cutoff},
	}
}
