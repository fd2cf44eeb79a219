package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/apex/log"

	"dragchess/internal/server/board"
	"dragchess/internal/server/core"
	"dragchess/internal/server/game"
	"dragchess/internal/server/service"
)

const (
	queueSize       = 128
	shutdownTimeout = 5 * time.Second
)

// Processor handles command execution. Every command runs on the queue's
// single worker, so sessions are only ever touched by one goroutine.
type Processor struct {
	svc   *service.Service
	queue *CommandQueue
}

// New creates a processor and starts its worker
func New(svc *service.Service) *Processor {
	p := &Processor{svc: svc}
	p.queue = NewCommandQueue(queueSize, p.dispatch)
	return p
}

// Execute runs a command and waits for its response
func (p *Processor) Execute(cmd Command) ProcessorResponse {
	return p.ExecuteContext(context.Background(), cmd)
}

// ExecuteContext runs a command, giving up when ctx is done
func (p *Processor) ExecuteContext(ctx context.Context, cmd Command) ProcessorResponse {
	resp, err := p.queue.Submit(ctx, cmd)
	if err != nil {
		return p.errorResponse(fmt.Sprintf("command not processed: %v", err), core.ErrInternalError)
	}
	return resp
}

func (p *Processor) dispatch(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdGetTargets:
		return p.handleGetTargets(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdClaimSlot:
		return p.handleClaimSlot(cmd)
	case CmdExpireGames:
		return p.handleExpireGames(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// isPlacementSafe rejects control characters before parsing
func (p *Processor) isPlacementSafe(placement string) bool {
	for _, r := range placement {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// handleCreateGame creates a session, optionally claiming a color for the creator
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b := board.NewStarting()
	if placement := strings.TrimSpace(args.Placement); placement != "" {
		if !p.isPlacementSafe(placement) {
			return p.errorResponse("invalid placement characters", core.ErrInvalidPlacement)
		}
		parsed, err := board.ParsePlacement(placement)
		if err != nil {
			return p.errorResponse(fmt.Sprintf("invalid placement: %v", err), core.ErrInvalidPlacement)
		}
		b = parsed
	}

	starting := game.StartingColor
	if args.StartingColor != "" {
		c, err := core.ParseColor(args.StartingColor)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidRequest)
		}
		starting = c
	}

	var claim core.Color
	if args.Color != "" {
		if cmd.UserID == "" {
			return p.errorResponse("claiming a color requires login", core.ErrUnauthorized)
		}
		c, err := core.ParseColor(args.Color)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidRequest)
		}
		claim = c
	}

	g := game.New(p.svc.GenerateGameID(), b, starting,
		core.NewPlayer(core.ColorWhite), core.NewPlayer(core.ColorBlack))
	if claim.Valid() {
		if err := g.ClaimSlot(claim, cmd.UserID); err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidRequest)
		}
	}

	if err := p.svc.CreateGame(g); err != nil {
		if errors.Is(err, service.ErrGameLimit) {
			return p.errorResponse("too many active games", core.ErrResourceLimit)
		}
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(g),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(g),
	}
}

// handleDeleteGame removes a game; claimed games only by one of their players
func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	white, black := g.SlotOwner(core.ColorWhite), g.SlotOwner(core.ColorBlack)
	if (white != "" || black != "") && cmd.UserID != white && cmd.UserID != black {
		return p.errorResponse("only a player of this game can delete it", core.ErrUnauthorized)
	}

	if err = p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleMakeMove classifies a drop and applies it when legal. Rejections
// and no-ops are successful responses carrying a status, not errors.
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok || args.From == nil || args.To == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	// A finished game answers every drop with a no-op, owner or not
	if next := g.NextPlayer(); !g.Outcome().IsTerminal() && next.Claimed() && next.UserID != cmd.UserID {
		return p.errorResponse(fmt.Sprintf("%s is claimed by another user", next.Color.Name()), core.ErrUnauthorized)
	}

	origin, dest := core.Square(*args.From), core.Square(*args.To)
	if !origin.Valid() || !dest.Valid() {
		return p.errorResponse("square out of range", core.ErrInvalidMove)
	}

	mover := g.ActiveColor()
	req := game.NewMoveRequest(g.Board(), origin, dest)
	if args.Kind != "" {
		req.Kind = core.ParseKind(args.Kind)
	}
	result := g.RequestMove(req)

	resp := core.MoveResponse{
		Status:  result.Status.String(),
		Message: result.Message(),
	}
	if result.Captured != nil {
		resp.Captured = result.Captured.String()
	}

	entry := log.WithFields(log.Fields{
		"game":   cmd.GameID,
		"from":   int(origin),
		"to":     int(dest),
		"status": resp.Status,
	})
	if result.Status == game.StatusApplied {
		p.svc.NotifyMove(cmd.GameID, g.Plies())
		entry = entry.WithField("color", mover.Name())
		if outcome := g.Outcome(); outcome.IsTerminal() {
			entry.WithField("winner", outcome.Winner().Name()).Info("game finished")
		} else {
			entry.Debug("move applied")
		}
	} else {
		entry.Debug("move not applied")
	}

	resp.Game = p.buildGameResponse(g)
	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleGetTargets lists destinations that would be applied from a square
func (p *Processor) handleGetTargets(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(TargetsArgs)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	from := core.Square(args.From)
	if !from.Valid() {
		return p.errorResponse("square out of range", core.ErrInvalidRequest)
	}

	targets := make([]int, 0)
	for _, sq := range g.Targets(from) {
		targets = append(targets, int(sq))
	}

	return ProcessorResponse{
		Success: true,
		Data: core.TargetsResponse{
			From:    args.From,
			Targets: targets,
		},
	}
}

// handleGetBoard returns the board with per-square shades
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	b := g.Board()
	squares := make([]core.SquareView, 0, core.NumSquares)
	for i := 0; i < core.NumSquares; i++ {
		sq := core.Square(i)
		view := core.SquareView{
			Square: i,
			Shade:  board.SquareShade(sq),
		}
		if piece, ok := b.PieceAt(sq); ok {
			view.Kind = piece.Kind.String()
			view.Color = piece.Color.String()
		}
		squares = append(squares, view)
	}

	return ProcessorResponse{
		Success: true,
		Data: core.BoardResponse{
			Placement:   b.Placement(),
			Board:       b.ToASCII(),
			Orientation: g.Orientation().String(),
			Squares:     squares,
		},
	}
}

func (p *Processor) handleClaimSlot(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ClaimRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}
	if cmd.UserID == "" {
		return p.errorResponse("claiming a color requires login", core.ErrUnauthorized)
	}

	color, err := core.ParseColor(args.Color)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	if err = p.svc.ClaimGameSlot(cmd.GameID, color, cmd.UserID); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return p.errorResponse("game not found", core.ErrGameNotFound)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(g),
	}
}

func (p *Processor) handleExpireGames(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(ExpireArgs)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.svc.ExpireIdleGames(args.Cutoff),
	}
}

// RunExpiryJob drops games idle longer than ttl, checking every interval
func (p *Processor) RunExpiryJob(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resp := p.ExecuteContext(ctx, NewExpireGamesCommand(time.Now().UTC().Add(-ttl)))
			if !resp.Success && ctx.Err() == nil {
				log.WithField("error", resp.Error.Error).Warn("game expiry failed")
			}
		}
	}
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(g *game.Session) core.GameResponse {
	outcome := g.Outcome()
	resp := core.GameResponse{
		GameID:      g.ID(),
		Placement:   g.Board().Placement(),
		Turn:        g.ActiveColor().String(),
		Orientation: g.Orientation().String(),
		State:       outcome.String(),
		Banner:      outcome.Banner(),
		Plies:       g.Plies(),
		Players: core.PlayersResponse{
			White: g.Player(core.ColorWhite),
			Black: g.Player(core.ColorBlack),
		},
	}

	if last := g.LastMove(); last != nil {
		resp.LastMove = &core.MoveInfo{
			From:        int(last.From),
			To:          int(last.To),
			Kind:        last.Piece.Kind.String(),
			PlayerColor: last.Piece.Color.String(),
		}
		if last.Captured != nil {
			resp.LastMove.Captured = last.Captured.String()
		}
	}

	return resp
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the worker
func (p *Processor) Close() error {
	return p.queue.Shutdown(shutdownTimeout)
}
