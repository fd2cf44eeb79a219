package commands

import (
	"fmt"
	"strconv"
	"strings"

	"dragchess/internal/client/api"
	"dragchess/internal/client/display"
	"dragchess/internal/client/session"
)

func (r *Registry) registerGameCommands() {
	for _, cmd := range []*Command{
		{Name: "new", ShortName: "n", Description: "Create a new game", Usage: "new [w|b] [placement]", Handler: newGameHandler},
		{Name: "join", ShortName: "j", Description: "Set the current game", Usage: "join <gameId>", Handler: joinGameHandler},
		{Name: "show", ShortName: "s", Description: "Show board and game state", Usage: "show", Handler: showHandler},
		{Name: "move", ShortName: "m", Description: "Move a piece between square indices", Usage: "move <from> <to>", Handler: moveHandler},
		{Name: "targets", ShortName: "t", Description: "List squares a piece can move to", Usage: "targets <from>", Handler: targetsHandler},
		{Name: "watch", ShortName: "w", Description: "Wait for the next move", Usage: "watch", Handler: watchHandler},
		{Name: "claim", ShortName: "c", Description: "Claim a color in the current game", Usage: "claim <w|b>", Handler: claimHandler},
		{Name: "delete", ShortName: "d", Description: "Delete a game", Usage: "delete [gameId]", Handler: deleteGameHandler},
	} {
		cmd.Group = groupGame
		r.Register(cmd)
	}
}

// newGameHandler creates a game. A color argument claims that side and
// needs a login; a placement starts from a custom position.
func newGameHandler(s *session.Session, args []string) error {
	req := &api.CreateGameRequest{}
	for _, arg := range args {
		switch arg {
		case "w", "b", "white", "black":
			req.Color = arg
		default:
			req.Placement = arg
		}
	}

	g, err := s.Client.CreateGame(req)
	if err != nil {
		return err
	}
	s.SetGame(g)

	fmt.Fprintf(s.Out, "%sGame created: %s%s\n", display.Green, g.GameID, display.Reset)
	return printGame(s, g)
}

func joinGameHandler(s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	g, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}
	s.SetGame(g)
	return printGame(s, g)
}

func showHandler(s *session.Session, args []string) error {
	gameID, err := s.RequireGame()
	if err != nil {
		return err
	}

	g, err := s.Client.GetGame(gameID)
	if err != nil {
		return err
	}
	s.SetGame(g)
	return printGame(s, g)
}

func parseSquare(arg string) (int, error) {
	sq, err := strconv.Atoi(arg)
	if err != nil || sq < 0 || sq > 63 {
		return 0, fmt.Errorf("invalid square %q, expected 0-63", arg)
	}
	return sq, nil
}

func moveHandler(s *session.Session, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: move <from> <to>")
	}
	gameID, err := s.RequireGame()
	if err != nil {
		return err
	}
	from, err := parseSquare(args[0])
	if err != nil {
		return err
	}
	to, err := parseSquare(args[1])
	if err != nil {
		return err
	}

	resp, err := s.Client.MakeMove(gameID, from, to)
	if err != nil {
		return err
	}
	s.SetGame(&resp.Game)

	switch resp.Status {
	case "applied":
		line := fmt.Sprintf("Moved %d -> %d", from, to)
		if resp.Captured != "" {
			line += ", captured " + resp.Captured
		}
		fmt.Fprintln(s.Out, display.Paint(display.Green, line))
	case "noop":
		fmt.Fprintln(s.Out, display.Paint(display.Yellow, "Nothing happened"))
	default:
		fmt.Fprintln(s.Out, display.Paint(display.Yellow, "Rejected: "+strings.ReplaceAll(strings.TrimPrefix(resp.Status, "rejected_"), "_", " ")))
	}
	if resp.Message != "" {
		fmt.Fprintln(s.Out, display.Paint(display.Magenta, resp.Message))
	}

	return printGame(s, &resp.Game)
}

func targetsHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: targets <from>")
	}
	gameID, err := s.RequireGame()
	if err != nil {
		return err
	}
	from, err := parseSquare(args[0])
	if err != nil {
		return err
	}

	resp, err := s.Client.GetTargets(gameID, from)
	if err != nil {
		return err
	}

	if len(resp.Targets) == 0 {
		fmt.Fprintf(s.Out, "No moves from %d\n", from)
		return nil
	}
	squares := make([]string, len(resp.Targets))
	for i, t := range resp.Targets {
		squares[i] = strconv.Itoa(t)
	}
	fmt.Fprintf(s.Out, "From %d: %s\n", from, strings.Join(squares, " "))
	return nil
}

// watchHandler blocks until the opponent moves or the server's wait ends
func watchHandler(s *session.Session, args []string) error {
	gameID, err := s.RequireGame()
	if err != nil {
		return err
	}

	plies := 0
	if s.Game != nil {
		plies = s.Game.Plies
	}
	fmt.Fprintln(s.Out, display.Paint(display.Cyan, "Waiting for the next move..."))

	g, err := s.Client.WaitGame(gameID, plies)
	if err != nil {
		return err
	}
	if g.Plies == plies {
		fmt.Fprintln(s.Out, "No move yet")
	}
	s.SetGame(g)
	return printGame(s, g)
}

func claimHandler(s *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: claim <w|b>")
	}
	gameID, err := s.RequireGame()
	if err != nil {
		return err
	}

	g, err := s.Client.ClaimSlot(gameID, args[0])
	if err != nil {
		return err
	}
	s.SetGame(g)
	fmt.Fprintf(s.Out, "%sYou play %s%s\n", display.Green, args[0], display.Reset)
	return nil
}

func deleteGameHandler(s *session.Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return fmt.Errorf("usage: delete [gameId]")
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}
	if gameID == s.CurrentGame {
		s.ClearGame()
	}
	fmt.Fprintf(s.Out, "%sGame deleted: %s%s\n", display.Green, gameID, display.Reset)
	return nil
}

func printGame(s *session.Session, g *api.GameResponse) error {
	if s.Verbose {
		display.PrettyPrintJSON(s.Out, g)
	}
	if err := display.RenderBoard(s.Out, g.Placement, g.Orientation == "flipped"); err != nil {
		return err
	}

	if g.Banner != "" {
		fmt.Fprintln(s.Out, display.Paint(display.Magenta, g.Banner))
		return nil
	}
	fmt.Fprintf(s.Out, "Turn: %s  Plies: %d\n", display.ColorForTurn(g.Turn), g.Plies)
	if g.LastMove != nil {
		fmt.Fprintf(s.Out, "Last: %s %d -> %d\n", g.LastMove.Kind, g.LastMove.From, g.LastMove.To)
	}
	return nil
}
