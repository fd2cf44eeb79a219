// Package main implements an interactive terminal client for the chess server API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"dragchess/internal/client/commands"
	"dragchess/internal/client/display"
	"dragchess/internal/client/session"

	"github.com/chzyer/readline"
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080", "Chess server API base URL")
	flag.Parse()

	s := session.New(*apiURL)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chess_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	// readline owns the terminal, route prompts through it
	s.ReadLine = func(prompt string) (string, error) {
		rl.SetPrompt(prompt)
		return rl.Readline()
	}
	s.ReadPassword = func(prompt string) (string, error) {
		pw, err := rl.ReadPassword(prompt)
		return string(pw), err
	}

	fmt.Printf("%sChess Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		if err := registry.Execute(line); errors.Is(err, commands.ErrExit) {
			break
		}
	}
}

func buildPrompt(s *session.Session) string {
	var parts []string

	if s.Username != "" {
		parts = append(parts, display.Paint(display.Magenta, s.Username))
	}
	if s.CurrentGame != "" {
		id := s.CurrentGame
		if len(id) > 8 {
			id = id[:8]
		}
		parts = append(parts, display.Paint(display.White, id))
	}
	switch s.PlayerColor() {
	case "w":
		parts = append(parts, display.Paint(display.Blue, "White"))
	case "b":
		parts = append(parts, display.Paint(display.Red, "Black"))
	}

	promptStr := "chess"
	if len(parts) > 0 {
		promptStr += display.Yellow + " [" + display.Reset + strings.Join(parts, display.Yellow+" - "+display.Reset) + display.Yellow + "]"
	}

	if s.Game != nil {
		if s.Game.State != "ongoing" {
			promptStr += " - " + display.Paint(display.Magenta, s.Game.State)
		} else {
			promptStr += " - Turn:" + display.ColorForTurn(s.Game.Turn)
		}
	}

	return display.Prompt(promptStr)
}
