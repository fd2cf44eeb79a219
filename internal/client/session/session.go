// Package session holds the terminal client's state between commands.
package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"dragchess/internal/client/api"

	"golang.org/x/term"
)

type Session struct {
	APIBaseURL  string
	Client      *api.Client
	Verbose     bool
	Out         io.Writer
	CurrentGame string
	Game        *api.GameResponse
	UserID      string
	Username    string
	AuthToken   string

	// ReadLine reads one line of input after printing prompt
	ReadLine func(prompt string) (string, error)
	// ReadPassword reads a secret without echo
	ReadPassword func(prompt string) (string, error)
}

// New creates a session talking to baseURL on the process's terminal
func New(baseURL string) *Session {
	s := &Session{
		Client: api.New(baseURL),
		Out:    os.Stdout,
	}
	s.APIBaseURL = s.Client.BaseURL
	in := bufio.NewReader(os.Stdin)
	s.ReadLine = func(prompt string) (string, error) {
		fmt.Fprint(s.Out, prompt)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return line, nil
	}
	s.ReadPassword = func(prompt string) (string, error) {
		fmt.Fprint(s.Out, prompt)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(s.Out)
		return string(pw), err
	}
	return s
}

// SetBaseURL points the session at another server and forgets its state
func (s *Session) SetBaseURL(url string) {
	s.Client.SetBaseURL(url)
	s.APIBaseURL = s.Client.BaseURL
	s.ClearGame()
	s.ClearAuth()
}

// SetOutput redirects both command and request output
func (s *Session) SetOutput(w io.Writer) {
	s.Out = w
	s.Client.Out = w
}

// Prompt prints a question and reads one trimmed line
func (s *Session) Prompt(question string) (string, error) {
	line, err := s.ReadLine(question)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) SetAuth(resp *api.AuthResponse) {
	s.AuthToken = resp.Token
	s.UserID = resp.UserID
	s.Username = resp.Username
	s.Client.SetToken(resp.Token)
}

func (s *Session) ClearAuth() {
	s.AuthToken = ""
	s.UserID = ""
	s.Username = ""
	s.Client.SetToken("")
}

func (s *Session) SetGame(g *api.GameResponse) {
	s.CurrentGame = g.GameID
	s.Game = g
}

func (s *Session) ClearGame() {
	s.CurrentGame = ""
	s.Game = nil
}

// RequireGame returns the current game ID or an error if there is none
func (s *Session) RequireGame() (string, error) {
	if s.CurrentGame == "" {
		return "", fmt.Errorf("no current game, use 'new' or 'join'")
	}
	return s.CurrentGame, nil
}

// PlayerColor returns the color the logged-in user holds in the current game
func (s *Session) PlayerColor() string {
	if s.Game == nil || s.UserID == "" {
		return ""
	}
	if p := s.Game.Players.White; p != nil && p.UserID == s.UserID {
		return "w"
	}
	if p := s.Game.Players.Black; p != nil && p.UserID == s.UserID {
		return "b"
	}
	return ""
}
