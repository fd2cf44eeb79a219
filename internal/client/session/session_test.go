package session

import (
	"bytes"
	"testing"

	"dragchess/internal/client/api"

	"github.com/stretchr/testify/assert"
)

func TestPlayerColor(t *testing.T) {
	s := New("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", s.APIBaseURL)
	assert.Empty(t, s.PlayerColor())

	s.SetAuth(&api.AuthResponse{Token: "tok", UserID: "u1", Username: "alice"})
	assert.Equal(t, "tok", s.Client.AuthToken)

	s.SetGame(&api.GameResponse{
		GameID: "g1",
		Players: api.Players{
			White: &api.Player{ID: "p1", Color: 1},
			Black: &api.Player{ID: "p2", Color: 2, UserID: "u1"},
		},
	})
	assert.Equal(t, "b", s.PlayerColor())

	id, err := s.RequireGame()
	assert.NoError(t, err)
	assert.Equal(t, "g1", id)

	s.SetBaseURL("http://other:9090")
	assert.Empty(t, s.CurrentGame)
	assert.Empty(t, s.Client.AuthToken)
	_, err = s.RequireGame()
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	s := New("http://localhost:8080")
	out := &bytes.Buffer{}
	s.SetOutput(out)
	s.ReadLine = func(prompt string) (string, error) {
		out.WriteString(prompt)
		return "  alice \n", nil
	}

	got, err := s.Prompt("name: ")
	assert.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "name: ", out.String())
}
