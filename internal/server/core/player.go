package core

import (
	"github.com/google/uuid"
)

// Player is one side of a game, optionally claimed by a registered user
type Player struct {
	ID     string `json:"id"`
	Color  Color  `json:"color"`
	UserID string `json:"userId,omitempty"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates an anonymous player for a color
func NewPlayer(color Color) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Color: color,
	}
}

// Claimed reports whether moves for this player require an authenticated user
func (p *Player) Claimed() bool {
	return p != nil && p.UserID != ""
}
