package api

import "time"

// Wire types of the chess server's REST API

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Games   int    `json:"games"`
	Storage string `json:"storage"`
}

type CreateGameRequest struct {
	Color         string `json:"color,omitempty"`
	Placement     string `json:"placement,omitempty"`
	StartingColor string `json:"startingColor,omitempty"`
}

type MoveRequest struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Kind string `json:"kind,omitempty"`
}

type ClaimRequest struct {
	Color string `json:"color"`
}

type Player struct {
	ID     string `json:"id"`
	Color  int    `json:"color"`
	UserID string `json:"userId,omitempty"`
}

type Players struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

type MoveInfo struct {
	From        int    `json:"from"`
	To          int    `json:"to"`
	Kind        string `json:"kind"`
	PlayerColor string `json:"playerColor"`
	Captured    string `json:"captured,omitempty"`
}

type GameResponse struct {
	GameID      string    `json:"gameId"`
	Placement   string    `json:"placement"`
	Turn        string    `json:"turn"`
	Orientation string    `json:"orientation"`
	State       string    `json:"state"`
	Banner      string    `json:"banner,omitempty"`
	Plies       int       `json:"plies"`
	Players     Players   `json:"players"`
	LastMove    *MoveInfo `json:"lastMove,omitempty"`
}

type MoveResponse struct {
	Status   string       `json:"status"`
	Message  string       `json:"message,omitempty"`
	Captured string       `json:"captured,omitempty"`
	Game     GameResponse `json:"game"`
}

type TargetsResponse struct {
	From    int   `json:"from"`
	Targets []int `json:"targets"`
}

type SquareView struct {
	Square int    `json:"square"`
	Kind   string `json:"kind,omitempty"`
	Color  string `json:"color,omitempty"`
	Shade  string `json:"shade"`
}

type BoardResponse struct {
	Placement   string       `json:"placement"`
	Board       string       `json:"board"`
	Orientation string       `json:"orientation"`
	Squares     []SquareView `json:"squares"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
