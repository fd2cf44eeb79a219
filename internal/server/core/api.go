package core

// Request types

type CreateGameRequest struct {
	Color         string `json:"color,omitempty" validate:"omitempty,oneof=w b white black"` // Color claimed by an authenticated creator
	Placement     string `json:"placement,omitempty" validate:"omitempty,max=100"`
	StartingColor string `json:"startingColor,omitempty" validate:"omitempty,oneof=w b white black"`
}

type MoveRequest struct {
	From *int   `json:"from" validate:"required,min=0,max=63"`
	To   *int   `json:"to" validate:"required,min=0,max=63"`
	Kind string `json:"kind,omitempty" validate:"omitempty,oneof=pawn knight bishop rook queen king"` // Must match the origin piece when given
}

type ClaimRequest struct {
	Color string `json:"color" validate:"required,oneof=w b white black"`
}

// Response types

type GameResponse struct {
	GameID      string          `json:"gameId"`
	Placement   string          `json:"placement"`
	Turn        string          `json:"turn"`        // "w" or "b"
	Orientation string          `json:"orientation"` // "normal" or "flipped"
	State       string          `json:"state"`       // "ongoing", "white wins", "black wins"
	Banner      string          `json:"banner,omitempty"`
	Plies       int             `json:"plies"`
	Players     PlayersResponse `json:"players"`
	LastMove    *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	From        int    `json:"from"`
	To          int    `json:"to"`
	Kind        string `json:"kind"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Captured    string `json:"captured,omitempty"`
}

type MoveResponse struct {
	Status   string       `json:"status"`
	Message  string       `json:"message,omitempty"` // Transient UI notice
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
	Board       string       `json:"board"` // ASCII representation
	Orientation string       `json:"orientation"`
	Squares     []SquareView `json:"squares"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
