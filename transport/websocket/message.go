package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	ActionNewGame     = "game:new"
	ActionGetGame     = "game:get"
	ActionPlay        = "game:play"
	ActionJump        = "game:jump"
	ActionToggleOrder = "game:order"
	ActionError       = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request - payload sent by clients. Cell and Move are only read by the actions that need them.
type Request struct {
	GameID string `json:"game_id,omitempty"`
	Cell   *int   `json:"cell,omitempty"`
	Move   *int   `json:"move,omitempty"`
}

// Response - payload sent back under the same action as the request.
type Response struct {
	Game  *entity.View `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}
