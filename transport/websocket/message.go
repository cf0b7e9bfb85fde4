package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	actionTurn    = "game:turn"
	actionRestart = "game:restart"
	actionState   = "game:state"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TurnPayload carries a 1-based cell number.
type TurnPayload struct {
	Cell int `json:"cell"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type StateMessage struct {
	Action  string          `json:"action"`
	Payload entity.Snapshot `json:"payload"`
}
