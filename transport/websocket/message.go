package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
)

const (
	actionSessionStart   = "session:start"
	actionSessionRestart = "session:restart"
	actionBoardReset     = "board:reset"
	actionGameTurn       = "game:turn"
	actionSessionState   = "session:state"
	actionSessionUpdate  = "session:update"
	actionError          = "error"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type StartPayload struct {
	Mode      string `json:"mode" validate:"required,oneof=pvp ai"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

type TurnPayload struct {
	Mark string `json:"mark" validate:"required,oneof=X O"`
	Cell *int   `json:"cell" validate:"required"`
}

type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}

type ResponsePayload struct {
	Session *entity.Session `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}
