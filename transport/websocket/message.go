package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	actionGameNew     = "game:new"
	actionGameGet     = "game:get"
	actionGameTurn    = "game:turn"
	actionGameRematch = "game:rematch"
	actionGameLeave   = "game:leave"
	actionError       = "error"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload - requests fill the fields their action needs, responses carry Game or Error.
type Payload struct {
	GameID string                   `json:"game_id,omitempty"`
	Start  *usecase.StartGameParams `json:"start,omitempty"`
	Mark   string                   `json:"mark,omitempty"`
	Move   *tictactoe.Move          `json:"move,omitempty"`

	Game  *entity.Game `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}

func encode(action string, payload Payload) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: raw})
}
