package websocket

import "encoding/json"

const (
	actionPlaceStone  = "stone:place"
	actionConfirmTurn = "turn:confirm"
	actionUndoTurn    = "turn:undo"
	actionResetGame   = "game:reset"
)

// Message represents an inbound request with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PlacePayload is the payload of a stone:place message.
type PlacePayload struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}
