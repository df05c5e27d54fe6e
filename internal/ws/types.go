package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove         MessageType = "move"
	MessageTypeFairyEntry   MessageType = "fairyEntry"
	MessageTypeFairyDecline MessageType = "fairyDecline"
	MessageTypeGameState    MessageType = "gameState"
	MessageTypeMoveResult   MessageType = "moveResult"
	MessageTypeError        MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
