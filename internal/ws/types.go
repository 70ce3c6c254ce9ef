package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages sent over a game socket
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message is the envelope of every websocket frame
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Conn is the part of a websocket connection the game broadcaster writes to.
type Conn interface {
	WriteJSON(v interface{}) error
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

// ErrorPayload carries a rejected request back to the sender.
type ErrorPayload struct {
	Message string `json:"message"`
}
