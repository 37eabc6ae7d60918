package server

import (
	"encoding/json"
	"time"

	"github.com/lox/twentyone/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type CreateRoomData struct {
	Username   string `json:"username,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type JoinRoomData struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
}

// ActionData is the optional payload on the bare action events (hit, stand,
// double, split, insurance, withdraw, start_round).
type ActionData struct {
	Difficulty string `json:"difficulty,omitempty"`
}

// Server → Client Messages

type RoomCreatedData struct {
	RoomID    string        `json:"room_id"`
	GameState game.Snapshot `json:"game_state"`
}

type GameJoinedData struct {
	RoomID    string        `json:"room_id"`
	GameState game.Snapshot `json:"game_state"`
}

type ErrorData struct {
	Message string `json:"message"`
}
