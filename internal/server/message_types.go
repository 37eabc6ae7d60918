package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeCreateRoom MessageType = "create_room"
	MessageTypeJoinRoom   MessageType = "join_room"
	MessageTypeHit        MessageType = "hit"
	MessageTypeStand      MessageType = "stand"
	MessageTypeDouble     MessageType = "double"
	MessageTypeSplit      MessageType = "split"
	MessageTypeInsurance  MessageType = "insurance"
	MessageTypeWithdraw   MessageType = "withdraw"
	MessageTypeStartRound MessageType = "start_round"

	// Server to client messages
	MessageTypeRoomCreated MessageType = "room_created"
	MessageTypeGameJoined  MessageType = "game_joined"
	MessageTypeGameUpdate  MessageType = "game_update"
	MessageTypeError       MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
