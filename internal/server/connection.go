package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/twentyone/internal/game"
)

// Connection represents a WebSocket connection to a client. Each connection
// carries a generated identity; seat ownership in a room is authenticated
// against it.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	id        string
	roomID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	rooms     *RoomService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, rooms *RoomService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		id:     id,
		logger: logger.WithPrefix("conn").With("id", id[:8]),
		ctx:    ctx,
		cancel: cancel,
		rooms:  rooms,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// ID returns the connection's generated identity.
func (c *Connection) ID() string {
	return c.id
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// GetRoom returns the associated room code
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "room", c.GetRoom())

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError("Failed to parse create room data")
				return
			}
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeHit:
		c.handleAction(game.Hit)
	case MessageTypeStand:
		c.handleAction(game.Stand)
	case MessageTypeDouble:
		c.handleAction(game.Double)
	case MessageTypeSplit:
		c.handleAction(game.Split)
	case MessageTypeInsurance:
		c.handleAction(game.Insurance)
	case MessageTypeWithdraw:
		c.handleAction(game.Withdraw)

	case MessageTypeStartRound:
		c.handleStartRound()

	default:
		c.sendError("Unknown message type: " + msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	if c.GetRoom() != "" {
		c.sendError("Already in a room")
		return
	}

	code, snap, err := c.rooms.CreateRoom(c.id, data.Username, data.Difficulty)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.SetRoom(code)

	response, _ := NewMessage(MessageTypeRoomCreated, RoomCreatedData{
		RoomID:    code,
		GameState: snap,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	if c.GetRoom() != "" {
		c.sendError("Already in a room")
		return
	}

	snap, err := c.rooms.JoinRoom(data.RoomID, c.id, data.Username)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.SetRoom(data.RoomID)

	response, _ := NewMessage(MessageTypeGameJoined, GameJoinedData{
		RoomID:    data.RoomID,
		GameState: snap,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleAction(action game.Action) {
	room := c.GetRoom()
	if room == "" {
		c.sendError("Not in a room")
		return
	}
	if err := c.rooms.Action(room, c.id, action); err != nil {
		c.sendError(err.Error())
	}
	// No direct response; the room service broadcasts the new snapshot.
}

func (c *Connection) handleStartRound() {
	room := c.GetRoom()
	if room == "" {
		c.sendError("Not in a room")
		return
	}
	if err := c.rooms.StartRound(room, c.id); err != nil {
		c.sendError(err.Error())
	}
}
