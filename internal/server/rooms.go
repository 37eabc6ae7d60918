package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/roomid"
)

// ErrRoomNotFound is returned when a join or action references an unknown
// room code.
var ErrRoomNotFound = fmt.Errorf("room not found")

// Broadcaster fans a message out to every connection in a room. The Server
// implements it; tests substitute a recorder.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msg *Message)
}

// Room is one multiplayer table addressed by its short code.
type Room struct {
	Code  string
	Table *game.Table

	// pending turn-timeout timer, nil when no remote seat is on the clock
	timer *quartz.Timer
}

// RoomService owns the multiplayer rooms: creation with short codes, joins,
// identity-checked actions, turn timeouts and snapshot fan-out. All mutation
// of the room set is serialised through its mutex; per-table state is guarded
// by the table itself.
type RoomService struct {
	mu        sync.Mutex
	rooms     map[string]*Room
	generator *roomid.Generator
	advisor   game.Advisor
	logger    *log.Logger
	clock     quartz.Clock
	broadcast Broadcaster

	tableCfg    game.Config
	turnTimeout time.Duration
	seed        int64
	created     int64
}

// NewRoomService creates the service. turnTimeout 0 disables the auto-stand
// timer. The broadcaster is attached separately to break the construction
// cycle with the Server.
func NewRoomService(cfg game.Config, advisor game.Advisor, turnTimeout time.Duration, seed int64, clock quartz.Clock, logger *log.Logger) *RoomService {
	cfg.HostGated = true
	cfg.SingleDriver = false
	return &RoomService{
		rooms:       make(map[string]*Room),
		generator:   roomid.NewGenerator(nil),
		advisor:     advisor,
		logger:      logger.WithPrefix("rooms"),
		clock:       clock,
		tableCfg:    cfg,
		turnTimeout: turnTimeout,
		seed:        seed,
	}
}

// SetBroadcaster attaches the fan-out sink. Must be called before the first
// room is created.
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcast = b
}

// CreateRoom creates a room hosted by the given connection identity and
// seats the host at seat 0.
func (s *RoomService) CreateRoom(connID, username, difficulty string) (string, game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := s.generator.Generate()
	for s.rooms[code] != nil {
		code = s.generator.Generate()
	}
	if username == "" {
		username = "Host"
	}

	cfg := s.tableCfg
	cfg.Difficulty = game.ParseDifficulty(difficulty)
	s.created++
	table := game.NewTable(cfg, s.advisor, s.logger.With("room", code), randutil.New(s.seed+s.created))
	if _, err := table.AddSeat(username, connID, game.RemoteHuman); err != nil {
		return "", game.Snapshot{}, err
	}

	s.rooms[code] = &Room{Code: code, Table: table}
	s.logger.Info("room created", "room", code, "host", username)
	return code, table.Snapshot(), nil
}

// JoinRoom seats a new identity in the room. Joins are only accepted before
// the room's first deal; the room's other members receive a fresh snapshot.
func (s *RoomService) JoinRoom(code, connID, username string) (game.Snapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return game.Snapshot{}, err
	}
	if username == "" {
		username = "Guest"
	}
	if _, err := room.Table.AddSeat(username, connID, game.RemoteHuman); err != nil {
		return game.Snapshot{}, err
	}
	s.logger.Info("player joined", "room", code, "player", username)
	snap := room.Table.Snapshot()
	s.broadcastUpdate(room, snap)
	return snap, nil
}

// Action applies a game action on behalf of a connection identity and fans
// out the resulting snapshot. Validation failures return without mutating or
// broadcasting anything.
func (s *RoomService) Action(code, connID string, action game.Action) error {
	room, err := s.room(code)
	if err != nil {
		return err
	}
	if err := room.Table.ActAs(connID, action); err != nil {
		return err
	}
	s.afterMutation(room)
	return nil
}

// StartRound begins a new round; only the host identity may trigger it.
func (s *RoomService) StartRound(code, connID string) error {
	room, err := s.room(code)
	if err != nil {
		return err
	}
	if err := room.Table.StartRoundAs(connID); err != nil {
		return err
	}
	s.afterMutation(room)
	return nil
}

// Disconnect withdraws the identity's seat and tears the room down once no
// human remains connected.
func (s *RoomService) Disconnect(code, connID string) {
	room, err := s.room(code)
	if err != nil {
		return
	}
	room.Table.MarkDisconnected(connID)

	if room.Table.ConnectedHumans() == 0 {
		s.mu.Lock()
		if room.timer != nil {
			room.timer.Stop()
		}
		delete(s.rooms, code)
		s.mu.Unlock()
		s.logger.Info("room torn down", "room", code)
		return
	}
	s.afterMutation(room)
}

// Snapshot returns the room's observable state.
func (s *RoomService) Snapshot(code string) (game.Snapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return game.Snapshot{}, err
	}
	return room.Table.Snapshot(), nil
}

// Len returns the number of live rooms.
func (s *RoomService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func (s *RoomService) room(code string) (*Room, error) {
	if err := roomid.Validate(code); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return room, nil
}

// afterMutation broadcasts the new snapshot and re-arms the turn timer.
func (s *RoomService) afterMutation(room *Room) {
	s.broadcastUpdate(room, room.Table.Snapshot())
	s.armTurnTimer(room)
}

func (s *RoomService) broadcastUpdate(room *Room, snap game.Snapshot) {
	if s.broadcast == nil {
		return
	}
	msg, err := NewMessage(MessageTypeGameUpdate, snap)
	if err != nil {
		s.logger.Error("failed to encode snapshot", "room", room.Code, "error", err)
		return
	}
	s.broadcast.BroadcastToRoom(room.Code, msg)
}

// armTurnTimer schedules an auto-stand for the remote seat on turn. The
// timer is replaced on every mutation, so a seat that acts in time is never
// forfeited.
func (s *RoomService) armTurnTimer(room *Room) {
	if s.turnTimeout <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if room.timer != nil {
		room.timer.Stop()
		room.timer = nil
	}
	idx, _, kind, ok := room.Table.TurnOwner()
	if !ok || kind != game.RemoteHuman {
		return
	}
	room.timer = s.clock.AfterFunc(s.turnTimeout, func() {
		s.logger.Info("turn timed out, auto-standing", "room", room.Code, "seat", idx)
		room.Table.ForfeitTurn(idx)
		s.afterMutation(room)
	})
}
