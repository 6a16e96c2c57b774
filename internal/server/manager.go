package server

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/decred/slog"

	"briscola/internal/engine"
	"briscola/internal/timer"
)

// Conn is one connected client. Send must not block on the network.
type Conn interface {
	ID() string
	Send(msg ServerMessage) error
}

type ManagerConfig struct {
	TrickPause    time.Duration
	RoomTTL       time.Duration
	SweepInterval time.Duration

	// Now and NewCode are replaced in tests.
	Now     func() time.Time
	NewCode func() (string, error)
}

type seat struct {
	room   *Room
	player int
}

// Manager owns every room and the connection-to-seat map. One lock
// serializes all events, including timer callbacks, so each room sees its
// transitions strictly in order.
type Manager struct {
	mu     sync.Mutex
	cfg    ManagerConfig
	rooms  map[string]*Room
	seats  map[string]seat
	closed bool
	log    slog.Logger
}

func NewManager(cfg ManagerConfig, log slog.Logger) *Manager {
	if cfg.TrickPause <= 0 {
		cfg.TrickPause = engine.DefaultTrickPause
	}
	if cfg.RoomTTL <= 0 {
		cfg.RoomTTL = 2 * time.Hour
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 30 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewCode == nil {
		cfg.NewCode = func() (string, error) { return generateCode(rand.Reader, CodeLength) }
	}
	return &Manager{
		cfg:   cfg,
		rooms: make(map[string]*Room),
		seats: make(map[string]seat),
		log:   log,
	}
}

// Handle routes one inbound message from c.
func (m *Manager) Handle(c Conn, msg ClientMessage) {
	switch msg.Type {
	case MsgRoomCreate:
		m.Create(c)
	case MsgRoomJoin:
		m.Join(c, msg.Code)
	case MsgGameStart:
		m.Start(c)
	case MsgAction:
		m.Act(c, msg.Action)
	default:
		m.send(c, ServerMessage{Type: MsgError, Error: &ErrorView{Code: "unknown_type", Message: "unknown message type"}})
	}
}

// Create opens a room with c as host in seat 0.
func (m *Manager) Create(c Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.leaveLocked(c)

	code, err := m.newCodeLocked()
	if err != nil {
		m.log.Errorf("Create room for %s: %v", c.ID(), err)
		m.send(c, ServerMessage{Type: MsgRoomError, Message: errNoCode})
		return
	}
	state := engine.Initial()
	state.Mode = engine.ModeOnline
	now := m.cfg.Now()
	room := &Room{
		Code:      code,
		State:     state,
		CreatedAt: now,
		LastSeen:  now,
	}
	room.resolve = timer.NewSlot(&m.mu)
	room.Players[0] = c
	m.rooms[code] = room
	m.seats[c.ID()] = seat{room: room, player: 0}
	m.log.Infof("Room %s created by %s", code, c.ID())

	m.send(c, ServerMessage{Type: MsgRoomCreated, Code: code, PlayerIndex: intPtr(0)})
	m.sendStateLocked(room, 0, nil)
}

func (m *Manager) newCodeLocked() (string, error) {
	for {
		code, err := m.cfg.NewCode()
		if err != nil {
			return "", err
		}
		if m.rooms[code] == nil {
			return code, nil
		}
	}
}

// Join seats c in the first open seat of the room with code.
func (m *Manager) Join(c Conn, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	room := m.rooms[strings.ToUpper(strings.TrimSpace(code))]
	if room == nil {
		m.send(c, ServerMessage{Type: MsgRoomError, Message: errRoomNotFound})
		return
	}
	if s, ok := m.seats[c.ID()]; ok && s.room == room {
		// Already seated here; just resend the seat and state.
		m.send(c, ServerMessage{Type: MsgRoomJoined, Code: room.Code, PlayerIndex: intPtr(s.player)})
		m.sendStateLocked(room, s.player, nil)
		return
	}
	idx := room.openSeat()
	if idx < 0 {
		m.send(c, ServerMessage{Type: MsgRoomError, Message: errRoomFull})
		return
	}
	m.leaveLocked(c)

	room.Players[idx] = c
	room.LastSeen = m.cfg.Now()
	m.seats[c.ID()] = seat{room: room, player: idx}
	m.log.Infof("Room %s: %s joined as player %d", room.Code, c.ID(), idx)

	m.send(c, ServerMessage{Type: MsgRoomJoined, Code: room.Code, PlayerIndex: intPtr(idx)})
	m.sendStateLocked(room, idx, nil)
	if room.State.Phase == engine.PhaseMenu {
		m.broadcastLocked(room, ServerMessage{Type: MsgRoomReady})
	} else {
		m.broadcastLocked(room, ServerMessage{Type: MsgOpponentReconnected})
	}
}

// Start deals a new game. Only the host may start, at any point.
func (m *Manager) Start(c Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[c.ID()]
	if !ok {
		m.send(c, ServerMessage{Type: MsgRoomError, Message: errNotInRoom})
		return
	}
	if s.player != 0 {
		m.send(c, ServerMessage{Type: MsgRoomError, Message: errNotHost})
		return
	}
	room := s.room
	room.resolve.Stop()

	seed := m.cfg.Now().UnixMilli()
	next, err := engine.Apply(room.State, engine.StartGame(&seed, engine.ModeOnline, engine.DifficultyMedium, m.cfg.TrickPause))
	if err != nil {
		m.log.Errorf("Room %s: start: %v", room.Code, err)
		return
	}
	room.State = next
	room.LastSeen = m.cfg.Now()
	m.log.Infof("Room %s: game started, seed %d", room.Code, seed)
	m.broadcastStateLocked(room, nil)
}

// Act applies a client action for c's seat. Malformed and rejected actions
// are dropped without a reply.
func (m *Manager) Act(c Conn, dto *ActionDTO) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[c.ID()]
	if !ok {
		return
	}
	action, err := dto.ToEngine(s.player)
	if err != nil {
		m.log.Debugf("Room %s: ignoring action from %s: %v", s.room.Code, c.ID(), err)
		return
	}
	m.applyLocked(s.room, s.player, action)
}

// applyLocked runs action through the reducer, broadcasts the result and
// arms the resolve timer when a trick is complete.
func (m *Manager) applyLocked(room *Room, player int, action engine.Action) {
	prev := room.State
	next, err := engine.Apply(prev, action)
	if err != nil {
		m.log.Debugf("Room %s: player %d %v rejected: %v", room.Code, player, action.Type, err)
		return
	}
	room.State = next
	room.LastSeen = m.cfg.Now()
	m.broadcastStateLocked(room, buildEvents(prev, next, player, action))
	if next.Phase == engine.PhaseGameOver && prev.Phase != engine.PhaseGameOver {
		m.log.Infof("Room %s: game over %d-%d", room.Code, next.Scores[0], next.Scores[1])
	}

	if !next.AwaitingResolve {
		return
	}
	room.resolve.Schedule(next.TrickPause, func() {
		if m.rooms[room.Code] != room {
			return
		}
		m.applyLocked(room, -1, engine.ResolveTrick())
	})
}

// Disconnect frees c's seat. The room survives while the other seat is taken.
func (m *Manager) Disconnect(c Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(c)
}

func (m *Manager) leaveLocked(c Conn) {
	s, ok := m.seats[c.ID()]
	if !ok {
		return
	}
	delete(m.seats, c.ID())
	room := s.room
	if room.Players[s.player] == c {
		room.Players[s.player] = nil
	}
	if room.empty() {
		room.resolve.Stop()
		delete(m.rooms, room.Code)
		m.log.Infof("Room %s closed, no players left", room.Code)
		return
	}
	room.LastSeen = m.cfg.Now()
	m.log.Infof("Room %s: player %d left", room.Code, s.player)
	m.broadcastLocked(room, ServerMessage{Type: MsgOpponentDisconnected})
}

// Sweep deletes rooms idle for longer than RoomTTL and returns how many went.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.cfg.Now()
	n := 0
	for code, room := range m.rooms {
		if now.Sub(room.LastSeen) <= m.cfg.RoomTTL {
			continue
		}
		m.closeRoomLocked(room, closedExpired)
		m.log.Infof("Room %s expired after %v idle", code, now.Sub(room.LastSeen).Round(time.Second))
		n++
	}
	return n
}

// Run sweeps idle rooms every SweepInterval until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Debugf("Swept %d idle rooms, %d left", n, m.RoomCount())
			}
		}
	}
}

// Close tells every seated client the server is going away and drops all rooms.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for _, room := range m.rooms {
		m.closeRoomLocked(room, closedShutdown)
	}
}

func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Room returns a copy of the room's game state.
func (m *Manager) Room(code string) (engine.GameState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[strings.ToUpper(code)]
	if !ok {
		return engine.GameState{}, false
	}
	return room.State, true
}

func (m *Manager) closeRoomLocked(room *Room, reason string) {
	room.resolve.Stop()
	m.broadcastLocked(room, ServerMessage{Type: MsgRoomClosed, Message: reason})
	for i, c := range room.Players {
		if c == nil {
			continue
		}
		delete(m.seats, c.ID())
		room.Players[i] = nil
		if cl, ok := c.(interface{ Close() }); ok {
			cl.Close()
		}
	}
	delete(m.rooms, room.Code)
}

func (m *Manager) broadcastStateLocked(room *Room, events []Event) {
	for i := range room.Players {
		m.sendStateLocked(room, i, events)
	}
}

func (m *Manager) sendStateLocked(room *Room, player int, events []Event) {
	c := room.Players[player]
	if c == nil {
		return
	}
	m.send(c, ServerMessage{Type: MsgState, State: BuildGameView(room.State, player), Events: events})
}

func (m *Manager) broadcastLocked(room *Room, msg ServerMessage) {
	for _, c := range room.Players {
		if c != nil {
			m.send(c, msg)
		}
	}
}

func (m *Manager) send(c Conn, msg ServerMessage) {
	if err := c.Send(msg); err != nil {
		m.log.Warnf("Send %s to %s: %v", msg.Type, c.ID(), err)
	}
}

func intPtr(i int) *int {
	return &i
}
