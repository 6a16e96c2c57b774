package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	maxMessage = 4 << 10
	sendBuffer = 32
)

var errSendBufferFull = errors.New("send buffer full")

// Session is one websocket client. It implements Conn; a writer goroutine
// drains the buffered send queue so the manager never waits on the network.
type Session struct {
	id   string
	conn *websocket.Conn
	send chan ServerMessage
	log  slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(conn *websocket.Conn, log slog.Logger) *Session {
	return &Session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan ServerMessage, sendBuffer),
		log:  log,
		done: make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Send queues msg. A client that can't keep up is disconnected.
func (s *Session) Send(msg ServerMessage) error {
	select {
	case <-s.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case s.send <- msg:
		return nil
	default:
		s.close()
		return errSendBufferFull
	}
}

// Serve reads messages into m until the connection drops, then releases the seat.
func (s *Session) Serve(m *Manager) {
	defer func() {
		m.Disconnect(s)
		s.close()
	}()
	go s.writeLoop()

	s.conn.SetReadLimit(maxMessage)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debugf("Session %s read: %v", s.id, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.Send(ServerMessage{Type: MsgError, Error: &ErrorView{Code: "bad_request", Message: "invalid json"}})
			continue
		}
		m.Handle(s, msg)
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.Debugf("Session %s write: %v", s.id, err)
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			s.flush()
			return
		}
	}
}

// flush writes whatever is still queued, such as a room:closed notice, and
// says goodbye.
func (s *Session) flush() {
	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		default:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Close ends the session; the reader returns once the socket closes.
func (s *Session) Close() {
	s.close()
}
