package server

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"briscola/internal/engine"
	"briscola/internal/timer"
)

// CodeLength and codeChars define room codes; the alphabet has no 0/O or 1/I.
const (
	CodeLength = 5
	codeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Room is one online table. Its fields are guarded by the owning Manager's lock.
type Room struct {
	Code      string
	State     engine.GameState
	Players   [engine.Players]Conn
	CreatedAt time.Time
	LastSeen  time.Time

	resolve *timer.Slot
}

func (r *Room) empty() bool {
	return r.Players[0] == nil && r.Players[1] == nil
}

// openSeat returns the first free seat, or -1 when the room is full.
func (r *Room) openSeat() int {
	for i, c := range r.Players {
		if c == nil {
			return i
		}
	}
	return -1
}

// generateCode draws n characters from codeChars using src, normally crypto/rand.Reader.
func generateCode(src io.Reader, n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, err := rand.Int(src, max)
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		b[i] = codeChars[idx.Int64()]
	}
	return string(b), nil
}
