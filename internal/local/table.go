// Package local drives a game on one device: hotseat or against the bot.
package local

import (
	"strconv"
	"sync"
	"time"

	"github.com/decred/slog"

	"briscola/internal/bots"
	"briscola/internal/engine"
	"briscola/internal/timer"
)

// DefaultBotDelay is how long the bot "thinks" before playing.
const DefaultBotDelay = 600 * time.Millisecond

type TableConfig struct {
	Tuning   bots.Tuning
	BotDelay time.Duration
	// BotSeed seeds the easy bot; zero picks one from the clock.
	BotSeed int64
}

// Table owns a GameState and the two timers that advance it without input:
// the trick resolution pause and the bot move.
type Table struct {
	mu      sync.Mutex
	cfg     TableConfig
	state   engine.GameState
	bot     bots.Bot
	resolve *timer.Slot
	botMove *timer.Slot
	updates chan engine.GameState
	closed  bool
	log     slog.Logger
}

func NewTable(cfg TableConfig, log slog.Logger) *Table {
	if cfg.BotDelay <= 0 {
		cfg.BotDelay = DefaultBotDelay
	}
	if cfg.Tuning == (bots.Tuning{}) {
		cfg.Tuning = bots.DefaultTuning
	}
	t := &Table{
		cfg:     cfg,
		state:   engine.Initial(),
		updates: make(chan engine.GameState, 1),
		log:     log,
	}
	t.resolve = timer.NewSlot(&t.mu)
	t.botMove = timer.NewSlot(&t.mu)
	return t
}

// Dispatch applies a player action. Rejections leave the table and its timers as they were.
func (t *Table) Dispatch(a engine.Action) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	if a.Type == engine.ActionStartGame || a.Type == engine.ActionRestart {
		t.resolve.Stop()
		t.botMove.Stop()
	}
	return t.applyLocked(a)
}

func (t *Table) State() engine.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Updates delivers the latest state after every accepted action. A slow
// reader only misses intermediate states.
func (t *Table) Updates() <-chan engine.GameState {
	return t.updates
}

// Close stops both timers. Later dispatches are ignored.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.resolve.Stop()
	t.botMove.Stop()
}

func (t *Table) applyLocked(a engine.Action) error {
	next, err := engine.Apply(t.state, a)
	if err != nil {
		t.log.Debugf("Rejected %v from player %d: %v", a.Type, a.Player, err)
		return err
	}
	if a.Type == engine.ActionStartGame {
		t.newBot(next)
		t.log.Infof("New %v game, seed %s", next.Mode, seedString(next.Seed))
	}
	if next.Phase == engine.PhaseGameOver && t.state.Phase != engine.PhaseGameOver {
		t.log.Infof("Game over %d-%d", next.Scores[0], next.Scores[1])
	}
	t.state = next
	t.publishLocked()
	t.scheduleLocked()
	return nil
}

func (t *Table) newBot(g engine.GameState) {
	t.bot = nil
	if g.Mode != engine.ModeVsBot {
		return
	}
	seed := t.cfg.BotSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t.bot = bots.New(g.BotDifficulty, seed, t.cfg.Tuning)
}

func (t *Table) scheduleLocked() {
	g := t.state
	if g.AwaitingResolve && g.Mode != engine.ModeOnline {
		t.resolve.Schedule(g.TrickPause, func() {
			// Rejections are logged by applyLocked; a timer has no caller to report to.
			_ = t.applyLocked(engine.ResolveTrick())
		})
	} else {
		t.resolve.Stop()
	}

	if t.bot != nil && g.Mode == engine.ModeVsBot && g.Phase == engine.PhasePlaying &&
		g.Turn == bots.Player && !g.AwaitingResolve {
		t.botMove.Schedule(t.cfg.BotDelay, func() {
			if t.bot == nil {
				return
			}
			if a, ok := t.bot.ChooseAction(t.state); ok {
				_ = t.applyLocked(a)
			}
		})
	} else {
		t.botMove.Stop()
	}
}

func (t *Table) publishLocked() {
	select {
	case <-t.updates:
	default:
	}
	t.updates <- t.state
}

func seedString(seed *int64) string {
	if seed == nil {
		return "random"
	}
	return strconv.FormatInt(*seed, 10)
}
