package engine

import (
	"errors"
	"fmt"
	"time"
)

type ActionType int

const (
	ActionStartGame ActionType = iota
	ActionReadyForTurn
	ActionPlayCard
	ActionResolveTrick
	ActionNextTrick
	ActionRestart
)

func (t ActionType) String() string {
	switch t {
	case ActionStartGame:
		return "START_GAME"
	case ActionReadyForTurn:
		return "READY_FOR_TURN"
	case ActionPlayCard:
		return "PLAY_CARD"
	case ActionResolveTrick:
		return "RESOLVE_TRICK"
	case ActionNextTrick:
		return "NEXT_TRICK"
	case ActionRestart:
		return "RESTART"
	default:
		return "UNKNOWN"
	}
}

type Action struct {
	Type      ActionType
	Player    int
	HandIndex int

	// START_GAME parameters.
	Seed       *int64
	Mode       Mode
	Difficulty Difficulty
	TrickPause time.Duration
}

func StartGame(seed *int64, mode Mode, difficulty Difficulty, pause time.Duration) Action {
	return Action{Type: ActionStartGame, Seed: seed, Mode: mode, Difficulty: difficulty, TrickPause: pause}
}

func PlayCard(player, handIndex int) Action {
	return Action{Type: ActionPlayCard, Player: player, HandIndex: handIndex}
}

func ReadyForTurn(player int) Action {
	return Action{Type: ActionReadyForTurn, Player: player}
}

func ResolveTrick() Action {
	return Action{Type: ActionResolveTrick}
}

// ErrRejected is wrapped by every precondition failure returned from Apply.
var ErrRejected = errors.New("action rejected")

var (
	ErrWrongPhase       = fmt.Errorf("%w: game not in play", ErrRejected)
	ErrOverlayActive    = fmt.Errorf("%w: waiting for player to take the device", ErrRejected)
	ErrResolvePending   = fmt.Errorf("%w: trick awaiting resolution", ErrRejected)
	ErrNotYourTurn      = fmt.Errorf("%w: not your turn", ErrRejected)
	ErrBadHandIndex     = fmt.Errorf("%w: no card at hand index", ErrRejected)
	ErrNoResolvePending = fmt.Errorf("%w: no trick to resolve", ErrRejected)
	ErrNoOverlay        = fmt.Errorf("%w: no overlay for player", ErrRejected)
	ErrUnknownAction    = fmt.Errorf("%w: unknown action", ErrRejected)
)

// Apply is the game reducer. On rejection it returns g unchanged together with
// an error wrapping ErrRejected; g is never modified either way.
func Apply(g GameState, a Action) (GameState, error) {
	switch a.Type {
	case ActionStartGame:
		return Deal(a.Seed, a.Mode, a.Difficulty, a.TrickPause), nil
	case ActionReadyForTurn:
		return applyReady(g, a)
	case ActionPlayCard:
		return applyPlay(g, a)
	case ActionResolveTrick:
		return applyResolve(g)
	case ActionNextTrick:
		return g, nil
	case ActionRestart:
		return Initial(), nil
	default:
		return g, ErrUnknownAction
	}
}

func applyReady(g GameState, a Action) (GameState, error) {
	if g.Overlay == nil || !g.Overlay.Active || g.Overlay.Player != a.Player {
		return g, ErrNoOverlay
	}
	next := g.clone()
	next.Overlay = nil
	if next.Mode == ModeHotseat {
		next.ViewPlayer = next.Turn
	}
	return next, nil
}

func applyPlay(g GameState, a Action) (GameState, error) {
	if g.Phase != PhasePlaying {
		return g, ErrWrongPhase
	}
	if g.Overlay != nil && g.Overlay.Active {
		return g, ErrOverlayActive
	}
	if g.AwaitingResolve {
		return g, ErrResolvePending
	}
	if a.Player != g.Turn {
		return g, ErrNotYourTurn
	}
	hand := g.Hands[a.Player]
	if a.HandIndex < 0 || a.HandIndex >= len(hand) {
		return g, ErrBadHandIndex
	}

	next := g.clone()
	card := hand[a.HandIndex]
	next.Hands[a.Player] = removeAt(next.Hands[a.Player], a.HandIndex)
	next.Trick[a.Player] = &card
	next.LastPlayer = a.Player

	if next.Trick[0] != nil && next.Trick[1] != nil {
		next.AwaitingResolve = true
		next.Overlay = nil
		return next, nil
	}

	next.Turn = other(a.Player)
	next.Log = appendLog(next.Log, fmt.Sprintf("Player %d played.", a.Player+1))
	setHotseatOverlay(&next)
	return next, nil
}

func applyResolve(g GameState) (GameState, error) {
	if !g.AwaitingResolve || g.Trick[0] == nil || g.Trick[1] == nil {
		return g, ErrNoResolvePending
	}

	next := g.clone()
	winner := TrickWinner(g.Leader, g.Trick, trumpOf(g))
	points := trickPoints(g.Trick)
	next.Captured[winner] = append(next.Captured[winner], *g.Trick[0], *g.Trick[1])
	next.Scores[winner] += points
	next.Trick = [Players]*Card{}
	next.AwaitingResolve = false
	drawAfterTrick(&next, winner)
	next.Leader = winner
	next.Turn = winner
	next.Log = appendLog(next.Log, fmt.Sprintf("Player %d wins the trick (+%d).", winner+1, points))

	if isGameOver(next) {
		next.Phase = PhaseGameOver
		next.Overlay = nil
		next.Log = appendLog(next.Log, resultLine(next.Scores))
		return next, nil
	}
	setHotseatOverlay(&next)
	return next, nil
}

// drawAfterTrick refills hands winner first. Once the stock is gone the loser
// takes the face-up briscola card.
func drawAfterTrick(g *GameState, winner int) {
	loser := other(winner)
	if c, ok := draw(&g.Deck); ok {
		g.Hands[winner] = append(g.Hands[winner], c)
	}
	if c, ok := draw(&g.Deck); ok {
		g.Hands[loser] = append(g.Hands[loser], c)
	} else if g.Briscola != nil {
		g.Hands[loser] = append(g.Hands[loser], *g.Briscola)
		g.Briscola = nil
	}
}

func isGameOver(g GameState) bool {
	return len(g.Hands[0]) == 0 && len(g.Hands[1]) == 0 && len(g.Deck) == 0 && g.Briscola == nil
}

func resultLine(scores [Players]int) string {
	switch {
	case scores[0] == scores[1]:
		return "Tie game."
	case scores[0] > scores[1]:
		return "Player 1 wins!"
	default:
		return "Player 2 wins!"
	}
}

// setHotseatOverlay hides the hands behind a pass-device prompt when control
// moves to player 1, or back to player 0 after player 1 acted.
func setHotseatOverlay(g *GameState) {
	if g.Mode != ModeHotseat {
		g.Overlay = nil
		return
	}
	switch {
	case g.Turn == 1:
		g.Overlay = &Overlay{Active: true, Player: 1, Message: "Pass device to Player 2"}
	case g.Turn == 0 && g.LastPlayer == 1:
		g.Overlay = &Overlay{Active: true, Player: 0, Message: "Pass back to Player 1"}
	default:
		g.Overlay = nil
	}
	if g.Overlay != nil {
		g.ViewPlayer = -1
	} else {
		g.ViewPlayer = g.Turn
	}
}

func appendLog(log []string, msg string) []string {
	if len(log) >= LogCapacity {
		log = log[len(log)-(LogCapacity-1):]
	}
	out := make([]string, 0, LogCapacity)
	out = append(out, log...)
	return append(out, msg)
}

func removeAt(hand []Card, i int) []Card {
	return append(hand[:i:i], hand[i+1:]...)
}

func trumpOf(g GameState) Suit {
	if g.Trump == nil {
		return Suit(-1)
	}
	return *g.Trump
}
