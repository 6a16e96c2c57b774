package engine

import (
	"fmt"
	"time"
)

type Suit int

type Rank int

const (
	SuitCups Suit = iota
	SuitSwords
	SuitCoins
	SuitClubs
)

const (
	RankA Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	RankJ
	RankQ
	RankK
)

var (
	Suits = []Suit{SuitCups, SuitSwords, SuitCoins, SuitClubs}
	Ranks = []Rank{RankA, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, RankJ, RankQ, RankK}
)

func (s Suit) String() string {
	switch s {
	case SuitCups:
		return "cups"
	case SuitSwords:
		return "swords"
	case SuitCoins:
		return "coins"
	case SuitClubs:
		return "clubs"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	switch r {
	case RankA:
		return "A"
	case Rank2:
		return "2"
	case Rank3:
		return "3"
	case Rank4:
		return "4"
	case Rank5:
		return "5"
	case Rank6:
		return "6"
	case Rank7:
		return "7"
	case RankJ:
		return "J"
	case RankQ:
		return "Q"
	case RankK:
		return "K"
	default:
		return "?"
	}
}

type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) String() string {
	return fmt.Sprintf("%s-%s", c.Rank.String(), c.Suit.String())
}

type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameover"
	default:
		return "?"
	}
}

type Mode int

const (
	ModeHotseat Mode = iota
	ModeVsBot
	ModeOnline
)

func (m Mode) String() string {
	switch m {
	case ModeHotseat:
		return "hotseat"
	case ModeVsBot:
		return "vsBot"
	case ModeOnline:
		return "online"
	default:
		return "?"
	}
}

// Difficulty selects the bot tier. The zero value is medium.
type Difficulty int

const (
	DifficultyMedium Difficulty = iota
	DifficultyEasy
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "?"
	}
}

// ParseDifficulty maps "easy", "medium" and "hard" to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyMedium, fmt.Errorf("unknown difficulty %q", s)
	}
}

const (
	Players     = 2
	DeckSize    = 40
	HandSize    = 3
	LogCapacity = 5

	DefaultTrickPause = 900 * time.Millisecond
)

// Overlay is the hotseat "pass device" prompt.
type Overlay struct {
	Active  bool
	Player  int
	Message string
}

// GameState is replaced wholesale on every transition. Apply never mutates its input.
type GameState struct {
	Phase         Phase
	Mode          Mode
	BotDifficulty Difficulty
	TrickPause    time.Duration

	Hands    [Players][]Card
	Deck     []Card
	Briscola *Card
	Trump    *Suit

	Trick  [Players]*Card
	Leader int
	Turn   int

	Captured [Players][]Card
	Scores   [Players]int

	AwaitingResolve bool
	Overlay         *Overlay

	// ViewPlayer is the hotseat player whose hand is revealed, -1 for none.
	ViewPlayer int
	// LastPlayer played the most recent card, -1 before the first play.
	LastPlayer int

	Log  []string
	Seed *int64
}

// Initial returns the menu state.
func Initial() GameState {
	return GameState{
		Phase:         PhaseMenu,
		Mode:          ModeHotseat,
		BotDifficulty: DifficultyMedium,
		TrickPause:    DefaultTrickPause,
		ViewPlayer:    -1,
		LastPlayer:    -1,
		Log:           []string{},
	}
}

// clone copies every slice so the result can be modified without touching g.
// Card pointers are shared; cards are never written through them.
func (g GameState) clone() GameState {
	next := g
	for i := 0; i < Players; i++ {
		next.Hands[i] = append([]Card(nil), g.Hands[i]...)
		next.Captured[i] = append([]Card(nil), g.Captured[i]...)
	}
	next.Deck = append([]Card(nil), g.Deck...)
	next.Log = append([]string(nil), g.Log...)
	if g.Overlay != nil {
		o := *g.Overlay
		next.Overlay = &o
	}
	return next
}

// TrickEmpty reports whether no card is in play.
func (g GameState) TrickEmpty() bool {
	return g.Trick[0] == nil && g.Trick[1] == nil
}

// Remaining is the number of cards still to be drawn, briscola included.
func (g GameState) Remaining() int {
	n := len(g.Deck)
	if g.Briscola != nil {
		n++
	}
	return n
}

// CardCount counts every card the state accounts for. It is DeckSize for any dealt game.
func (g GameState) CardCount() int {
	n := g.Remaining()
	for i := 0; i < Players; i++ {
		n += len(g.Hands[i]) + len(g.Captured[i])
		if g.Trick[i] != nil {
			n++
		}
	}
	return n
}

// Winner returns the winning player once the game is over; ok is false on a tie or before the end.
func (g GameState) Winner() (player int, ok bool) {
	if g.Phase != PhaseGameOver || g.Scores[0] == g.Scores[1] {
		return -1, false
	}
	if g.Scores[0] > g.Scores[1] {
		return 0, true
	}
	return 1, true
}

func other(player int) int {
	if player == 0 {
		return 1
	}
	return 0
}
