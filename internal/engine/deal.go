package engine

import (
	"math/rand"
	"time"
)

// RNG returns values in [0, 1).
type RNG func() float64

const (
	lcgModulus    = 2147483647
	lcgMultiplier = 16807
)

// SeededRNG is a Park–Miller generator; equal seeds yield equal sequences.
// Zero and negative seeds are folded into the valid range.
func SeededRNG(seed int64) RNG {
	value := seed % lcgModulus
	if value <= 0 {
		value += lcgModulus - 1
	}
	// -(m-1) folds to 0, which would pin the sequence there.
	if value == 0 {
		value = lcgModulus - 1
	}
	return func() float64 {
		value = (value * lcgMultiplier) % lcgModulus
		return float64(value-1) / float64(lcgModulus-1)
	}
}

// NewDeck builds the 40 cards in suit-major order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a Fisher–Yates permutation of deck; deck itself is left untouched.
func Shuffle(deck []Card, rng RNG) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(rng() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

func draw(deck *[]Card) (Card, bool) {
	n := len(*deck)
	if n == 0 {
		return Card{}, false
	}
	c := (*deck)[n-1]
	*deck = (*deck)[:n-1]
	return c, true
}

// Deal starts a fresh game. A nil seed deals from math/rand and leaves Seed unset.
func Deal(seed *int64, mode Mode, difficulty Difficulty, pause time.Duration) GameState {
	rng := RNG(rand.Float64)
	if seed != nil {
		rng = SeededRNG(*seed)
	}
	deck := Shuffle(NewDeck(), rng)

	g := Initial()
	for i := 0; i < HandSize; i++ {
		for p := 0; p < Players; p++ {
			c, _ := draw(&deck)
			g.Hands[p] = append(g.Hands[p], c)
		}
	}
	briscola, _ := draw(&deck)
	trump := briscola.Suit

	if pause <= 0 {
		pause = DefaultTrickPause
	}
	g.Phase = PhasePlaying
	g.Mode = mode
	g.BotDifficulty = difficulty
	g.TrickPause = pause
	g.Deck = deck
	g.Briscola = &briscola
	g.Trump = &trump
	g.Log = []string{"Game start."}
	if mode == ModeHotseat {
		g.ViewPlayer = 0
	}
	if seed != nil {
		s := *seed
		g.Seed = &s
	}
	return g
}

// NewGameWithMode deals with the default trick pause and medium bot.
func NewGameWithMode(seed *int64, mode Mode) GameState {
	return Deal(seed, mode, DifficultyMedium, DefaultTrickPause)
}
