package bots

import (
	"math/rand"

	"briscola/internal/engine"
)

// Player is the seat every bot plays from.
const Player = 1

type Bot interface {
	// ChooseAction returns a PLAY_CARD for the bot's seat; false when its hand is empty.
	ChooseAction(state engine.GameState) (engine.Action, bool)
}

// New returns the bot for difficulty d. seed only matters for the easy tier.
func New(d engine.Difficulty, seed int64, t Tuning) Bot {
	switch d {
	case engine.DifficultyEasy:
		return NewEasy(seed, t)
	case engine.DifficultyHard:
		return &HardBot{Tuning: t}
	default:
		return &MediumBot{Tuning: t}
	}
}

type EasyBot struct {
	RNG    *rand.Rand
	Tuning Tuning
}

func NewEasy(seed int64, t Tuning) *EasyBot {
	return &EasyBot{RNG: rand.New(rand.NewSource(seed)), Tuning: t}
}

// ChooseAction mostly plays at random and otherwise plays the card medium
// would rate worst.
func (b *EasyBot) ChooseAction(state engine.GameState) (engine.Action, bool) {
	hand := state.Hands[Player]
	if len(hand) == 0 {
		return engine.Action{}, false
	}
	legal := engine.LegalMoves(hand)
	if b.RNG.Float64() < b.Tuning.EasyRandomRate {
		return engine.PlayCard(Player, legal[b.RNG.Intn(len(legal))]), true
	}

	leading := state.TrickEmpty()
	worst, worstCost := legal[0], 0
	for n, i := range legal {
		cost := mediumCost(state, hand[i], leading, b.Tuning)
		if n == 0 || cost > worstCost {
			worst, worstCost = i, cost
		}
	}
	return engine.PlayCard(Player, worst), true
}

type MediumBot struct {
	Tuning Tuning
}

func (b *MediumBot) ChooseAction(state engine.GameState) (engine.Action, bool) {
	return cheapest(state, func(c engine.Card, leading bool) int {
		return mediumCost(state, c, leading, b.Tuning)
	})
}

type HardBot struct {
	Tuning Tuning
}

func (b *HardBot) ChooseAction(state engine.GameState) (engine.Action, bool) {
	return cheapest(state, func(c engine.Card, leading bool) int {
		return hardCost(state, c, leading, b.Tuning)
	})
}

// cheapest plays the lowest-cost card, first hand index on ties.
func cheapest(state engine.GameState, cost func(engine.Card, bool) int) (engine.Action, bool) {
	hand := state.Hands[Player]
	if len(hand) == 0 {
		return engine.Action{}, false
	}
	leading := state.TrickEmpty()
	best, bestCost := 0, 0
	for n, i := range engine.LegalMoves(hand) {
		c := cost(hand[i], leading)
		if n == 0 || c < bestCost {
			best, bestCost = i, c
		}
	}
	return engine.PlayCard(Player, best), true
}

func mediumCost(state engine.GameState, c engine.Card, leading bool, t Tuning) int {
	if leading {
		cost := engine.Points(c)
		if isTrump(state, c) {
			cost += t.LeadTrumpPenalty
		}
		return cost
	}
	if winsIfPlayed(state, c) {
		cost := engine.Points(c)
		if isTrump(state, c) {
			cost += t.FollowTrumpPenalty
		}
		return cost
	}
	return t.LosePenalty + engine.Points(c)
}

// hardCost adds stake and endgame awareness to mediumCost. When leading the
// trick resolves to the leader, so a lead always counts as a win.
func hardCost(state engine.GameState, c engine.Card, leading bool, t Tuning) int {
	base := mediumCost(state, c, leading, t)

	stake := engine.Points(c)
	if state.Trick[0] != nil {
		stake += engine.Points(*state.Trick[0])
	}
	endgame := state.Remaining() <= t.EndgameRemaining

	if winsIfPlayed(state, c) {
		bonus := t.LowValueBonus
		if stake >= t.HighValueThreshold {
			bonus = t.HighValueBonus
		}
		penalty := 0
		if isTrump(state, c) {
			penalty = t.HardTrumpPenalty
			if endgame {
				penalty = t.EndgameTrumpPenalty
			}
		}
		return base - bonus + penalty
	}
	if stake >= t.StakeThreshold {
		return base + t.HighStakeLossPenalty
	}
	return base + t.LowStakeLossPenalty
}

func winsIfPlayed(state engine.GameState, c engine.Card) bool {
	cards := state.Trick
	cards[Player] = &c
	return engine.TrickWinner(state.Leader, cards, trumpSuit(state)) == Player
}

func isTrump(state engine.GameState, c engine.Card) bool {
	return state.Trump != nil && c.Suit == *state.Trump
}

func trumpSuit(state engine.GameState) engine.Suit {
	if state.Trump == nil {
		return engine.Suit(-1)
	}
	return *state.Trump
}
