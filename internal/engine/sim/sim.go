package sim

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"briscola/internal/engine"
)

// Chooser picks the next action for the player whose turn it is.
type Chooser func(state engine.GameState, player int) engine.Action

type ActionRecord struct {
	Step int
	P    int
	A    engine.Action
	Card engine.Card
}

// RunGame plays one full game from seed, checking invariants after every
// transition. A nil chooser plays the lowest-value card.
func RunGame(seed int64, mode engine.Mode, choosers [engine.Players]Chooser) (engine.GameState, error) {
	state, err := engine.Apply(engine.Initial(), engine.StartGame(&seed, mode, engine.DifficultyMedium, 0))
	if err != nil {
		return state, err
	}

	records := []ActionRecord{}
	const maxSteps = 200
	for step := 0; step < maxSteps; step++ {
		if state.Phase == engine.PhaseGameOver {
			return state, checkFinal(state)
		}

		var action engine.Action
		switch {
		case state.AwaitingResolve:
			action = engine.ResolveTrick()
		case state.Overlay != nil && state.Overlay.Active:
			action = engine.ReadyForTurn(state.Overlay.Player)
		default:
			pick := choosers[state.Turn]
			if pick == nil {
				pick = LowestPoints
			}
			action = pick(state, state.Turn)
		}

		prev := state
		next, err := engine.Apply(state, action)
		if err != nil {
			return state, failure(seed, step, state, records, fmt.Sprintf("apply %v: %v", action.Type, err))
		}
		rec := ActionRecord{Step: step, P: action.Player, A: action}
		if action.Type == engine.ActionPlayCard {
			rec.Card = prev.Hands[action.Player][action.HandIndex]
		}
		records = append(records, rec)
		if err := checkInvariants(prev, next); err != nil {
			return next, failure(seed, step, next, records, err.Error())
		}
		state = next
	}
	return state, failure(seed, maxSteps, state, records, "game did not finish")
}

// LowestPoints plays the cheapest card, weakest rank on ties.
func LowestPoints(state engine.GameState, player int) engine.Action {
	hand := state.Hands[player]
	best := 0
	for i := 1; i < len(hand); i++ {
		pi, pb := engine.Points(hand[i]), engine.Points(hand[best])
		if pi < pb || (pi == pb && engine.RankOrder(hand[i].Rank) > engine.RankOrder(hand[best].Rank)) {
			best = i
		}
	}
	return engine.PlayCard(player, best)
}

func checkInvariants(prev, state engine.GameState) error {
	total, dup := countCards(state)
	if total != engine.DeckSize {
		return fmt.Errorf("card count mismatch: %d", total)
	}
	if total != state.CardCount() {
		return fmt.Errorf("CardCount disagrees: %d vs %d", state.CardCount(), total)
	}
	if dup {
		return fmt.Errorf("duplicate card detected")
	}
	for p := 0; p < engine.Players; p++ {
		if state.Scores[p] < prev.Scores[p] {
			return fmt.Errorf("score for player %d went down: %d -> %d", p, prev.Scores[p], state.Scores[p])
		}
		pts := 0
		for _, c := range state.Captured[p] {
			pts += engine.Points(c)
		}
		if pts != state.Scores[p] {
			return fmt.Errorf("score %d does not match captured points %d for player %d", state.Scores[p], pts, p)
		}
		if len(state.Hands[p]) > engine.HandSize {
			return fmt.Errorf("hand size too large: %d", len(state.Hands[p]))
		}
	}
	if state.Trump == nil || prev.Trump == nil || *state.Trump != *prev.Trump {
		return fmt.Errorf("trump suit changed")
	}
	filled := state.Trick[0] != nil && state.Trick[1] != nil
	if filled != state.AwaitingResolve {
		return fmt.Errorf("awaiting resolve %v with trick filled %v", state.AwaitingResolve, filled)
	}
	if len(state.Log) > engine.LogCapacity {
		return fmt.Errorf("log exceeds capacity: %d", len(state.Log))
	}
	return nil
}

func checkFinal(state engine.GameState) error {
	if state.Scores[0]+state.Scores[1] != 120 {
		return fmt.Errorf("final scores %v do not sum to 120", state.Scores)
	}
	if state.Remaining() != 0 || len(state.Hands[0]) != 0 || len(state.Hands[1]) != 0 {
		return fmt.Errorf("game over with cards left")
	}
	return nil
}

func countCards(state engine.GameState) (int, bool) {
	seen := map[engine.Card]bool{}
	total := 0
	dup := false
	add := func(c engine.Card) {
		total++
		if seen[c] {
			dup = true
		}
		seen[c] = true
	}
	for p := 0; p < engine.Players; p++ {
		for _, c := range state.Hands[p] {
			add(c)
		}
		for _, c := range state.Captured[p] {
			add(c)
		}
		if state.Trick[p] != nil {
			add(*state.Trick[p])
		}
	}
	for _, c := range state.Deck {
		add(c)
	}
	if state.Briscola != nil {
		add(*state.Briscola)
	}
	return total, dup
}

func failure(seed int64, step int, state engine.GameState, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[s%d p%d %v] %v\n", r.Step, r.P, r.A.Type, r.Card)
	}
	return fmt.Errorf("seed=%d step=%d phase=%v reason=%s\nlast actions:\n%sstate:\n%s",
		seed, step, state.Phase, reason, log, spew.Sdump(state))
}
