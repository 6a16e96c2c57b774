package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briscola/internal/engine"
)

func TestViewHidesOpponentHand(t *testing.T) {
	seed := int64(42)
	g := engine.NewGameWithMode(&seed, engine.ModeOnline)

	v := BuildGameView(g, 1)
	assert.Equal(t, 1, v.Viewer)
	assert.Nil(t, v.Players[0].Hand)
	require.Len(t, v.Players[1].Hand, engine.HandSize)
	assert.Equal(t, *cardToDTO(g.Hands[1][0]), v.Players[1].Hand[0])
	assert.Equal(t, engine.DeckSize-2*engine.HandSize-1, v.DeckCount)
	require.NotNil(t, v.Trump)
	assert.Equal(t, g.Trump.String(), *v.Trump)
	assert.Equal(t, int64(900), v.TrickPauseMs)
	assert.Nil(t, v.Winner)
}

func TestEventsForResolvedFinalTrick(t *testing.T) {
	trump := engine.SuitCups
	prev := engine.Initial()
	prev.Phase = engine.PhasePlaying
	prev.Mode = engine.ModeOnline
	prev.Trump = &trump
	prev.Scores = [engine.Players]int{50, 59}
	a := engine.Card{Suit: engine.SuitCups, Rank: engine.RankA}
	two := engine.Card{Suit: engine.SuitCoins, Rank: engine.Rank2}
	prev.Trick = [engine.Players]*engine.Card{&two, &a}
	prev.AwaitingResolve = true

	next, err := engine.Apply(prev, engine.ResolveTrick())
	require.NoError(t, err)

	events := buildEvents(prev, next, -1, engine.ResolveTrick())
	require.Len(t, events, 2)
	assert.Equal(t, "trick_won", events[0].Type)
	assert.Equal(t, EventPayload{
		Player: 1,
		Cards:  []CardDTO{*cardToDTO(two), *cardToDTO(a)},
		Points: []int{11},
	}, events[0].Data)
	assert.Equal(t, "game_over", events[1].Type)
	assert.Equal(t, EventPayload{Player: 1, Points: []int{50, 70}}, events[1].Data)

	v := BuildGameView(next, 0)
	require.NotNil(t, v.Winner)
	assert.Equal(t, 1, *v.Winner)
}

func TestPlayCardDTO(t *testing.T) {
	a, err := (&ActionDTO{Type: "PLAY_CARD", HandIndex: intPtr(2)}).ToEngine(1)
	require.NoError(t, err)
	assert.Equal(t, engine.PlayCard(1, 2), a)
	assert.Equal(t, ActionDTO{Type: "PLAY_CARD", HandIndex: intPtr(2)}, ActionFromEngine(a))

	_, err = (&ActionDTO{Type: "RESOLVE_TRICK"}).ToEngine(0)
	assert.ErrorIs(t, err, errUnsupportedType)
}
