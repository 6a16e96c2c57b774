package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func started(t *testing.T, seed int64, mode Mode) GameState {
	t.Helper()
	g, err := Apply(Initial(), StartGame(&seed, mode, DifficultyMedium, 0))
	require.NoError(t, err)
	return g
}

func TestStartGameFromMenu(t *testing.T) {
	g := started(t, 42, ModeVsBot)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Equal(t, ModeVsBot, g.Mode)
	assert.Nil(t, g.Overlay)
	assert.Equal(t, DefaultTrickPause, g.TrickPause)
}

func TestPlayOutOfTurnRejected(t *testing.T) {
	g := started(t, 42, ModeVsBot)
	next, err := Apply(g, PlayCard(1, 0))
	require.ErrorIs(t, err, ErrNotYourTurn)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, g, next)
}

func TestPlayRejections(t *testing.T) {
	g := started(t, 7, ModeHotseat)

	_, err := Apply(Initial(), PlayCard(0, 0))
	assert.ErrorIs(t, err, ErrWrongPhase)

	_, err = Apply(g, PlayCard(0, 3))
	assert.ErrorIs(t, err, ErrBadHandIndex)
	_, err = Apply(g, PlayCard(0, -1))
	assert.ErrorIs(t, err, ErrBadHandIndex)

	g, err = Apply(g, PlayCard(0, 0))
	require.NoError(t, err)
	require.NotNil(t, g.Overlay)
	_, err = Apply(g, PlayCard(1, 0))
	assert.ErrorIs(t, err, ErrOverlayActive)
}

func TestPlayDoesNotMutateInput(t *testing.T) {
	g := started(t, 11, ModeVsBot)
	hand := append([]Card(nil), g.Hands[0]...)

	next, err := Apply(g, PlayCard(0, 1))
	require.NoError(t, err)
	assert.Equal(t, hand, g.Hands[0])
	assert.True(t, g.TrickEmpty())
	assert.Len(t, next.Hands[0], HandSize-1)
	require.NotNil(t, next.Trick[0])
	assert.Equal(t, hand[1], *next.Trick[0])
	assert.Equal(t, 1, next.Turn)
	assert.Equal(t, 0, next.LastPlayer)
	assert.Equal(t, "Player 1 played.", next.Log[len(next.Log)-1])
}

func TestHotseatOverlayFlow(t *testing.T) {
	g := started(t, 5, ModeHotseat)
	assert.Nil(t, g.Overlay)
	assert.Equal(t, 0, g.ViewPlayer)

	g, err := Apply(g, PlayCard(0, 0))
	require.NoError(t, err)
	require.NotNil(t, g.Overlay)
	assert.Equal(t, Overlay{Active: true, Player: 1, Message: "Pass device to Player 2"}, *g.Overlay)
	assert.Equal(t, -1, g.ViewPlayer)

	_, err = Apply(g, ReadyForTurn(0))
	assert.ErrorIs(t, err, ErrNoOverlay)

	g, err = Apply(g, ReadyForTurn(1))
	require.NoError(t, err)
	assert.Nil(t, g.Overlay)
	assert.Equal(t, 1, g.ViewPlayer)

	g, err = Apply(g, PlayCard(1, 0))
	require.NoError(t, err)
	assert.True(t, g.AwaitingResolve)
	assert.Nil(t, g.Overlay)

	_, err = Apply(g, PlayCard(0, 0))
	assert.ErrorIs(t, err, ErrResolvePending)

	g, err = Apply(g, ResolveTrick())
	require.NoError(t, err)
	if g.Turn == 0 {
		require.NotNil(t, g.Overlay)
		assert.Equal(t, "Pass back to Player 1", g.Overlay.Message)
		assert.Equal(t, 0, g.Overlay.Player)
	} else {
		require.NotNil(t, g.Overlay)
		assert.Equal(t, "Pass device to Player 2", g.Overlay.Message)
	}
}

func TestReadyWithoutOverlayRejected(t *testing.T) {
	g := started(t, 5, ModeVsBot)
	next, err := Apply(g, ReadyForTurn(0))
	assert.ErrorIs(t, err, ErrNoOverlay)
	assert.Equal(t, g, next)
}

func TestResolveScoresAndRedraws(t *testing.T) {
	g := started(t, 42, ModeVsBot)
	deckBefore := len(g.Deck)

	g, err := Apply(g, PlayCard(0, 0))
	require.NoError(t, err)
	g, err = Apply(g, PlayCard(1, 0))
	require.NoError(t, err)
	require.True(t, g.AwaitingResolve)

	lead, follow := *g.Trick[0], *g.Trick[1]
	want := TrickWinner(0, g.Trick, *g.Trump)
	points := Points(lead) + Points(follow)

	next, err := Apply(g, ResolveTrick())
	require.NoError(t, err)
	assert.Equal(t, points, next.Scores[want])
	assert.Equal(t, 0, next.Scores[other(want)])
	assert.Equal(t, []Card{lead, follow}, next.Captured[want])
	assert.Equal(t, want, next.Leader)
	assert.Equal(t, want, next.Turn)
	assert.True(t, next.TrickEmpty())
	assert.False(t, next.AwaitingResolve)
	assert.Len(t, next.Hands[0], HandSize)
	assert.Len(t, next.Hands[1], HandSize)
	assert.Len(t, next.Deck, deckBefore-2)

	// The winner draws first, from the end of the stock.
	assert.Equal(t, g.Deck[len(g.Deck)-1], next.Hands[want][HandSize-1])
	assert.Equal(t, g.Deck[len(g.Deck)-2], next.Hands[other(want)][HandSize-1])
}

func TestResolveWithoutTrickRejected(t *testing.T) {
	g := started(t, 1, ModeVsBot)
	next, err := Apply(g, ResolveTrick())
	assert.ErrorIs(t, err, ErrNoResolvePending)
	assert.Equal(t, g, next)
}

func TestLoserTakesBriscolaWhenStockEmpty(t *testing.T) {
	trump := SuitClubs
	briscola := Card{Suit: SuitClubs, Rank: Rank4}
	last := Card{Suit: SuitCoins, Rank: Rank5}
	g := Initial()
	g.Phase = PhasePlaying
	g.Mode = ModeVsBot
	g.Trump = &trump
	g.Briscola = &briscola
	g.Deck = []Card{last}
	g.Trick = [Players]*Card{card(SuitCups, RankA), card(SuitCups, Rank2)}
	g.AwaitingResolve = true

	next, err := Apply(g, ResolveTrick())
	require.NoError(t, err)
	assert.Equal(t, []Card{last}, next.Hands[0])
	assert.Equal(t, []Card{briscola}, next.Hands[1])
	assert.Nil(t, next.Briscola)
	assert.Empty(t, next.Deck)
	assert.Equal(t, PhasePlaying, next.Phase)
	assert.NotNil(t, g.Briscola, "input state untouched")
}

func TestFinalTrickEndsGame(t *testing.T) {
	trump := SuitCups
	g := Initial()
	g.Phase = PhasePlaying
	g.Mode = ModeHotseat
	g.Trump = &trump
	g.Leader = 1
	g.Scores = [Players]int{60, 49}
	g.Trick = [Players]*Card{card(SuitSwords, RankA), card(SuitCoins, Rank2)}
	g.AwaitingResolve = true

	next, err := Apply(g, ResolveTrick())
	require.NoError(t, err)
	assert.Equal(t, PhaseGameOver, next.Phase)
	assert.Equal(t, [Players]int{60, 60}, next.Scores)
	assert.Nil(t, next.Overlay)
	assert.Equal(t, "Tie game.", next.Log[len(next.Log)-1])
	_, ok := next.Winner()
	assert.False(t, ok)
}

func TestRestartAndNextTrick(t *testing.T) {
	g := started(t, 3, ModeHotseat)

	same, err := Apply(g, Action{Type: ActionNextTrick})
	require.NoError(t, err)
	assert.Equal(t, g, same)

	reset, err := Apply(g, Action{Type: ActionRestart})
	require.NoError(t, err)
	assert.Equal(t, Initial(), reset)

	_, err = Apply(g, Action{Type: ActionType(99)})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestLogKeepsLastEntries(t *testing.T) {
	var log []string
	for _, m := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		log = appendLog(log, m)
	}
	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, log)
}

func TestFullGameEndsAt120(t *testing.T) {
	g := started(t, 42, ModeHotseat)
	for steps := 0; g.Phase == PhasePlaying; steps++ {
		require.Less(t, steps, 200)
		var err error
		switch {
		case g.AwaitingResolve:
			g, err = Apply(g, ResolveTrick())
		case g.Overlay != nil:
			g, err = Apply(g, ReadyForTurn(g.Overlay.Player))
		default:
			g, err = Apply(g, PlayCard(g.Turn, len(g.Hands[g.Turn])-1))
		}
		require.NoError(t, err)
		require.Equal(t, DeckSize, g.CardCount())
	}
	assert.Equal(t, PhaseGameOver, g.Phase)
	assert.Equal(t, 120, g.Scores[0]+g.Scores[1])
	assert.Zero(t, g.Remaining())
}
