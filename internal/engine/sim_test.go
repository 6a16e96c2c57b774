package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"briscola/internal/engine"
	"briscola/internal/engine/sim"
)

func TestSelfPlayInvariants(t *testing.T) {
	for _, mode := range []engine.Mode{engine.ModeHotseat, engine.ModeVsBot, engine.ModeOnline} {
		for seed := int64(1); seed <= 200; seed++ {
			final, err := sim.RunGame(seed, mode, [engine.Players]sim.Chooser{})
			require.NoError(t, err)
			require.Equal(t, engine.PhaseGameOver, final.Phase)
		}
	}
}

func TestSelfPlayDeterministic(t *testing.T) {
	a, err := sim.RunGame(99, engine.ModeVsBot, [engine.Players]sim.Chooser{})
	require.NoError(t, err)
	b, err := sim.RunGame(99, engine.ModeVsBot, [engine.Players]sim.Chooser{})
	require.NoError(t, err)
	require.Equal(t, a.Scores, b.Scores)
	require.Equal(t, a.Captured, b.Captured)
}

func FuzzSelfPlay(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(42))
	f.Add(int64(-17))
	f.Fuzz(func(t *testing.T, seed int64) {
		if _, err := sim.RunGame(seed, engine.ModeHotseat, [engine.Players]sim.Chooser{}); err != nil {
			t.Fatal(err)
		}
	})
}
