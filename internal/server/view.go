package server

import "briscola/internal/engine"

type PlayerView struct {
	ID int `json:"id"`
	// Hand is only filled for the viewer.
	Hand      []CardDTO `json:"hand,omitempty"`
	HandCount int       `json:"handCount"`
	Score     int       `json:"score"`
	Captured  int       `json:"captured"`
	Trick     *CardDTO  `json:"trick,omitempty"`
}

type GameView struct {
	Phase           string       `json:"phase"`
	Mode            string       `json:"mode"`
	Viewer          int          `json:"viewer"`
	Players         []PlayerView `json:"players"`
	Leader          int          `json:"leader"`
	Turn            int          `json:"turn"`
	Trump           *string      `json:"trump,omitempty"`
	Briscola        *CardDTO     `json:"briscola,omitempty"`
	DeckCount       int          `json:"deckCount"`
	AwaitingResolve bool         `json:"awaitingTrickResolve"`
	TrickPauseMs    int64        `json:"trickPauseMs"`
	Log             []string     `json:"log"`
	Seed            *int64       `json:"seed,omitempty"`
	LegalMoves      []int        `json:"legalMoves"`
	Winner          *int         `json:"winner,omitempty"`
}

// BuildGameView renders g for the player seated at viewer. The opponent's
// hand and the stock are reduced to counts.
func BuildGameView(g engine.GameState, viewer int) *GameView {
	players := make([]PlayerView, 0, engine.Players)
	for i := 0; i < engine.Players; i++ {
		view := PlayerView{
			ID:        i,
			HandCount: len(g.Hands[i]),
			Score:     g.Scores[i],
			Captured:  len(g.Captured[i]),
		}
		if i == viewer {
			view.Hand = make([]CardDTO, 0, len(g.Hands[i]))
			for _, c := range g.Hands[i] {
				view.Hand = append(view.Hand, *cardToDTO(c))
			}
		}
		if g.Trick[i] != nil {
			view.Trick = cardToDTO(*g.Trick[i])
		}
		players = append(players, view)
	}

	var trump *string
	if g.Trump != nil {
		s := g.Trump.String()
		trump = &s
	}
	var briscola *CardDTO
	if g.Briscola != nil {
		briscola = cardToDTO(*g.Briscola)
	}
	legal := []int{}
	if viewer >= 0 && viewer < engine.Players && g.Phase == engine.PhasePlaying &&
		g.Turn == viewer && !g.AwaitingResolve {
		legal = engine.LegalMoves(g.Hands[viewer])
	}
	var winner *int
	if w, ok := g.Winner(); ok {
		winner = &w
	}
	return &GameView{
		Phase:           g.Phase.String(),
		Mode:            g.Mode.String(),
		Viewer:          viewer,
		Players:         players,
		Leader:          g.Leader,
		Turn:            g.Turn,
		Trump:           trump,
		Briscola:        briscola,
		DeckCount:       len(g.Deck),
		AwaitingResolve: g.AwaitingResolve,
		TrickPauseMs:    g.TrickPause.Milliseconds(),
		Log:             append([]string{}, g.Log...),
		Seed:            g.Seed,
		LegalMoves:      legal,
		Winner:          winner,
	}
}
