package server

import "briscola/internal/engine"

type EventPayload struct {
	Player int       `json:"player"`
	Cards  []CardDTO `json:"cards,omitempty"`
	Points []int     `json:"points,omitempty"`
}

// buildEvents describes what changed between prev and next. player is the
// seat that acted, -1 for timer-driven transitions.
func buildEvents(prev engine.GameState, next engine.GameState, player int, action engine.Action) []Event {
	events := []Event{}
	if action.Type == engine.ActionPlayCard && player >= 0 && action.HandIndex < len(prev.Hands[player]) {
		card := prev.Hands[player][action.HandIndex]
		events = append(events, Event{Type: "card_played", Data: EventPayload{Player: player, Cards: []CardDTO{*cardToDTO(card)}}})
	}

	for i := 0; i < engine.Players; i++ {
		if len(next.Captured[i]) > len(prev.Captured[i]) {
			won := make([]CardDTO, 0, 2)
			for _, c := range next.Captured[i][len(prev.Captured[i]):] {
				won = append(won, *cardToDTO(c))
			}
			events = append(events, Event{Type: "trick_won", Data: EventPayload{
				Player: i,
				Cards:  won,
				Points: []int{next.Scores[i] - prev.Scores[i]},
			}})
		}
	}

	if prev.Phase != engine.PhaseGameOver && next.Phase == engine.PhaseGameOver {
		w, ok := next.Winner()
		if !ok {
			w = -1
		}
		events = append(events, Event{Type: "game_over", Data: EventPayload{Player: w, Points: next.Scores[:]}})
	}
	return events
}
