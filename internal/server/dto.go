package server

import (
	"errors"

	"briscola/internal/engine"
)

type CardDTO struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// ActionDTO is what a client may submit. Only PLAY_CARD is accepted online;
// the player comes from the seat, never from the client.
type ActionDTO struct {
	Type      string `json:"type"`
	HandIndex *int   `json:"handIndex,omitempty"`
}

var (
	errActionMissing   = errors.New("action missing")
	errHandIndex       = errors.New("handIndex required")
	errUnsupportedType = errors.New("unsupported action type")
)

func (a *ActionDTO) ToEngine(player int) (engine.Action, error) {
	if a == nil {
		return engine.Action{}, errActionMissing
	}
	switch a.Type {
	case engine.ActionPlayCard.String():
		if a.HandIndex == nil {
			return engine.Action{}, errHandIndex
		}
		return engine.PlayCard(player, *a.HandIndex), nil
	default:
		return engine.Action{}, errUnsupportedType
	}
}

func ActionFromEngine(a engine.Action) ActionDTO {
	dto := ActionDTO{Type: a.Type.String()}
	if a.Type == engine.ActionPlayCard {
		i := a.HandIndex
		dto.HandIndex = &i
	}
	return dto
}

func cardToDTO(c engine.Card) *CardDTO {
	return &CardDTO{Suit: c.Suit.String(), Rank: c.Rank.String()}
}
