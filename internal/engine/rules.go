package engine

// rankOrder lists ranks strongest first.
var rankOrder = [...]Rank{RankA, Rank3, RankK, RankQ, RankJ, Rank7, Rank6, Rank5, Rank4, Rank2}

// RankOrder is the rank's position in A,3,K,Q,J,7,6,5,4,2; lower is stronger.
func RankOrder(r Rank) int {
	for i, o := range rankOrder {
		if o == r {
			return i
		}
	}
	return len(rankOrder)
}

// Points is the card's scoring value. A full deck is worth 120.
func Points(c Card) int {
	switch c.Rank {
	case RankA:
		return 11
	case Rank3:
		return 10
	case RankK:
		return 4
	case RankQ:
		return 3
	case RankJ:
		return 2
	default:
		return 0
	}
}

// TrickWinner resolves a two-card trick indexed by player. A trump beats any
// non-trump; within one suit the stronger rank wins; otherwise the leader keeps
// the trick, since an off-suit non-trump follow can never beat the lead.
// With a card missing the leader is returned.
func TrickWinner(leader int, cards [Players]*Card, trump Suit) int {
	follower := other(leader)
	lead, follow := cards[leader], cards[follower]
	if lead == nil || follow == nil {
		return leader
	}

	leadTrump := lead.Suit == trump
	followTrump := follow.Suit == trump
	if leadTrump && !followTrump {
		return leader
	}
	if !leadTrump && followTrump {
		return follower
	}
	if lead.Suit == follow.Suit {
		if RankOrder(lead.Rank) < RankOrder(follow.Rank) {
			return leader
		}
		return follower
	}
	return leader
}

// LegalMoves lists playable hand indices. Briscola has no obligation to follow suit.
func LegalMoves(hand []Card) []int {
	out := make([]int, len(hand))
	for i := range hand {
		out[i] = i
	}
	return out
}

func trickPoints(cards [Players]*Card) int {
	total := 0
	for _, c := range cards {
		if c != nil {
			total += Points(*c)
		}
	}
	return total
}
