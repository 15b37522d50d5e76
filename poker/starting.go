package poker

// StartingHand buckets two hole cards by how often they are worth playing.
type StartingHand string

const (
	StartingPremium StartingHand = "premium"
	StartingStrong  StartingHand = "strong"
	StartingMedium  StartingHand = "medium"
	StartingWeak    StartingHand = "weak"
	StartingTrash   StartingHand = "trash"
	StartingUnknown StartingHand = "unknown"
)

// ClassifyHole buckets hole cards: premium (JJ+, AK), strong (TT, AQ, AJ),
// medium (77-99, suited broadway), weak (22-66, suited connectors) and
// trash for the rest.
func ClassifyHole(hole []Card) StartingHand {
	if len(hole) != 2 || !hole[0].Valid() || !hole[1].Valid() {
		return StartingUnknown
	}
	low, high := hole[0].Rank, hole[1].Rank
	if low > high {
		low, high = high, low
	}
	pair := low == high
	suited := hole[0].Suit == hole[1].Suit

	switch {
	case pair && low >= Jack, low == King && high == Ace:
		return StartingPremium
	case pair && low == Ten, high == Ace && (low == Queen || low == Jack):
		return StartingStrong
	case pair && low >= Seven, suited && low >= Ten:
		return StartingMedium
	case pair, suited && high-low <= 2:
		return StartingWeak
	}
	return StartingTrash
}
