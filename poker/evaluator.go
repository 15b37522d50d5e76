package poker

import (
	"fmt"
	"slices"
)

// Category is the class of a five card hand, ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = [...]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (c Category) String() string {
	if c < HighCard || c > RoyalFlush {
		return "Unknown"
	}
	return categoryNames[c]
}

// HandValue is the totally ordered strength of a hand. Two values compare by
// category first and then by tiebreaker ranks, element by element.
type HandValue struct {
	Category    Category
	Tiebreakers []Rank
}

// Compare returns 1 if v beats o, -1 if o beats v and 0 on a tie.
func (v HandValue) Compare(o HandValue) int {
	if v.Category != o.Category {
		if v.Category > o.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(v.Tiebreakers) && i < len(o.Tiebreakers); i++ {
		if v.Tiebreakers[i] != o.Tiebreakers[i] {
			if v.Tiebreakers[i] > o.Tiebreakers[i] {
				return 1
			}
			return -1
		}
	}
	switch {
	case len(v.Tiebreakers) > len(o.Tiebreakers):
		return 1
	case len(v.Tiebreakers) < len(o.Tiebreakers):
		return -1
	}
	return 0
}

// Beats reports whether v is strictly stronger than o.
func (v HandValue) Beats(o HandValue) bool {
	return v.Compare(o) > 0
}

func (v HandValue) String() string {
	return v.Category.String()
}

// Evaluate returns the value of the best five card hand that can be made
// from cards. At least five cards are required.
func Evaluate(cards []Card) (HandValue, error) {
	_, value, err := BestFive(cards)
	return value, err
}

// BestFive returns the strongest five card subset of cards along with its value.
func BestFive(cards []Card) ([]Card, HandValue, error) {
	if len(cards) < 5 {
		return nil, HandValue{}, fmt.Errorf("evaluate %d cards: %w", len(cards), ErrInvalidHandSize)
	}
	if len(cards) == 5 {
		hand := slices.Clone(cards)
		return hand, evaluateFive(hand), nil
	}

	var (
		best      HandValue
		bestCards []Card
		hand      [5]Card
	)
	forEachCombination(len(cards), 5, func(idx []int) {
		for i, j := range idx {
			hand[i] = cards[j]
		}
		value := evaluateFive(hand[:])
		if bestCards == nil || value.Beats(best) {
			best = value
			bestCards = slices.Clone(hand[:])
		}
	})
	return bestCards, best, nil
}

// CompareHands returns 1 if a wins, -1 if b wins and 0 for a tie.
func CompareHands(a, b []Card) (int, error) {
	va, err := Evaluate(a)
	if err != nil {
		return 0, err
	}
	vb, err := Evaluate(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// BestHandName returns the category label of the best hand in cards.
func BestHandName(cards []Card) (string, error) {
	v, err := Evaluate(cards)
	if err != nil {
		return "", err
	}
	return v.Category.String(), nil
}

// evaluateFive classifies exactly five cards.
func evaluateFive(hand []Card) HandValue {
	ranks := make([]Rank, len(hand))
	for i, c := range hand {
		ranks[i] = c.Rank
	}
	slices.SortFunc(ranks, func(a, b Rank) int { return int(b) - int(a) })

	flush := true
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			flush = false
			break
		}
	}
	top, straight := straightTop(ranks)

	// groups ordered by count then rank, both descending
	var counts [Ace + 1]int
	for _, r := range ranks {
		counts[r]++
	}
	type group struct {
		rank  Rank
		count int
	}
	groups := make([]group, 0, 5)
	for _, r := range ranks {
		if counts[r] > 0 {
			groups = append(groups, group{r, counts[r]})
			counts[r] = 0
		}
	}
	slices.SortStableFunc(groups, func(a, b group) int { return b.count - a.count })

	kickers := func(from int) []Rank {
		out := make([]Rank, 0, 5)
		out = append(out, groups[0].rank)
		for _, g := range groups[from:] {
			out = append(out, g.rank)
		}
		return out
	}

	switch {
	case straight && flush && top == Ace:
		return HandValue{RoyalFlush, []Rank{Ace}}
	case straight && flush:
		return HandValue{StraightFlush, []Rank{top}}
	case groups[0].count == 4:
		return HandValue{FourOfAKind, []Rank{groups[0].rank, groups[1].rank}}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandValue{FullHouse, []Rank{groups[0].rank, groups[1].rank}}
	case flush:
		return HandValue{Flush, ranks}
	case straight:
		return HandValue{Straight, []Rank{top}}
	case groups[0].count == 3:
		return HandValue{ThreeOfAKind, kickers(1)}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandValue{TwoPair, []Rank{groups[0].rank, groups[1].rank, groups[2].rank}}
	case groups[0].count == 2:
		return HandValue{Pair, kickers(1)}
	default:
		return HandValue{HighCard, ranks}
	}
}

// straightTop reports whether the descending ranks form a straight and
// returns its top card. The wheel A-2-3-4-5 plays the Ace low.
func straightTop(ranks []Rank) (Rank, bool) {
	if len(ranks) != 5 {
		return 0, false
	}
	if slices.Equal(ranks, []Rank{Ace, Five, Four, Three, Two}) {
		return Five, true
	}
	for i := 1; i < len(ranks); i++ {
		if ranks[i-1] != ranks[i]+1 {
			return 0, false
		}
	}
	return ranks[0], true
}

// forEachCombination calls fn with every k-element index subset of [0, n)
// in lexicographic order. The slice passed to fn is reused between calls.
func forEachCombination(n, k int, fn func([]int)) {
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
