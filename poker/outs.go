package poker

import (
	"slices"
)

// Outs groups the unseen cards that would improve a hand by the category
// the improved hand would make.
type Outs map[Category][]Card

// Total returns the number of distinct out cards.
func (o Outs) Total() int {
	n := 0
	for _, cards := range o {
		n += len(cards)
	}
	return n
}

// Categories returns the improvement categories, strongest first.
func (o Outs) Categories() []Category {
	cats := make([]Category, 0, len(o))
	for c := range o {
		cats = append(cats, c)
	}
	slices.SortFunc(cats, func(a, b Category) int { return int(b) - int(a) })
	return cats
}

// Cards returns every out card, grouped by category strongest first.
func (o Outs) Cards() []Card {
	var cards []Card
	for _, c := range o.Categories() {
		cards = append(cards, o[c]...)
	}
	return cards
}

// CalculateOuts returns every card not in hole, community or known that,
// added to hole and community, makes a strictly better hand than the
// current one. While fewer than five cards are visible any card that
// completes a five card hand counts as an improvement.
func CalculateOuts(hole, community, known []Card) (Outs, error) {
	current := slices.Concat(hole, community)

	seen := make(map[Card]struct{}, len(current)+len(known))
	for _, c := range current {
		seen[c] = struct{}{}
	}
	for _, c := range known {
		seen[c] = struct{}{}
	}

	var (
		base    HandValue
		hasBase bool
	)
	if len(current) >= 5 {
		v, err := Evaluate(current)
		if err != nil {
			return nil, err
		}
		base, hasBase = v, true
	}

	outs := Outs{}
	candidate := make([]Card, len(current)+1)
	copy(candidate, current)
	for _, card := range FullDeck() {
		if _, ok := seen[card]; ok {
			continue
		}
		candidate[len(current)] = card
		if len(candidate) < 5 {
			continue
		}
		v, err := Evaluate(candidate)
		if err != nil {
			return nil, err
		}
		if !hasBase || v.Beats(base) {
			outs[v.Category] = append(outs[v.Category], card)
		}
	}
	return outs, nil
}

// Improving keeps only the outs that lift the hand above the given category,
// dropping kicker-only improvements.
func (o Outs) Improving(current Category) Outs {
	out := Outs{}
	for c, cards := range o {
		if c > current {
			out[c] = cards
		}
	}
	return out
}
