package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdem-trainer/poker"
)

// UncontestedHand labels a pot won without a showdown.
const UncontestedHand = "Uncontested"

// UncalledHand labels chips returned because nobody still in the hand matched them.
const UncalledHand = "Uncalled bet"

// Pot is one tier of the pot. Eligible lists the seats, still in the hand,
// whose contribution reaches the tier.
type Pot struct {
	Amount   int
	Tier     int // contribution level that closes this pot
	Eligible []int
}

// Result is one player's share of a settled hand.
type Result struct {
	Seat     int
	Player   *Player
	Amount   int
	Hand     string // category label, UncontestedHand or UncalledHand
	Value    poker.HandValue
	BestFive []poker.Card
	Returned bool // chips given back rather than won
}

// Settlement records how the pot of a finished hand was distributed.
type Settlement struct {
	Pots      []Pot
	Results   []Result
	Board     []poker.Card
	Showdown  bool
	TotalPaid int
}

// BuildPots splits per-seat contributions into tiered pots. Tiers are the
// distinct contributions of players still in the hand; each tier takes
// min(c, tier) - min(c, previous tier) from every contributor c, folded or
// not. Chips above the highest live contribution are returned per seat.
func BuildPots(contrib []int, folded []bool) (pots []Pot, returned []int) {
	var tiers []int
	for i, c := range contrib {
		if !folded[i] && c > 0 {
			tiers = append(tiers, c)
		}
	}
	slices.Sort(tiers)
	tiers = slices.Compact(tiers)

	prev := 0
	for _, tier := range tiers {
		pot := Pot{Tier: tier}
		for i, c := range contrib {
			pot.Amount += max(0, min(c, tier)-prev)
			if !folded[i] && c >= tier {
				pot.Eligible = append(pot.Eligible, i)
			}
		}
		pots = append(pots, pot)
		prev = tier
	}

	returned = make([]int, len(contrib))
	for i, c := range contrib {
		returned[i] = max(0, c-prev)
	}
	return pots, returned
}

// Pots returns the live hand's pots as they stand, without the chips that
// nobody still in the hand has matched.
func (g *Game) Pots() []Pot {
	folded := make([]bool, len(g.seats))
	for i, p := range g.seats {
		folded[i] = p.Folded
	}
	pots, _ := BuildPots(g.contrib, folded)
	return pots
}

// DetermineWinners settles the hand. When two or more players remain the
// board is run out and every pot goes to the best eligible hand, split
// evenly between ties; odd chips go one at a time to the tied winners
// nearest the dealer's left. A lone remaining player takes every pot they
// are eligible for without showing. The amounts returned always add up to
// the pot and are credited to the players' stacks.
func (g *Game) DetermineWinners() ([]Result, error) {
	if !g.live {
		return nil, ErrHandNotLive
	}

	showdown := g.InHand() >= 2
	if showdown {
		for g.street < River {
			if err := g.DealCommunityStage(); err != nil {
				return nil, fmt.Errorf("run out board: %w", err)
			}
		}
	}

	folded := make([]bool, len(g.seats))
	for i, p := range g.seats {
		folded[i] = p.Folded
	}
	pots, returned := BuildPots(g.contrib, folded)

	type evaluated struct {
		value poker.HandValue
		best  []poker.Card
	}
	hands := make(map[int]evaluated)
	if showdown {
		for i, p := range g.seats {
			if p.Folded {
				continue
			}
			best, v, err := poker.BestFive(append(slices.Clone(p.Hole), g.community...))
			if err != nil {
				return nil, fmt.Errorf("evaluate %s: %w", p.Name, err)
			}
			hands[i] = evaluated{v, best}
		}
	}

	won := make([]int, len(g.seats))
	var order []int
	award := func(seat, amount int) {
		if won[seat] == 0 && amount > 0 {
			order = append(order, seat)
		}
		won[seat] += amount
	}

	for _, pot := range pots {
		winners := pot.Eligible
		if showdown {
			winners = g.bestHands(pot.Eligible, func(seat int) poker.HandValue { return hands[seat].value })
		}
		if len(winners) == 0 {
			continue
		}
		share, odd := pot.Amount/len(winners), pot.Amount%len(winners)
		for i, seat := range g.fromDealerLeft(winners) {
			extra := 0
			if i < odd {
				extra = 1
			}
			award(seat, share+extra)
		}
	}

	var results []Result
	total := 0
	for _, seat := range order {
		r := Result{Seat: seat, Player: g.seats[seat], Amount: won[seat], Hand: UncontestedHand}
		if h, ok := hands[seat]; ok {
			r.Value, r.BestFive, r.Hand = h.value, h.best, h.value.Category.String()
		}
		results = append(results, r)
		total += r.Amount
	}
	for seat, amount := range returned {
		if amount > 0 {
			results = append(results, Result{Seat: seat, Player: g.seats[seat], Amount: amount, Hand: UncalledHand, Returned: true})
			total += amount
		}
	}

	for _, r := range results {
		r.Player.Chips += r.Amount
	}

	g.settlement = &Settlement{
		Pots:      pots,
		Results:   results,
		Board:     slices.Clone(g.community),
		Showdown:  showdown,
		TotalPaid: total,
	}
	g.street = Showdown
	g.live = false
	return results, nil
}

// bestHands returns the seats holding the strongest value.
func (g *Game) bestHands(seats []int, value func(int) poker.HandValue) []int {
	var best []int
	for _, s := range seats {
		if len(best) == 0 {
			best = []int{s}
			continue
		}
		switch value(s).Compare(value(best[0])) {
		case 1:
			best = []int{s}
		case 0:
			best = append(best, s)
		}
	}
	return best
}

// fromDealerLeft orders seats clockwise starting left of the dealer.
func (g *Game) fromDealerLeft(seats []int) []int {
	n := len(g.seats)
	ordered := slices.Clone(seats)
	slices.SortFunc(ordered, func(a, b int) int {
		return (a-g.dealer-1+n)%n - (b-g.dealer-1+n)%n
	})
	return ordered
}
