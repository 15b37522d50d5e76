package game

import (
	"fmt"
)

// SmallBlindSeat returns the seat posting the small blind. Heads-up the
// dealer posts it.
func (g *Game) SmallBlindSeat() int {
	if len(g.seats) == 2 {
		return g.dealer
	}
	return (g.dealer + 1) % len(g.seats)
}

// BigBlindSeat returns the seat posting the big blind.
func (g *Game) BigBlindSeat() int {
	if len(g.seats) == 2 {
		return (g.dealer + 1) % len(g.seats)
	}
	return (g.dealer + 2) % len(g.seats)
}

// PostBlinds posts both blinds and returns the chips actually posted.
func (g *Game) PostBlinds() (small, big int) {
	small = g.PostBlind(g.SmallBlindSeat(), g.cfg.SmallBlind)
	big = g.PostBlind(g.BigBlindSeat(), g.cfg.BigBlind)
	return small, big
}

// PostBlind forces a bet of amount from seat. A blind at least as large as
// the stack puts the player all-in for the stack. Posting never counts as
// acting, so the big blind keeps the option to raise.
func (g *Game) PostBlind(seat, amount int) int {
	p := g.Seat(seat)
	if p == nil || !g.live {
		return 0
	}
	paid := g.commit(seat, amount)
	g.currentBet = max(g.currentBet, p.Bet)
	if seat == g.BigBlindSeat() {
		g.currentBet = max(g.currentBet, amount)
	}
	return paid
}

func (g *Game) commit(seat, amount int) int {
	paid := g.seats[seat].bet(amount)
	g.pot += paid
	g.contrib[seat] += paid
	return paid
}

// actor returns the player at seat if they can still act in a live hand.
func (g *Game) actor(seat int) (*Player, error) {
	if !g.live {
		return nil, ErrHandNotLive
	}
	p := g.Seat(seat)
	if p == nil {
		return nil, fmt.Errorf("%w: seat %d out of range", ErrIllegalAction, seat)
	}
	if p.Folded {
		return nil, fmt.Errorf("%w: %s has folded", ErrIllegalAction, p.Name)
	}
	if p.AllIn {
		return nil, fmt.Errorf("%w: %s is all-in", ErrIllegalAction, p.Name)
	}
	return p, nil
}

// ValidateAction reports whether the action is legal as given, without
// clamping. ApplyAction accepts anything ValidateAction rejects for amount
// reasons and clamps it instead.
func (g *Game) ValidateAction(seat int, action Action, amount int) error {
	p, err := g.actor(seat)
	if err != nil {
		return err
	}
	owed := g.currentBet - p.Bet

	switch action {
	case Fold, Call, AllIn:
		return nil
	case Check:
		if owed > 0 {
			return fmt.Errorf("%w: cannot check facing a bet of %d", ErrIllegalAction, owed)
		}
		return nil
	case Raise:
		if owed >= p.Chips {
			return fmt.Errorf("%w: not enough chips to raise", ErrIllegalAction)
		}
		if owed+amount > p.Chips {
			return fmt.Errorf("%w: raise of %d exceeds stack of %d after calling %d", ErrIllegalAction, amount, p.Chips, owed)
		}
		if amount < g.minRaise && owed+amount < p.Chips {
			return fmt.Errorf("%w: raise of %d is below the minimum of %d", ErrIllegalAction, amount, g.minRaise)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action %d", ErrIllegalAction, action)
	}
}

// ApplyAction applies an action for seat and returns the chips it moved into
// the pot. For Raise, amount is the increment over the call. Out of range
// amounts are clamped: a short raise is lifted to the minimum, anything
// beyond the stack is an all-in and a check facing a bet becomes a call.
func (g *Game) ApplyAction(seat int, action Action, amount int) (int, error) {
	p, err := g.actor(seat)
	if err != nil {
		return 0, err
	}
	owed := g.currentBet - p.Bet

	var paid int
	switch action {
	case Fold:
		p.Folded = true
	case Check, Call:
		paid = g.commit(seat, owed)
		switch {
		case p.AllIn:
			action = AllIn
		case paid > 0:
			action = Call
		default:
			action = Check
		}
	case Raise:
		paid = g.commit(seat, owed+max(amount, g.minRaise))
		if p.AllIn {
			action = AllIn
		}
		g.raiseTo(seat)
	case AllIn:
		paid = g.commit(seat, p.Chips)
		g.raiseTo(seat)
	default:
		return 0, fmt.Errorf("%w: unknown action %d", ErrIllegalAction, action)
	}

	p.LastAction = action
	p.acted = true
	return paid, nil
}

// raiseTo updates the betting level after seat put in more than the
// current bet. Every other active player must act again. Only a full raise
// moves the minimum raise.
func (g *Game) raiseTo(seat int) {
	p := g.seats[seat]
	if p.Bet <= g.currentBet {
		return
	}
	if increment := p.Bet - g.currentBet; increment >= g.minRaise {
		g.minRaise = increment
	}
	g.currentBet = p.Bet
	for i, o := range g.seats {
		if i != seat {
			o.acted = false
		}
	}
}

// PendingActors returns the seats that still need to act this round, in
// seat order. A lone player who can still act but has nobody left to bet
// against is not pending once the bet is matched.
func (g *Game) PendingActors() []int {
	if !g.live || g.InHand() < 2 {
		return nil
	}
	var active, pending []int
	for i, p := range g.seats {
		if !p.CanAct() {
			continue
		}
		active = append(active, i)
		if !p.acted || p.Bet < g.currentBet {
			pending = append(pending, i)
		}
	}
	if len(active) == 1 && g.seats[active[0]].Bet >= g.currentBet {
		return nil
	}
	return pending
}

// RoundComplete reports whether the current betting round is finished.
func (g *Game) RoundComplete() bool {
	return len(g.PendingActors()) == 0
}

// NextToAct returns the first pending seat after seat, or -1.
func (g *Game) NextToAct(seat int) int {
	return g.pendingFrom(seat + 1)
}

// FirstToAct returns the seat that opens the current round, or -1 when
// nobody needs to act. Pre-flop that is left of the big blind, afterwards
// left of the dealer.
func (g *Game) FirstToAct() int {
	if len(g.seats) == 0 {
		return -1
	}
	if g.street == PreFlop {
		return g.pendingFrom(g.BigBlindSeat() + 1)
	}
	return g.pendingFrom(g.dealer + 1)
}

func (g *Game) pendingFrom(start int) int {
	pending := g.PendingActors()
	if len(pending) == 0 {
		return -1
	}
	isPending := make(map[int]bool, len(pending))
	for _, s := range pending {
		isPending[s] = true
	}
	for i := range g.seats {
		s := (start + i) % len(g.seats)
		if isPending[s] {
			return s
		}
	}
	return -1
}

// DealFlop burns one card and deals three.
func (g *Game) DealFlop() error { return g.dealStage(PreFlop, 3) }

// DealTurn burns one card and deals one.
func (g *Game) DealTurn() error { return g.dealStage(Flop, 1) }

// DealRiver burns one card and deals one.
func (g *Game) DealRiver() error { return g.dealStage(Turn, 1) }

// DealCommunityStage deals whichever street comes next.
func (g *Game) DealCommunityStage() error {
	switch g.street {
	case PreFlop:
		return g.DealFlop()
	case Flop:
		return g.DealTurn()
	case Turn:
		return g.DealRiver()
	default:
		return fmt.Errorf("%w: no community cards left to deal on the %s", ErrIllegalAction, g.street)
	}
}

func (g *Game) dealStage(from Street, n int) error {
	if !g.live {
		return ErrHandNotLive
	}
	if g.street != from {
		return fmt.Errorf("%w: cannot deal the %s during the %s", ErrIllegalAction, from+1, g.street)
	}
	if _, err := g.deck.DealOne(); err != nil {
		return fmt.Errorf("burn card: %w", err)
	}
	cards, err := g.deck.Deal(n)
	if err != nil {
		return fmt.Errorf("deal %s: %w", from+1, err)
	}
	g.community = append(g.community, cards...)
	g.street = from + 1
	g.resetRound()
	return nil
}

// resetRound clears the per-round betting counters. Contributions to the
// pot are untouched.
func (g *Game) resetRound() {
	g.currentBet = 0
	g.minRaise = g.cfg.BigBlind
	for _, p := range g.seats {
		p.Bet = 0
		p.acted = false
	}
}
