package game

import (
	"github.com/lox/holdem-trainer/poker"
)

// Player represents a seated player. Humans and bots share the same state;
// bots additionally carry a difficulty.
type Player struct {
	Name       string
	Chips      int
	Hole       []poker.Card
	Bet        int // chips committed during the current betting round
	Folded     bool
	AllIn      bool
	Bot        bool
	Difficulty Difficulty
	LastAction Action
	acted      bool
}

// NewPlayer creates a human player
func NewPlayer(name string, chips int) *Player {
	return &Player{Name: name, Chips: chips}
}

// NewBot creates a computer controlled player
func NewBot(name string, chips int, d Difficulty) *Player {
	return &Player{Name: name, Chips: chips, Bot: true, Difficulty: d}
}

// CanAct reports whether the player still makes decisions this hand.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// HasActed reports whether the player has acted since the last raise.
func (p *Player) HasActed() bool {
	return p.acted
}

// bet moves up to amount chips from the stack into the current round and
// returns what was actually committed. Committing the whole stack marks the
// player all-in.
func (p *Player) bet(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount >= p.Chips {
		amount = p.Chips
		p.AllIn = true
	}
	p.Chips -= amount
	p.Bet += amount
	return amount
}

func (p *Player) resetForHand() {
	p.Hole = nil
	p.Bet = 0
	p.Folded = false
	p.AllIn = false
	p.LastAction = Fold
	p.acted = false
}
