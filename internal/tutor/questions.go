// Package tutor builds the quiz questions asked after each community card
// street and grades the answers.
package tutor

import (
	"fmt"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/odds"
	"github.com/lox/holdem-trainer/poker"
)

// Kind identifies a question type.
type Kind int

const (
	PotOdds Kind = iota
	Outs
	WinOdds
	HandStrength
)

func (k Kind) String() string {
	switch k {
	case PotOdds:
		return "pot_odds"
	case Outs:
		return "outs"
	case WinOdds:
		return "win_odds"
	case HandStrength:
		return "hand_strength"
	default:
		return "unknown"
	}
}

// Situation is the hero's view of the hand when the quiz is asked. The
// answers to every question are derived from it.
type Situation struct {
	Street    game.Street
	Hole      []poker.Card
	Community []poker.Card
	Pot       int
	ToCall    int
	Hand      poker.HandValue
	Outs      poker.Outs // only cards that lift the hand to a better category
}

// NewSituation evaluates the hero's snapshot. It needs at least the flop.
func NewSituation(snap game.Snapshot) (Situation, error) {
	cards := append(append([]poker.Card(nil), snap.Hole...), snap.Community...)
	hand, err := poker.Evaluate(cards)
	if err != nil {
		return Situation{}, fmt.Errorf("evaluate hero hand: %w", err)
	}
	outs, err := poker.CalculateOuts(snap.Hole, snap.Community, nil)
	if err != nil {
		return Situation{}, fmt.Errorf("calculate outs: %w", err)
	}
	return Situation{
		Street:    snap.Street,
		Hole:      snap.Hole,
		Community: snap.Community,
		Pot:       snap.Pot,
		ToCall:    snap.ToCall(),
		Hand:      hand,
		Outs:      outs.Improving(hand.Category),
	}, nil
}

// TotalOuts counts the improving cards.
func (s Situation) TotalOuts() int {
	return s.Outs.Total()
}

// Unseen is the number of cards the hero cannot see.
func (s Situation) Unseen() int {
	return 52 - len(s.Hole) - len(s.Community)
}

// PotOdds is the ratio the pot currently lays.
func (s Situation) PotOdds() odds.Ratio {
	return odds.PotOdds(s.Pot, s.ToCall)
}

// WinOdds is the ratio against hitting an out on the next card.
func (s Situation) WinOdds() odds.Ratio {
	return odds.EquityOdds(s.TotalOuts(), len(s.Community))
}

// Question is a single quiz prompt.
type Question struct {
	Kind      Kind
	Prompt    string
	Hint      string
	Situation Situation
}

// Expected renders the correct answer.
func (q Question) Expected() string {
	switch q.Kind {
	case PotOdds:
		return q.Situation.PotOdds().String()
	case Outs:
		return fmt.Sprintf("%d", q.Situation.TotalOuts())
	case WinOdds:
		return q.Situation.WinOdds().String()
	case HandStrength:
		return q.Situation.Hand.Category.String()
	default:
		return ""
	}
}

// Questions returns the quiz for a situation. Pot odds are only asked when
// facing a bet; outs when there are any or the turn or river is out; win
// odds only when there are outs.
func Questions(s Situation) []Question {
	var qs []Question

	if s.ToCall > 0 {
		qs = append(qs, Question{
			Kind:      PotOdds,
			Prompt:    fmt.Sprintf("What are the pot odds? (X:1 or X.X:1)\nPot: $%d, you need to call: $%d", s.Pot, s.ToCall),
			Hint:      "Formula: (pot + call) / call",
			Situation: s,
		})
	}

	total := s.TotalOuts()
	if total > 0 || s.Street == game.Turn || s.Street == game.River {
		qs = append(qs, outsQuestion(s))
	}

	if total > 0 {
		qs = append(qs, Question{
			Kind:      WinOdds,
			Prompt:    fmt.Sprintf("What are the odds against improving? (X:1 or X.X:1)\nYou have %d outs, %d unknown cards remain", total, s.Unseen()),
			Hint:      "Formula: (unknown cards - outs) / outs",
			Situation: s,
		})
	}

	qs = append(qs, Question{
		Kind:      HandStrength,
		Prompt:    "What is your best hand right now?",
		Hint:      "Use your two hole cards and the board, best five cards",
		Situation: s,
	})
	return qs
}

func outsQuestion(s Situation) Question {
	q := Question{Kind: Outs, Situation: s}
	switch s.Street {
	case game.Flop:
		q.Prompt = "How many outs do you have for the turn?\n(Cards that would improve your hand on the next card)"
		q.Hint = "Outs are cards that lift your hand to a better category."
	case game.Turn:
		q.Prompt = "How many outs do you have for the river?\n(Cards that would improve your hand on the final card)"
		q.Hint = "Count the unseen cards that give you a better hand on the river."
	default:
		q.Prompt = "How many outs did you have?\n(The board is complete, this one is for practice)"
		q.Hint = "Count the cards that would have helped you."
	}
	return q
}
