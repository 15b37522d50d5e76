// Package bot implements the scripted computer opponents.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/poker"
)

// Params tunes the heuristic for one difficulty.
type Params struct {
	StrengthScale float64 // multiplier applied to raw hand strength
	Aggression    float64 // probability weight for betting and raising
	BluffRate     float64
	OddsThreshold float64 // required odds are scaled by this before comparing
	Jitter        float64 // strength is perturbed by up to ±Jitter
}

var difficultyParams = map[game.Difficulty]Params{
	game.Easy:   {StrengthScale: 0.85, Aggression: 0.35, BluffRate: 0.05, OddsThreshold: 1.2, Jitter: 0.12},
	game.Medium: {StrengthScale: 1.0, Aggression: 0.55, BluffRate: 0.15, OddsThreshold: 1.0, Jitter: 0.06},
	game.Hard:   {StrengthScale: 1.05, Aggression: 0.75, BluffRate: 0.25, OddsThreshold: 0.9, Jitter: 0.06},
}

// ParamsFor returns the tuning for d, falling back to medium.
func ParamsFor(d game.Difficulty) Params {
	if p, ok := difficultyParams[d]; ok {
		return p
	}
	return difficultyParams[game.Medium]
}

// Policy decides actions from a snapshot. Randomness comes from the
// injected source, so a seeded policy replays exactly.
type Policy struct {
	difficulty game.Difficulty
	params     Params
	rng        *rand.Rand
}

// NewPolicy creates a policy for the given difficulty
func NewPolicy(d game.Difficulty, rng *rand.Rand) *Policy {
	return &Policy{difficulty: d, params: ParamsFor(d), rng: rng}
}

// Difficulty returns the policy's difficulty.
func (p *Policy) Difficulty() game.Difficulty {
	return p.difficulty
}

// thinking accumulates the reasons behind a decision
type thinking struct {
	thoughts []string
}

func (t *thinking) add(format string, args ...any) {
	t.thoughts = append(t.thoughts, fmt.Sprintf(format, args...))
}

func (t *thinking) String() string {
	if len(t.thoughts) == 0 {
		return "no clear reasoning available"
	}
	return strings.Join(t.thoughts, ". ")
}

// Decide picks an action for the snapshot. Raise amounts are increments
// over the call, clamped to [MinRaise, Chips-ToCall].
func (p *Policy) Decide(s game.Snapshot) game.Decision {
	th := &thinking{}
	call := s.ToCall()

	if s.Chips == 0 {
		return game.Decision{Action: game.Check, Reasoning: "no chips left"}
	}

	postflop := len(s.Community) >= 3
	var (
		category poker.Category
		strength float64
	)
	if postflop {
		v, err := poker.Evaluate(append(append([]poker.Card(nil), s.Hole...), s.Community...))
		if err == nil {
			category = v.Category
		}
		strength = float64(category) / 10
		th.add("holding %s", category)
	} else {
		strength = PreflopStrength(s.Hole)
		th.add("%s starting hand, pre-flop strength %.2f", poker.ClassifyHole(s.Hole), strength)
	}

	strength *= p.params.StrengthScale
	strength += randutil.Uniform(p.rng, -p.params.Jitter, p.params.Jitter)
	strength = min(0.95, max(0.05, strength))

	switch {
	case postflop && call > 0:
		return p.facingBetPostflop(s, category, call, th)
	case call == 0:
		return p.unopened(s, strength, th)
	default:
		return p.facingBetPreflop(s, strength, call, th)
	}
}

func (p *Policy) facingBetPostflop(s game.Snapshot, category poker.Category, call int, th *thinking) game.Decision {
	potOdds := float64(s.Pot+call) / float64(call)

	outs := 0
	if o, err := poker.CalculateOuts(s.Hole, s.Community, nil); err == nil {
		outs = o.Total()
	}
	unseen := 52 - len(s.Hole) - len(s.Community)
	required := 999.0
	if outs > 0 {
		required = float64(unseen-outs) / float64(outs)
	}
	byOdds := potOdds > required*p.params.OddsThreshold
	th.add("pot odds %.1f:1 against %.1f:1 with %d outs", potOdds, required, outs)

	switch {
	case category >= poker.Flush:
		if p.chance(0.9) && p.chance(p.params.Aggression) && s.Chips > call+s.MinRaise {
			th.add("strong made hand, raising")
			return p.raise(s, p.potFraction(s.Pot, 0.7, 1.5), th)
		}
		th.add("strong made hand, calling")
		return p.callDecision(th)

	case category >= poker.TwoPair || byOdds:
		if call > s.Chips {
			th.add("cannot cover the bet")
			return p.foldDecision(th)
		}
		if category >= poker.ThreeOfAKind && p.chance(p.params.Aggression*0.5) {
			if size := p.clampRaise(s, p.potFraction(s.Pot, 0.5, 1.0)); size > 0 {
				th.add("raising for value")
				return game.Decision{Action: game.Raise, Amount: size, Reasoning: th.String()}
			}
		}
		th.add("worth a call")
		return p.callDecision(th)

	default:
		if byOdds && float64(call) <= float64(s.Chips)*0.2 {
			th.add("cheap draw")
			return p.callDecision(th)
		}
		if p.chance(p.params.BluffRate * 0.5) {
			th.add("floating as a bluff")
			return p.callDecision(th)
		}
		th.add("weak hand")
		return p.foldDecision(th)
	}
}

func (p *Policy) unopened(s game.Snapshot, strength float64, th *thinking) game.Decision {
	switch {
	case strength >= 0.65:
		if p.chance(0.8 + p.params.Aggression*0.2) {
			th.add("betting a strong hand")
			return p.bet(s, p.potFraction(s.Pot, 0.5, 1.0), th)
		}
		th.add("slow playing")
	case strength >= 0.4:
		if p.chance(p.params.Aggression * 0.7) {
			th.add("betting a medium hand")
			return p.bet(s, p.potFraction(s.Pot, 0.4, 0.7), th)
		}
		th.add("checking a medium hand")
	default:
		if p.chance(p.params.BluffRate * p.params.Aggression) {
			th.add("bluffing")
			return p.bet(s, p.potFraction(s.Pot, 0.3, 0.6), th)
		}
		th.add("nothing to bet")
	}
	return game.Decision{Action: game.Check, Reasoning: th.String()}
}

func (p *Policy) facingBetPreflop(s game.Snapshot, strength float64, call int, th *thinking) game.Decision {
	switch {
	case strength >= 0.7:
		if p.chance(p.params.Aggression) && s.Chips > call+s.MinRaise {
			th.add("premium hand, raising")
			return p.raise(s, p.potFraction(s.Pot, 0.5, 1.0), th)
		}
		th.add("premium hand, calling")
		return p.callDecision(th)
	case strength >= 0.45:
		if float64(call) <= float64(s.Chips)*0.3 {
			th.add("playable hand at a fair price")
			return p.callDecision(th)
		}
		th.add("too expensive")
		return p.foldDecision(th)
	default:
		price := float64(call) / float64(s.Pot+call)
		if price < 0.15 || p.chance(p.params.BluffRate) {
			th.add("speculative call")
			return p.callDecision(th)
		}
		th.add("weak hand")
		return p.foldDecision(th)
	}
}

// raise returns a raise of size or degrades to a call when no legal raise
// remains.
func (p *Policy) raise(s game.Snapshot, size int, th *thinking) game.Decision {
	if size = p.clampRaise(s, size); size > 0 {
		return game.Decision{Action: game.Raise, Amount: size, Reasoning: th.String()}
	}
	return p.callDecision(th)
}

// bet opens an unopened pot, degrading to a check.
func (p *Policy) bet(s game.Snapshot, size int, th *thinking) game.Decision {
	if size = p.clampRaise(s, size); size > 0 {
		return game.Decision{Action: game.Raise, Amount: size, Reasoning: th.String()}
	}
	return game.Decision{Action: game.Check, Reasoning: th.String()}
}

func (p *Policy) clampRaise(s game.Snapshot, size int) int {
	return min(max(size, s.MinRaise), s.Chips-s.ToCall())
}

func (p *Policy) potFraction(pot int, lo, hi float64) int {
	return int(float64(pot) * randutil.Uniform(p.rng, lo, hi))
}

func (p *Policy) chance(prob float64) bool {
	return randutil.Chance(p.rng, prob)
}

func (p *Policy) callDecision(th *thinking) game.Decision {
	return game.Decision{Action: game.Call, Reasoning: th.String()}
}

func (p *Policy) foldDecision(th *thinking) game.Decision {
	return game.Decision{Action: game.Fold, Reasoning: th.String()}
}

// PreflopStrength rates two hole cards between 0 and 1. Pairs start at 0.5;
// other hands score on their ranks with bonuses for suited and connected
// cards.
func PreflopStrength(hole []poker.Card) float64 {
	if len(hole) != 2 {
		return 0.3
	}
	a, b := float64(hole[0].Rank), float64(hole[1].Rank)
	if a == b {
		return 0.5 + a/28
	}
	high, low := max(a, b), min(a, b)
	strength := high/28 + low/56
	if hole[0].Suit == hole[1].Suit {
		strength += 0.1
	}
	if high-low <= 2 {
		strength += 0.05
	}
	return min(1.0, strength)
}
