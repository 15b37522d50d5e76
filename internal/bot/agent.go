package bot

import (
	"context"
	"errors"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/game"
)

// AdviceStatus tells whether an advisor produced a usable decision.
type AdviceStatus int

const (
	// Advised means Decision should be played.
	Advised AdviceStatus = iota
	// Unavailable means the advisor declined and the heuristic decides.
	Unavailable
)

// Advice is an advisor's answer.
type Advice struct {
	Status   AdviceStatus
	Decision game.Decision
}

// Advisor is an optional external decision source consulted before the
// heuristic, such as a language model.
type Advisor interface {
	Advise(ctx context.Context, snap game.Snapshot, d game.Difficulty) (Advice, error)
}

// Agent plays a seat with a Policy and an optional Advisor.
type Agent struct {
	policy  *Policy
	advisor Advisor
	logger  *log.Logger
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithAdvisor consults a before falling back to the heuristic.
func WithAdvisor(a Advisor) AgentOption {
	return func(ag *Agent) {
		ag.advisor = a
	}
}

// NewAgent creates a bot agent for the given difficulty.
func NewAgent(d game.Difficulty, rng *rand.Rand, logger *log.Logger, opts ...AgentOption) *Agent {
	a := &Agent{
		policy: NewPolicy(d, rng),
		logger: logger.WithPrefix("bot"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MakeDecision implements game.Agent.
func (a *Agent) MakeDecision(ctx context.Context, snap game.Snapshot) (game.Decision, error) {
	if a.advisor != nil {
		advice, err := a.advisor.Advise(ctx, snap, a.policy.Difficulty())
		switch {
		case errors.Is(err, context.Canceled):
			return game.Decision{}, err
		case err != nil:
			a.logger.Warn("Advisor failed, using heuristic", "player", snap.Name, "error", err)
		case advice.Status == Advised:
			a.logger.Debug("Advisor decision", "player", snap.Name, "action", advice.Decision.Action, "amount", advice.Decision.Amount)
			return advice.Decision, nil
		}
	}

	d := a.policy.Decide(snap)
	a.logger.Debug("Bot decision",
		"player", snap.Name,
		"difficulty", a.policy.Difficulty(),
		"street", snap.Street,
		"hole", snap.Hole,
		"toCall", snap.ToCall(),
		"action", d.Action,
		"amount", d.Amount,
		"reasoning", d.Reasoning)
	return d, nil
}

// CallingStation checks or calls every bet. Useful as a baseline opponent
// in simulations.
var CallingStation = game.AgentFunc(func(_ context.Context, snap game.Snapshot) (game.Decision, error) {
	if snap.CanCheck() {
		return game.Decision{Action: game.Check, Reasoning: "calling station checking"}, nil
	}
	return game.Decision{Action: game.Call, Reasoning: "calling station calling"}, nil
})

// Maniac moves all-in at every opportunity.
var Maniac = game.AgentFunc(func(context.Context, game.Snapshot) (game.Decision, error) {
	return game.Decision{Action: game.AllIn, Reasoning: "maniac shoving"}, nil
})
