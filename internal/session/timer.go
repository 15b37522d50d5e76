package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-trainer/internal/game"
)

// TimedAgent gives an agent a turn limit. When the limit passes the inner
// agent's context is cancelled and the player folds.
type TimedAgent struct {
	agent  game.Agent
	limit  time.Duration
	clock  quartz.Clock
	logger *log.Logger
}

// NewTimedAgent wraps agent. A zero limit disables the timer.
func NewTimedAgent(agent game.Agent, limit time.Duration, clock quartz.Clock, logger *log.Logger) *TimedAgent {
	return &TimedAgent{agent: agent, limit: limit, clock: clock, logger: logger}
}

type decisionResult struct {
	decision game.Decision
	err      error
}

// MakeDecision implements game.Agent.
func (t *TimedAgent) MakeDecision(ctx context.Context, snap game.Snapshot) (game.Decision, error) {
	if t.limit <= 0 {
		return t.agent.MakeDecision(ctx, snap)
	}

	innerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	timeoutFired := make(chan struct{})
	timer := t.clock.AfterFunc(t.limit, func() {
		close(timeoutFired)
	}, "turn")
	defer timer.Stop()

	done := make(chan decisionResult, 1)
	go func() {
		d, err := t.agent.MakeDecision(innerCtx, snap)
		done <- decisionResult{d, err}
	}()

	select {
	case r := <-done:
		return r.decision, r.err
	case <-timeoutFired:
		cancel()
		t.logger.Warn("Turn timer expired, folding", "player", snap.Name, "limit", t.limit)
		return game.Decision{Action: game.Fold, Reasoning: "turn timer expired"}, nil
	case <-ctx.Done():
		return game.Decision{}, ctx.Err()
	}
}

// PacedAgent waits before delegating so bot actions are readable in the
// interactive game.
type PacedAgent struct {
	agent game.Agent
	delay time.Duration
	clock quartz.Clock
}

// NewPacedAgent wraps agent with a fixed think delay.
func NewPacedAgent(agent game.Agent, delay time.Duration, clock quartz.Clock) *PacedAgent {
	return &PacedAgent{agent: agent, delay: delay, clock: clock}
}

// MakeDecision implements game.Agent.
func (p *PacedAgent) MakeDecision(ctx context.Context, snap game.Snapshot) (game.Decision, error) {
	if p.delay > 0 {
		timer := p.clock.NewTimer(p.delay, "think")
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return game.Decision{}, ctx.Err()
		}
	}
	return p.agent.MakeDecision(ctx, snap)
}
