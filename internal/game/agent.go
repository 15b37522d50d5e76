package game

import "context"

// Decision represents a player's decision with reasoning
type Decision struct {
	Action    Action
	Amount    int    // for raises, the increment over the call
	Reasoning string // human-readable explanation
}

// Agent represents any entity (human or AI) that can make decisions for a player.
// Agents receive an immutable snapshot and return a decision; the engine
// applies it.
type Agent interface {
	MakeDecision(ctx context.Context, snap Snapshot) (Decision, error)
}

// AgentFunc adapts a function to the Agent interface.
type AgentFunc func(ctx context.Context, snap Snapshot) (Decision, error)

// MakeDecision calls f.
func (f AgentFunc) MakeDecision(ctx context.Context, snap Snapshot) (Decision, error) {
	return f(ctx, snap)
}

// CheckFoldAgent checks when it can and folds otherwise. Used when a seat
// has nobody in control of it.
var CheckFoldAgent = AgentFunc(func(_ context.Context, snap Snapshot) (Decision, error) {
	if snap.CanCheck() {
		return Decision{Action: Check, Reasoning: "check"}, nil
	}
	return Decision{Action: Fold, Reasoning: "fold"}, nil
})
