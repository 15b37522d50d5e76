// Package game implements the Texas Hold'em table: chip stacks, blinds,
// betting rounds, side pots and showdown settlement.
//
// # Basic Usage
//
// Game owns a single live hand at a time. A controller drives it directly:
//
//	g, err := game.NewGame(players, game.Config{SmallBlind: 10}, randutil.New(42))
//	if !g.StartNewHand() {
//	    // fewer than two players have chips
//	}
//	g.PostBlinds()
//	seat := g.FirstToAct()
//	g.ApplyAction(seat, game.Call, 0)
//	...
//	results, err := g.DetermineWinners()
//	g.MoveDealerButton()
//
// or hands the table to an Engine, which asks an Agent per player for each
// decision and publishes events as the hand progresses:
//
//	engine, err := game.NewEngine(g, agents, logger)
//	result, err := engine.PlayHand(ctx)
//
// # Leniency
//
// ApplyAction never rejects a decision made against well-formed state. A
// raise below the minimum is raised to the minimum, a bet larger than the
// stack becomes an all-in and a check facing a bet is applied as a call.
// Callers that want to re-prompt a human use ValidateAction first.
//
// # Contributions
//
// Chips committed to the pot are tracked per seat in a slice aligned with
// Seats, never by player identity. Side pots are derived from those
// contributions at settlement time, see BuildPots.
package game
