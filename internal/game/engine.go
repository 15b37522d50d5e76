package game

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Engine runs complete hands on a Game, asking each player's Agent for
// decisions. It is shared by interactive play and simulation.
type Engine struct {
	game   *Game
	agents map[string]Agent
	logger *log.Logger
	bus    *EventBus
}

// HandResult contains the results of a completed hand
type HandResult struct {
	Hand       int
	Settlement *Settlement
	Actions    []PlayerAction
}

// PlayerAction represents an action taken by a player during the hand
type PlayerAction struct {
	Player    string
	Street    Street
	Action    Action
	Amount    int
	Reasoning string
}

// NewEngine creates an engine. Every player at the table needs an agent.
func NewEngine(g *Game, agents map[string]Agent, logger *log.Logger) (*Engine, error) {
	for _, p := range g.Players() {
		if agents[p.Name] == nil {
			return nil, fmt.Errorf("no agent for player %q", p.Name)
		}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		game:   g,
		agents: agents,
		logger: logger.WithPrefix("engine"),
		bus:    NewEventBus(),
	}, nil
}

// Events returns the bus hand events are published on.
func (e *Engine) Events() *EventBus {
	return e.bus
}

// Game returns the table the engine drives.
func (e *Engine) Game() *Game {
	return e.game
}

// PlayHand plays one hand from the deal to the settlement and moves the
// button. It returns ErrGameOver when a hand cannot be started.
func (e *Engine) PlayHand(ctx context.Context) (*HandResult, error) {
	g := e.game
	chipsBefore := g.TotalChips()

	if !g.StartNewHand() {
		return nil, ErrGameOver
	}
	result := &HandResult{Hand: g.HandNumber()}
	e.logger.Debug("Starting hand", "hand", g.HandNumber(), "players", len(g.Seats()), "dealer", g.Seat(g.Dealer()).Name)

	sbSeat, bbSeat := g.SmallBlindSeat(), g.BigBlindSeat()
	sb, bb := g.PostBlinds()
	e.bus.Publish(HandStartEvent{
		Hand:       g.HandNumber(),
		Players:    g.Seats(),
		Dealer:     g.Seat(g.Dealer()).Name,
		SmallBlind: g.Config().SmallBlind,
		BigBlind:   g.Config().BigBlind,
		Pot:        g.Pot(),
		timestamp:  time.Now(),
	})
	e.publishBlind(sbSeat, sb)
	e.publishBlind(bbSeat, bb)

	for {
		if err := e.bettingRound(ctx, result); err != nil {
			return nil, err
		}
		if g.InHand() <= 1 || g.Street() == River {
			break
		}
		if err := g.DealCommunityStage(); err != nil {
			return nil, fmt.Errorf("deal %s: %w", g.Street()+1, err)
		}
		e.logger.Debug("Dealt street", "street", g.Street(), "board", g.Community())
		e.bus.Publish(StreetChangeEvent{
			Street:    g.Street(),
			Community: g.Community(),
			Pot:       g.Pot(),
			timestamp: time.Now(),
		})
	}

	if _, err := g.DetermineWinners(); err != nil {
		return nil, fmt.Errorf("settle hand %d: %w", g.HandNumber(), err)
	}
	result.Settlement = g.Settlement()
	for _, r := range result.Settlement.Results {
		e.logger.Debug("Awarded", "player", r.Player.Name, "amount", r.Amount, "hand", r.Hand)
	}
	e.bus.Publish(HandEndEvent{
		Hand:       g.HandNumber(),
		Settlement: result.Settlement,
		Players:    g.Players(),
		timestamp:  time.Now(),
	})
	g.MoveDealerButton()

	if after := g.TotalChips(); after != chipsBefore {
		return result, fmt.Errorf("chip conservation violated in hand %d: %d before, %d after", g.HandNumber(), chipsBefore, after)
	}
	return result, nil
}

func (e *Engine) publishBlind(seat, amount int) {
	p := e.game.Seat(seat)
	e.bus.Publish(PlayerActionEvent{
		Player:    p,
		Seat:      seat,
		Street:    PreFlop,
		Action:    Call,
		Amount:    amount,
		RoundBet:  p.Bet,
		Blind:     true,
		PotAfter:  e.game.Pot(),
		timestamp: time.Now(),
	})
}

// bettingRound asks agents for decisions until nobody is left to act.
func (e *Engine) bettingRound(ctx context.Context, result *HandResult) error {
	g := e.game
	for seat := g.FirstToAct(); seat >= 0; seat = g.NextToAct(seat) {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := g.Seat(seat)
		snap := g.Snapshot(seat)

		decision, err := e.agents[p.Name].MakeDecision(ctx, snap)
		if err != nil {
			return fmt.Errorf("decision for %s: %w", p.Name, err)
		}
		if verr := g.ValidateAction(seat, decision.Action, decision.Amount); verr != nil {
			e.logger.Warn("Clamping decision", "player", p.Name, "action", decision.Action, "amount", decision.Amount, "error", verr)
		}

		paid, err := g.ApplyAction(seat, decision.Action, decision.Amount)
		if err != nil {
			return fmt.Errorf("apply %s for %s: %w", decision.Action, p.Name, err)
		}

		result.Actions = append(result.Actions, PlayerAction{
			Player:    p.Name,
			Street:    g.Street(),
			Action:    p.LastAction,
			Amount:    paid,
			Reasoning: decision.Reasoning,
		})
		e.logger.Debug("Player action",
			"player", p.Name,
			"action", p.LastAction,
			"amount", paid,
			"reasoning", decision.Reasoning)
		e.bus.Publish(PlayerActionEvent{
			Player:    p,
			Seat:      seat,
			Street:    g.Street(),
			Action:    p.LastAction,
			Amount:    paid,
			RoundBet:  p.Bet,
			Reasoning: decision.Reasoning,
			PotAfter:  g.Pot(),
			timestamp: time.Now(),
		})

		if g.InHand() <= 1 {
			return nil
		}
	}
	return nil
}
