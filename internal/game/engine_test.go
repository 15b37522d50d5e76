package game

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/randutil"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

var callAgent = AgentFunc(func(_ context.Context, snap Snapshot) (Decision, error) {
	if snap.CanCheck() {
		return Decision{Action: Check}, nil
	}
	return Decision{Action: Call}, nil
})

var foldAgent = AgentFunc(func(context.Context, Snapshot) (Decision, error) {
	return Decision{Action: Fold}, nil
})

var shoveAgent = AgentFunc(func(context.Context, Snapshot) (Decision, error) {
	return Decision{Action: AllIn}, nil
})

func newEngine(t *testing.T, agents map[string]Agent, stacks map[string]int, order ...string) (*Engine, *Game) {
	t.Helper()

	players := make([]*Player, len(order))
	for i, name := range order {
		players[i] = NewPlayer(name, stacks[name])
	}
	g, err := NewGame(players, Config{SmallBlind: 5}, randutil.New(11))
	require.NoError(t, err)
	e, err := NewEngine(g, agents, quietLogger())
	require.NoError(t, err)
	return e, g
}

func TestEnginePlaysHandToShowdown(t *testing.T) {
	t.Parallel()

	agents := map[string]Agent{"a": callAgent, "b": callAgent, "c": callAgent}
	e, g := newEngine(t, agents, map[string]int{"a": 500, "b": 500, "c": 500}, "a", "b", "c")

	var streets []Street
	var ended bool
	e.Events().Subscribe(SubscriberFunc(func(ev GameEvent) {
		switch ev := ev.(type) {
		case StreetChangeEvent:
			streets = append(streets, ev.Street)
		case HandEndEvent:
			ended = true
			assert.NotEmpty(t, FormatEvent(ev))
		}
	}))

	result, err := e.PlayHand(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Settlement)
	assert.True(t, result.Settlement.Showdown)
	assert.Equal(t, 30, result.Settlement.TotalPaid)
	assert.Equal(t, []Street{Flop, Turn, River}, streets)
	assert.True(t, ended)
	assert.Equal(t, 1500, g.TotalChips())
	assert.Equal(t, 1, g.Dealer(), "button moves after the hand")
}

func TestEngineFoldAroundIsUncontested(t *testing.T) {
	t.Parallel()

	agents := map[string]Agent{"a": foldAgent, "b": foldAgent, "c": callAgent}
	e, g := newEngine(t, agents, map[string]int{"a": 500, "b": 500, "c": 500}, "a", "b", "c")

	result, err := e.PlayHand(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Settlement.Showdown)
	assert.Empty(t, result.Settlement.Board)

	require.Len(t, result.Settlement.Results, 1)
	r := result.Settlement.Results[0]
	assert.Equal(t, "c", r.Player.Name)
	assert.Equal(t, 15, r.Amount)
	assert.Equal(t, 505, g.Players()[2].Chips)
	require.Len(t, result.Actions, 2, "the big blind never has to act")
}

func TestEngineAllInRunsOutBoard(t *testing.T) {
	t.Parallel()

	agents := map[string]Agent{"a": shoveAgent, "b": callAgent}
	e, g := newEngine(t, agents, map[string]int{"a": 200, "b": 300}, "a", "b")

	var streets int
	e.Events().Subscribe(SubscriberFunc(func(ev GameEvent) {
		if _, ok := ev.(StreetChangeEvent); ok {
			streets++
		}
	}))

	result, err := e.PlayHand(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, streets)
	assert.Len(t, result.Settlement.Board, 5)
	assert.Equal(t, 400, result.Settlement.TotalPaid)
	assert.Equal(t, 500, g.TotalChips())
}

func TestEngineStopsWhenGameOver(t *testing.T) {
	t.Parallel()

	agents := map[string]Agent{"a": shoveAgent, "b": callAgent}
	e, g := newEngine(t, agents, map[string]int{"a": 100, "b": 100}, "a", "b")

	hands := 0
	for !g.IsGameOver() {
		_, err := e.PlayHand(context.Background())
		require.NoError(t, err)
		hands++
		require.Less(t, hands, 100, "someone should bust")
	}

	_, err := e.PlayHand(context.Background())
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, 200, g.TotalChips())
}

func TestEngineRequiresAgents(t *testing.T) {
	t.Parallel()

	g, err := NewGame([]*Player{NewPlayer("a", 100), NewPlayer("b", 100)}, Config{SmallBlind: 5}, randutil.New(1))
	require.NoError(t, err)
	_, err = NewEngine(g, map[string]Agent{"a": callAgent}, quietLogger())
	assert.Error(t, err)
}

func TestEngineSurfacesAgentErrors(t *testing.T) {
	t.Parallel()

	quit := AgentFunc(func(context.Context, Snapshot) (Decision, error) {
		return Decision{}, ErrPlayerQuit
	})
	agents := map[string]Agent{"a": quit, "b": quit}
	e, _ := newEngine(t, agents, map[string]int{"a": 100, "b": 100}, "a", "b")

	_, err := e.PlayHand(context.Background())
	assert.True(t, errors.Is(err, ErrPlayerQuit))
}

func TestEngineClampsInvalidDecisions(t *testing.T) {
	t.Parallel()

	tiny := AgentFunc(func(_ context.Context, snap Snapshot) (Decision, error) {
		if snap.Street == PreFlop && snap.PlayerBet < snap.BigBlind {
			return Decision{Action: Raise, Amount: 1}, nil
		}
		return Decision{Action: Check}, nil
	})
	agents := map[string]Agent{"a": tiny, "b": callAgent}
	e, g := newEngine(t, agents, map[string]int{"a": 500, "b": 500}, "a", "b")

	result, err := e.PlayHand(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.Actions)
	assert.Equal(t, Raise, result.Actions[0].Action)
	assert.Equal(t, 15, result.Actions[0].Amount, "complete the blind plus a minimum raise")
	assert.Equal(t, 1000, g.TotalChips())
}
