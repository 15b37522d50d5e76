package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/poker"
)

// newTestGame seats players with the given stacks and starts a hand
// without posting blinds.
func newTestGame(t *testing.T, stacks ...int) *Game {
	t.Helper()

	players := make([]*Player, len(stacks))
	for i, chips := range stacks {
		players[i] = NewPlayer(string(rune('A'+i)), chips)
	}
	g, err := NewGame(players, Config{SmallBlind: 5, BigBlind: 10}, randutil.New(42))
	require.NoError(t, err)
	require.True(t, g.StartNewHand())
	return g
}

// rig replaces dealt cards so showdowns are deterministic. Holes are
// indexed by seat; an empty string leaves the seat's cards alone.
func rig(t *testing.T, g *Game, board string, holes ...string) {
	t.Helper()

	for seat, h := range holes {
		if h == "" {
			continue
		}
		g.seats[seat].Hole = poker.MustParseCards(h)
	}
	g.community = poker.MustParseCards(board)
	switch len(g.community) {
	case 0:
		g.street = PreFlop
	case 3:
		g.street = Flop
	case 4:
		g.street = Turn
	case 5:
		g.street = River
	default:
		t.Fatalf("board must have 0, 3, 4 or 5 cards, got %d", len(g.community))
	}
}

// contribute commits chips for seat directly, bypassing betting rules.
func contribute(g *Game, seat, amount int) {
	g.commit(seat, amount)
}

func sumResults(results []Result) int {
	total := 0
	for _, r := range results {
		total += r.Amount
	}
	return total
}

func resultFor(results []Result, name string) (Result, bool) {
	for _, r := range results {
		if r.Player.Name == name && !r.Returned {
			return r, true
		}
	}
	return Result{}, false
}
