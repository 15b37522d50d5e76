package bot

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/poker"
)

func snapshot(hole, board string, pot, currentBet, playerBet, chips int) game.Snapshot {
	street := game.PreFlop
	community := poker.MustParseCards(board)
	switch len(community) {
	case 3:
		street = game.Flop
	case 4:
		street = game.Turn
	case 5:
		street = game.River
	}
	return game.Snapshot{
		Name:       "bot",
		Hole:       poker.MustParseCards(hole),
		Community:  community,
		Street:     street,
		Pot:        pot,
		CurrentBet: currentBet,
		PlayerBet:  playerBet,
		Chips:      chips,
		MinRaise:   20,
		BigBlind:   20,
		Opponents:  2,
	}
}

func TestPreflopStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hole string
		want float64
	}{
		{"As Ad", 1.0},
		{"2c 2d", 0.5 + 2.0/28},
		{"7s 2h", 7.0/28 + 2.0/56},
		{"Ah Kh", 14.0/28 + 13.0/56 + 0.15},
		{"Ah Qh", 14.0/28 + 12.0/56 + 0.15},
		{"Jc Td", 11.0/28 + 10.0/56 + 0.05},
		{"9s", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.hole, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, PreflopStrength(poker.MustParseCards(tt.hole)), 1e-9)
		})
	}
}

func TestDecideWithoutChipsChecks(t *testing.T) {
	t.Parallel()

	p := NewPolicy(game.Hard, randutil.New(1))
	d := p.Decide(snapshot("As Ad", "", 100, 50, 0, 0))
	assert.Equal(t, game.Check, d.Action)
}

func TestDecideIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	snaps := []game.Snapshot{
		snapshot("As Kd", "", 30, 20, 0, 1000),
		snapshot("7h 8h", "9h Tc 2h", 120, 40, 0, 800),
		snapshot("Qc Qd", "Qs 4d 9c Kh", 300, 0, 0, 600),
	}
	for _, d := range []game.Difficulty{game.Easy, game.Medium, game.Hard} {
		a, b := NewPolicy(d, randutil.New(99)), NewPolicy(d, randutil.New(99))
		for i := 0; i < 50; i++ {
			s := snaps[i%len(snaps)]
			assert.Equal(t, a.Decide(s), b.Decide(s))
		}
	}
}

func TestMadeFlushNeverFolds(t *testing.T) {
	t.Parallel()

	s := snapshot("Ah 9h", "2h 7h Kh", 200, 100, 0, 1000)
	for seed := int64(1); seed <= 200; seed++ {
		d := NewPolicy(game.Medium, randutil.New(seed)).Decide(s)
		require.Contains(t, []game.Action{game.Call, game.Raise}, d.Action)
		if d.Action == game.Raise {
			assert.GreaterOrEqual(t, d.Amount, s.MinRaise)
			assert.LessOrEqual(t, s.ToCall()+d.Amount, s.Chips)
		}
	}
}

func TestCannotCoverBetFolds(t *testing.T) {
	t.Parallel()

	// two pair facing a bet bigger than the stack
	s := snapshot("Ks 9d", "Kd 9c 3h", 400, 500, 0, 200)
	for seed := int64(1); seed <= 50; seed++ {
		d := NewPolicy(game.Hard, randutil.New(seed)).Decide(s)
		assert.Equal(t, game.Fold, d.Action)
		assert.NotEmpty(t, d.Reasoning)
	}
}

func TestEasyBotFoldsTrashToBigRaise(t *testing.T) {
	t.Parallel()

	s := snapshot("7s 2h", "", 600, 520, 20, 1000)
	folds := 0
	for seed := int64(1); seed <= 500; seed++ {
		if NewPolicy(game.Easy, randutil.New(seed)).Decide(s).Action == game.Fold {
			folds++
		}
	}
	assert.Greater(t, folds, 400, "only the occasional bluff call")
}

func TestRaisesStayWithinStack(t *testing.T) {
	t.Parallel()

	rng := randutil.New(5)
	deck := poker.FullDeck()
	for i := 0; i < 2000; i++ {
		rng.Shuffle(len(deck), func(a, b int) { deck[a], deck[b] = deck[b], deck[a] })
		boardLen := []int{0, 3, 4, 5}[rng.IntN(4)]
		chips := 1 + rng.IntN(1000)
		bet := []int{0, 20, 60, 200}[rng.IntN(4)]
		s := game.Snapshot{
			Name:       "bot",
			Hole:       append([]poker.Card(nil), deck[:2]...),
			Community:  append([]poker.Card(nil), deck[2:2+boardLen]...),
			Pot:        30 + rng.IntN(500),
			CurrentBet: bet,
			Chips:      chips,
			MinRaise:   20,
			BigBlind:   20,
		}
		d := NewPolicy(game.Difficulty(rng.IntN(3)), rng).Decide(s)
		if d.Action == game.Raise {
			assert.Positive(t, d.Amount)
			assert.LessOrEqual(t, s.ToCall()+d.Amount, s.Chips)
		}
		if s.CanCheck() {
			assert.NotEqual(t, game.Fold, d.Action, "never fold when checking is free")
		}
	}
}

type fakeAdvisor struct {
	advice Advice
	err    error
	calls  int
}

func (f *fakeAdvisor) Advise(context.Context, game.Snapshot, game.Difficulty) (Advice, error) {
	f.calls++
	return f.advice, f.err
}

func TestAgentAdvisorFallback(t *testing.T) {
	t.Parallel()

	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := snapshot("As Ad", "", 30, 20, 0, 1000)
	raise := game.Decision{Action: game.Raise, Amount: 40, Reasoning: "advisor"}

	tests := []struct {
		name       string
		advisor    *fakeAdvisor
		wantAdvice bool
		wantErr    error
	}{
		{"advised", &fakeAdvisor{advice: Advice{Status: Advised, Decision: raise}}, true, nil},
		{"unavailable", &fakeAdvisor{advice: Advice{Status: Unavailable}}, false, nil},
		{"error", &fakeAdvisor{err: errors.New("boom")}, false, nil},
		{"canceled", &fakeAdvisor{err: context.Canceled}, false, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := NewAgent(game.Medium, randutil.New(3), logger, WithAdvisor(tt.advisor))
			d, err := a.MakeDecision(context.Background(), s)
			assert.Equal(t, 1, tt.advisor.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantAdvice {
				assert.Equal(t, raise, d)
			} else {
				assert.NotEqual(t, "advisor", d.Reasoning)
			}
		})
	}
}

func TestAgentPlaysFullHands(t *testing.T) {
	t.Parallel()

	logger := log.NewWithOptions(io.Discard, log.Options{})
	players := []*game.Player{
		game.NewBot("easy", 1000, game.Easy),
		game.NewBot("medium", 1000, game.Medium),
		game.NewBot("hard", 1000, game.Hard),
	}
	g, err := game.NewGame(players, game.Config{SmallBlind: 10}, randutil.New(8))
	require.NoError(t, err)

	agents := map[string]game.Agent{}
	for i, p := range players {
		agents[p.Name] = NewAgent(p.Difficulty, randutil.New(int64(i+1)), logger)
	}
	e, err := game.NewEngine(g, agents, logger)
	require.NoError(t, err)

	for i := 0; i < 50 && !g.IsGameOver(); i++ {
		_, err := e.PlayHand(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3000, g.TotalChips())
	}
}
