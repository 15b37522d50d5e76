// Package simulator plays bot-only games in parallel to measure how the
// difficulty levels perform against each other.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/statistics"
)

// Config controls a simulation run.
type Config struct {
	Games int
	// Hands is the hand limit per game.
	Hands int
	// Seats seats one bot per entry.
	Seats  []game.Difficulty
	Chips  int
	Blinds game.Config
	Seed   int64
	// Workers bounds concurrent games. Zero uses GOMAXPROCS.
	Workers int
	// Timeout limits each game. Zero disables it.
	Timeout time.Duration
	Logger  *log.Logger
}

// Result is the merged outcome of a run.
type Result struct {
	Report  *statistics.Report
	Games   int
	Elapsed time.Duration
}

// Simulator runs simulations.
type Simulator struct {
	config Config
}

// New creates a simulator, filling in defaults.
func New(config Config) *Simulator {
	if config.Games <= 0 {
		config.Games = 1
	}
	if config.Hands <= 0 {
		config.Hands = 100
	}
	if len(config.Seats) == 0 {
		config.Seats = []game.Difficulty{game.Easy, game.Medium, game.Hard}
	}
	if config.Chips <= 0 {
		config.Chips = 1000
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: config}
}

// Run plays every game and merges the per-game reports in game order, so a
// seed always produces the same report.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	reports := make([]*statistics.Report, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Games {
		g.Go(func() error {
			r, err := s.playGame(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, s.gameSeed(i), err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := statistics.NewReport()
	for _, r := range reports {
		merged.Merge(r)
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return &Result{Report: merged, Games: s.config.Games, Elapsed: time.Since(started)}, nil
}

func (s *Simulator) gameSeed(i int) int64 {
	return s.config.Seed + int64(i)*1_000
}

// playGame runs one table until a single bot has chips or the hand limit
// is reached. Every game and every bot owns its random source.
func (s *Simulator) playGame(ctx context.Context, i int) (*statistics.Report, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	seed := s.gameSeed(i)
	players := make([]*game.Player, len(s.config.Seats))
	agents := make(map[string]game.Agent, len(players))
	for seat, d := range s.config.Seats {
		name := fmt.Sprintf("%s %d", d, seat+1)
		players[seat] = game.NewBot(name, s.config.Chips, d)
		agents[name] = bot.NewAgent(d, randutil.New(seed+int64(seat)+1), s.config.Logger)
	}

	// rotate the starting button so no seat always opens
	g, err := game.NewGame(players, s.config.Blinds, randutil.New(seed), game.WithDealer(i%len(players)))
	if err != nil {
		return nil, err
	}
	e, err := game.NewEngine(g, agents, s.config.Logger)
	if err != nil {
		return nil, err
	}
	tracker := statistics.NewTracker(statistics.NewReport())
	e.Events().Subscribe(tracker)

	for range s.config.Hands {
		if _, err := e.PlayHand(ctx); err != nil {
			if errors.Is(err, game.ErrGameOver) {
				break
			}
			return nil, err
		}
	}
	s.config.Logger.Debug("Game finished", "game", i+1, "hands", g.HandNumber(), "seed", seed)
	return tracker.Report(), nil
}

// WriteSummary prints a report grouped by difficulty, then by player.
func WriteSummary(w io.Writer, res *Result) {
	r := res.Report
	fmt.Fprintf(w, "\n=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(w, "Games: %d, hands: %d, showdowns: %d (%.1f%%), elapsed: %s\n",
		res.Games, r.Hands, r.Showdowns, percent(r.Showdowns, r.Hands), res.Elapsed.Round(time.Millisecond))

	fmt.Fprintf(w, "\n=== BY DIFFICULTY ===\n")
	for _, d := range []game.Difficulty{game.Easy, game.Medium, game.Hard} {
		if s, ok := r.Difficulties[d]; ok {
			writeLine(w, d.String(), s)
		}
	}

	fmt.Fprintf(w, "\n=== BY PLAYER ===\n")
	for _, name := range r.Names() {
		writeLine(w, name, r.Players[name])
	}
}

func writeLine(w io.Writer, label string, s *statistics.Statistics) {
	low, high := s.ConfidenceInterval95()
	fmt.Fprintf(w, "%-10s %6d hands  %+8.3f bb/hand  [%+.3f, %+.3f]  won %5.1f%%  showdown %+.2f  non-showdown %+.2f\n",
		label, s.Hands, s.Mean(), low, high, s.WinRate()*100, s.ShowdownBB, s.NonShowdownBB)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
