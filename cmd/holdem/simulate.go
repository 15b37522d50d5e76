package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/simulator"
)

type SimulateCmd struct {
	Games   int           `default:"10" help:"Number of games to play"`
	Hands   int           `default:"200" help:"Hand limit per game"`
	Seats   []string      `default:"easy,medium,hard" sep:"," help:"Bot difficulty per seat"`
	Chips   int           `default:"1000" help:"Starting stack per bot"`
	Seed    int64         `help:"Seed for deterministic results (0 for random)"`
	Workers int           `help:"Concurrent games (0 uses GOMAXPROCS)"`
	Timeout time.Duration `help:"Time limit per game (0 for none)"`
	Debug   bool          `help:"Log every hand to stderr"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Debug {
		cfg.Logging.Level = "debug"
	}
	logger, err := newLogger(os.Stderr, cfg.Logging)
	if err != nil {
		return err
	}

	seats := make([]game.Difficulty, 0, len(c.Seats))
	for _, s := range c.Seats {
		d, err := game.ParseDifficulty(s)
		if err != nil {
			return err
		}
		seats = append(seats, d)
	}
	if len(seats) < 2 {
		return fmt.Errorf("need at least 2 seats, got %d", len(seats))
	}

	seed := randutil.Resolve(c.Seed)
	logger.Info("Starting simulation", "games", c.Games, "hands", c.Hands, "seats", len(seats), "seed", seed)

	ctx, cancel := signalContext()
	defer cancel()

	res, err := simulator.New(simulator.Config{
		Games:   c.Games,
		Hands:   c.Hands,
		Seats:   seats,
		Chips:   c.Chips,
		Blinds:  game.Config{SmallBlind: cfg.Game.SmallBlind, BigBlind: cfg.Game.BigBlind},
		Seed:    seed,
		Workers: c.Workers,
		Timeout: c.Timeout,
		Logger:  logger,
	}).Run(ctx)
	if err != nil {
		return err
	}
	simulator.WriteSummary(os.Stdout, res)
	return nil
}
