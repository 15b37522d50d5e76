package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/llm"
	"github.com/lox/holdem-trainer/internal/profile"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/session"
	"github.com/lox/holdem-trainer/internal/tui"
	"github.com/lox/holdem-trainer/internal/tutor"
)

type PlayCmd struct {
	Name       string `help:"Player name for a new profile, or to rename the saved one"`
	Bots       int    `help:"Number of bots (overrides config)"`
	Difficulty string `help:"Bot difficulty: easy, medium or hard (overrides config)"`
	Seed       int64  `help:"Seed for a reproducible session (0 for random)"`
	Hands      int    `help:"Stop after N hands (0 plays until the game is over)"`
	NoQuiz     bool   `help:"Play without tutor questions"`
	NoLLM      bool   `name:"no-llm" help:"Grade answers locally even when an API key is set"`
	NoColor    bool   `help:"Disable colours"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger, closeLog, err := newFileLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	store := profile.NewStore(cfg.Profile.Path, cfg.Profile.StartingChips)
	p, found, err := store.Load()
	if err != nil {
		logger.Warn("Could not read profile, starting fresh", "path", store.Path(), "error", err)
	}
	switch {
	case !found:
		p = store.New(c.Name)
	case c.Name != "":
		p.Name = c.Name
	}

	opts := session.Options{
		Bots:       cfg.Game.Bots,
		Difficulty: cfg.Game.ParsedDifficulty(),
		BotChips:   cfg.Game.BotChips,
		Blinds:     game.Config{SmallBlind: cfg.Game.SmallBlind, BigBlind: cfg.Game.BigBlind},
		MinChips:   cfg.Game.MinChips,
		Quiz:       cfg.QuizEnabled(),
		TurnLimit:  cfg.Game.TurnLimit(),
		BotDelay:   cfg.Game.ThinkDelay(),
		Seed:       randutil.Resolve(cfg.Game.Seed),
		MaxHands:   c.Hands,
	}

	bridge := tui.NewBridge(logger)
	s, err := session.New(opts, p, store, bridge, logger, collaborators(cfg, logger)...)
	if errors.Is(err, session.ErrNotEnoughChips) {
		return fmt.Errorf("%s has %d chips: %w (run 'holdem store')", p.Name, p.Chips, err)
	}
	if err != nil {
		return err
	}
	bridge.Attach(s.Game())

	program := tea.NewProgram(tui.NewModel(bridge, logger), tea.WithAltScreen())
	bridge.SetSender(program.Send)

	ctx, cancel := signalContext()
	defer cancel()

	var (
		summary session.Summary
		runErr  error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		summary, runErr = s.Run(ctx)
		bridge.Done(summaryLines(p.Name, summary)...)
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	bridge.Close()
	cancel()
	<-done

	for _, line := range summaryLines(p.Name, summary) {
		fmt.Println(line)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func (c *PlayCmd) apply(cfg *config.Config) {
	if c.Bots > 0 {
		cfg.Game.Bots = c.Bots
	}
	if c.Difficulty != "" {
		cfg.Game.Difficulty = c.Difficulty
	}
	if c.Seed != 0 {
		cfg.Game.Seed = c.Seed
	}
	if c.NoQuiz {
		cfg.Tutor.Enabled = new(bool)
	}
	if c.NoLLM {
		cfg.LLM.Enabled = new(bool)
	}
}

// collaborators picks the grader and bot advisor. The language model grades
// first when a key is available, with local grading behind it.
func collaborators(cfg *config.Config, logger *log.Logger) []session.Option {
	local := tutor.LocalGrader{Tolerance: cfg.Tutor.Tolerance}
	if !cfg.LLMEnabled() {
		return []session.Option{session.WithGrader(local)}
	}

	client := llm.NewClient(cfg.APIKey(), llm.WithBaseURL(baseURL(cfg.LLM)))
	if !client.Available() {
		logger.Info("No API key, grading answers locally", "env", cfg.LLM.APIKeyEnv)
		return []session.Option{session.WithGrader(local)}
	}

	opts := []session.Option{
		session.WithGrader(tutor.NewChainGrader(logger, llm.NewGrader(client, cfg.LLM.GraderModel), local)),
	}
	if cfg.AdvisorEnabled() {
		opts = append(opts, session.WithAdvisor(llm.NewAdvisor(client)))
	}
	return opts
}

func baseURL(cfg *config.LLMConfig) string {
	if cfg.BaseURL == "" {
		return llm.DefaultBaseURL
	}
	return cfg.BaseURL
}

func summaryLines(name string, s session.Summary) []string {
	lines := []string{
		"",
		fmt.Sprintf("Session over for %s after %d hands.", name, s.Hands),
		fmt.Sprintf("Chips: %d -> %d (%+d)", s.StartingChips, s.FinalChips, s.FinalChips-s.StartingChips),
	}
	if s.Questions > 0 {
		lines = append(lines, fmt.Sprintf("Quiz: %d/%d correct (%.0f%%)",
			s.Correct, s.Questions, 100*float64(s.Correct)/float64(s.Questions)))
	}
	switch {
	case s.Won:
		lines = append(lines, "You took every chip at the table!")
	case s.FinalChips == 0:
		lines = append(lines, "You're out of chips. Run 'holdem store' for more.")
	case s.Quit:
		lines = append(lines, "You left the table; your stack is saved.")
	}
	return lines
}
