// Package session runs an interactive training game: the hero against
// scripted bots, with quiz questions after each community card street and
// the chip balance saved after every hand.
package session

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/profile"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/tutor"
)

// ErrNotEnoughChips is returned when the hero cannot cover the blinds.
var ErrNotEnoughChips = errors.New("not enough chips to play, visit the store for free chips")

// UI is the front end a session drives. It plays the hero's seat.
type UI interface {
	game.Agent

	// Event is called for every table event.
	Event(e game.GameEvent)
	// Ask poses a quiz question and returns the answer.
	Ask(ctx context.Context, q tutor.Question) (string, error)
	// Verdict shows how an answer was graded.
	Verdict(q tutor.Question, v tutor.Verdict)
	// Notice shows a line of commentary.
	Notice(msg string)
}

// Options configures a session.
type Options struct {
	Bots       int
	Difficulty game.Difficulty
	BotChips   int
	Blinds     game.Config
	MinChips   int // the hero needs this many chips to sit down
	Quiz       bool
	TurnLimit  time.Duration
	BotDelay   time.Duration
	Seed       int64
	MaxHands   int // zero plays until the game is over
}

// Option customises collaborators.
type Option func(*Session)

// WithGrader grades quiz answers with g instead of the local grader.
func WithGrader(g tutor.Grader) Option {
	return func(s *Session) { s.grader = g }
}

// WithAdvisor lets bots consult a.
func WithAdvisor(a bot.Advisor) Option {
	return func(s *Session) { s.advisor = a }
}

// WithClock replaces the wall clock used for turn timers and bot delays.
func WithClock(c quartz.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// Summary describes a finished session.
type Summary struct {
	Hands         int
	StartingChips int
	FinalChips    int
	Questions     int
	Correct       int
	Won           bool // every bot went broke
	Quit          bool
}

// Session owns one game.
type Session struct {
	opts    Options
	store   *profile.Store
	profile profile.Profile
	ui      UI
	logger  *log.Logger
	grader  tutor.Grader
	advisor bot.Advisor
	clock   quartz.Clock

	game    *game.Game
	engine  *game.Engine
	hero    *game.Player
	summary Summary
}

// New seats the hero from p against opts.Bots bots.
func New(opts Options, p profile.Profile, store *profile.Store, ui UI, logger *log.Logger, options ...Option) (*Session, error) {
	s := &Session{
		opts:    opts,
		store:   store,
		profile: p,
		ui:      ui,
		logger:  logger.WithPrefix("session"),
		grader:  tutor.LocalGrader{},
		clock:   quartz.NewReal(),
	}
	for _, o := range options {
		o(s)
	}

	if p.Chips < max(opts.MinChips, 1) {
		return nil, ErrNotEnoughChips
	}

	s.hero = game.NewPlayer(p.Name, p.Chips)
	players := []*game.Player{s.hero}
	for i := range opts.Bots {
		players = append(players, game.NewBot(fmt.Sprintf("Bot %d", i+1), opts.BotChips, opts.Difficulty))
	}

	g, err := game.NewGame(players, opts.Blinds, randutil.New(opts.Seed), game.WithHero(p.Name))
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	agents := map[string]game.Agent{
		p.Name: &quizAgent{session: s, inner: NewTimedAgent(ui, opts.TurnLimit, s.clock, s.logger)},
	}
	for i, pl := range players[1:] {
		var botOpts []bot.AgentOption
		if s.advisor != nil {
			botOpts = append(botOpts, bot.WithAdvisor(s.advisor))
		}
		agent := bot.NewAgent(pl.Difficulty, botRNG(opts.Seed, i), logger, botOpts...)
		agents[pl.Name] = NewPacedAgent(agent, opts.BotDelay, s.clock)
	}

	e, err := game.NewEngine(g, agents, logger)
	if err != nil {
		return nil, err
	}
	e.Events().Subscribe(game.SubscriberFunc(ui.Event))

	s.game, s.engine = g, e
	s.summary.StartingChips = p.Chips
	return s, nil
}

func botRNG(seed int64, i int) *rand.Rand {
	return randutil.New(seed + int64(i) + 1)
}

// Game returns the table.
func (s *Session) Game() *game.Game {
	return s.game
}

// Run plays hands until the game is over, the hand limit is reached or the
// hero quits. Quitting is not an error.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	s.logger.Info("Session started", "hero", s.hero.Name, "chips", s.hero.Chips, "bots", s.opts.Bots, "difficulty", s.opts.Difficulty, "seed", s.opts.Seed)

	for !s.game.IsGameOver() {
		if s.opts.MaxHands > 0 && s.summary.Hands >= s.opts.MaxHands {
			break
		}
		if err := ctx.Err(); err != nil {
			return s.finish(), err
		}

		_, err := s.engine.PlayHand(ctx)
		switch {
		case errors.Is(err, game.ErrPlayerQuit):
			s.summary.Quit = true
			s.ui.Notice("You left the table. Chips already in the pot are forfeit.")
			return s.finish(), s.save()
		case errors.Is(err, game.ErrGameOver):
			return s.finish(), s.save()
		case err != nil:
			_ = s.save()
			return s.finish(), err
		}

		s.summary.Hands++
		if err := s.save(); err != nil {
			return s.finish(), err
		}
	}

	return s.finish(), nil
}

func (s *Session) finish() Summary {
	s.summary.FinalChips = s.hero.Chips
	s.summary.Won = s.hero.Chips > 0
	for _, p := range s.game.Players() {
		if p != s.hero && p.Chips > 0 {
			s.summary.Won = false
		}
	}
	return s.summary
}

func (s *Session) save() error {
	s.profile.Chips = s.hero.Chips
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(s.profile); err != nil {
		s.logger.Error("Failed to save profile", "error", err)
		return err
	}
	return nil
}

// quizAgent asks the quiz the first time the hero acts on each street
// after the flop, then hands over to the real agent.
type quizAgent struct {
	session *Session
	inner   game.Agent
	hand    int
	street  game.Street
}

func (q *quizAgent) MakeDecision(ctx context.Context, snap game.Snapshot) (game.Decision, error) {
	s := q.session
	hand := s.game.HandNumber()
	if s.opts.Quiz && snap.Street >= game.Flop && snap.Street <= game.River && (hand != q.hand || snap.Street != q.street) {
		q.hand, q.street = hand, snap.Street
		if err := s.quiz(ctx, snap); err != nil {
			return game.Decision{}, err
		}
	}
	return q.inner.MakeDecision(ctx, snap)
}

func (s *Session) quiz(ctx context.Context, snap game.Snapshot) error {
	sit, err := tutor.NewSituation(snap)
	if err != nil {
		s.logger.Warn("Skipping quiz", "error", err)
		return nil
	}

	for _, q := range tutor.Questions(sit) {
		answer, err := s.ui.Ask(ctx, q)
		if err != nil {
			return err
		}

		v, err := s.grader.Grade(ctx, q, answer)
		if err != nil || v.Status != tutor.Graded {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			v, err = tutor.LocalGrader{}.Grade(ctx, q, answer)
			if err != nil {
				return err
			}
		}

		s.summary.Questions++
		if v.Correct {
			s.summary.Correct++
		}
		s.logger.Debug("Quiz answer", "question", q.Kind, "answer", answer, "expected", q.Expected(), "correct", v.Correct)
		s.ui.Verdict(q, v)
	}

	if analysis := tutor.Analysis(sit); analysis != "" {
		s.ui.Notice("Analysis: " + analysis)
	}
	return nil
}
