package tui

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/tutor"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// recorder stands in for the Bubble Tea program.
type recorder struct {
	mu      sync.Mutex
	msgs    []tea.Msg
	prompts chan promptMsg
}

func newRecorder() *recorder {
	return &recorder{prompts: make(chan promptMsg, 16)}
}

func (r *recorder) send(msg tea.Msg) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	if p, ok := msg.(promptMsg); ok && p.mode != modeWaiting {
		r.prompts <- p
	}
}

func (r *recorder) logText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var lines []string
	for _, msg := range r.msgs {
		if l, ok := msg.(logMsg); ok {
			lines = append(lines, l.lines...)
		}
	}
	return strings.Join(lines, "\n")
}

func (r *recorder) nextPrompt(t *testing.T) promptMsg {
	t.Helper()
	select {
	case p := <-r.prompts:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no prompt")
		return promptMsg{}
	}
}

// headsUp starts a hand between Ada and a bot and returns Ada's snapshot.
// Ada has the button, so she posted the small blind and acts first.
func headsUp(t *testing.T) (*game.Game, game.Snapshot) {
	t.Helper()
	g, err := game.NewGame([]*game.Player{
		game.NewPlayer("Ada", 1000),
		game.NewBot("Bot 1", 1000, game.Easy),
	}, game.Config{SmallBlind: 5, BigBlind: 10}, randutil.New(1), game.WithHero("Ada"))
	require.NoError(t, err)
	require.True(t, g.StartNewHand())
	g.PostBlinds()

	seat := g.FirstToAct()
	require.Equal(t, "Ada", g.Seat(seat).Name)
	return g, g.Snapshot(seat)
}

type decisionResult struct {
	d   game.Decision
	err error
}

func decide(ctx context.Context, b *Bridge, snap game.Snapshot) <-chan decisionResult {
	out := make(chan decisionResult, 1)
	go func() {
		d, err := b.MakeDecision(ctx, snap)
		out <- decisionResult{d, err}
	}()
	return out
}

func TestBridgeRepromptsOnInvalidRaise(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	b := NewBridge(quietLogger())
	b.SetSender(rec.send)
	g, snap := headsUp(t)
	b.Attach(g)

	result := decide(t.Context(), b, snap)

	p := rec.nextPrompt(t)
	assert.Equal(t, modeAction, p.mode)
	assert.Equal(t, snap.Hole, p.snap.Hole)
	require.NotNil(t, p.table)
	assert.Len(t, p.table.Seats, 2)
	assert.Nil(t, p.table.Seats[1].Hole, "bot cards stay hidden")

	b.Submit("raise 3")
	rec.nextPrompt(t)
	assert.Contains(t, rec.logText(), "invalid bet amount")

	b.Submit("raise 20")
	r := <-result
	require.NoError(t, r.err)
	assert.Equal(t, game.Decision{Action: game.Raise, Amount: 20, Reasoning: "human"}, r.d)
}

func TestBridgeRejectsCheckFacingBet(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	b := NewBridge(quietLogger())
	b.SetSender(rec.send)
	g, snap := headsUp(t)
	b.Attach(g)

	result := decide(t.Context(), b, snap)
	rec.nextPrompt(t)
	b.Submit("check")
	rec.nextPrompt(t)
	assert.Contains(t, rec.logText(), "cannot check")

	b.Submit("help")
	rec.nextPrompt(t)
	assert.Contains(t, rec.logText(), "raise to <n>")

	b.Submit("call")
	r := <-result
	require.NoError(t, r.err)
	assert.Equal(t, game.Call, r.d.Action)
}

func TestBridgeQuit(t *testing.T) {
	t.Parallel()

	t.Run("typed", func(t *testing.T) {
		t.Parallel()
		rec := newRecorder()
		b := NewBridge(quietLogger())
		b.SetSender(rec.send)

		result := decide(t.Context(), b, game.Snapshot{})
		rec.nextPrompt(t)
		b.Submit("quit")
		assert.ErrorIs(t, (<-result).err, game.ErrPlayerQuit)
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()
		b := NewBridge(quietLogger())
		b.Close()
		b.Close()
		_, err := b.MakeDecision(t.Context(), game.Snapshot{})
		assert.ErrorIs(t, err, game.ErrPlayerQuit)
		_, err = b.Ask(t.Context(), tutor.Question{})
		assert.ErrorIs(t, err, game.ErrPlayerQuit)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := NewBridge(quietLogger()).MakeDecision(ctx, game.Snapshot{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBridgeAskShowsHint(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	b := NewBridge(quietLogger())
	b.SetSender(rec.send)

	q := tutor.Question{Kind: tutor.PotOdds, Prompt: "What are the pot odds?", Hint: "Formula: (pot + call) / call"}
	answers := make(chan string, 1)
	go func() {
		a, err := b.Ask(t.Context(), q)
		assert.NoError(t, err)
		answers <- a
	}()

	p := rec.nextPrompt(t)
	assert.Equal(t, modeQuestion, p.mode)
	assert.Equal(t, q.Prompt, p.question)

	b.Submit("hint")
	rec.nextPrompt(t)
	assert.Contains(t, rec.logText(), "Formula: (pot + call) / call")

	b.Submit("3:1")
	assert.Equal(t, "3:1", <-answers)
}

func TestBridgeVerdictAndEvents(t *testing.T) {
	t.Parallel()

	rec := newRecorder()
	b := NewBridge(quietLogger())
	b.SetSender(rec.send)

	b.Verdict(tutor.Question{Prompt: "How many outs?\nmore detail"}, tutor.Verdict{
		Status:    tutor.Graded,
		Feedback:  "Incorrect. The answer is 9.",
		Reasoning: "Flush (9 outs):\n  A: ♥",
	})
	text := rec.logText()
	assert.Contains(t, text, "How many outs?")
	assert.NotContains(t, text, "more detail")
	assert.Contains(t, text, "✗ Incorrect. The answer is 9.")
	assert.Contains(t, text, "  A: ♥")

	hero := game.NewPlayer("Ada", 990)
	bot := game.NewBot("Bot 1", 980, game.Hard)
	b.Event(game.PlayerActionEvent{Player: bot, Action: game.Raise, RoundBet: 20, Reasoning: "strong hand"})
	b.Event(game.HandStartEvent{Hand: 2, Players: []*game.Player{hero, bot}, Dealer: "Ada", SmallBlind: 5, BigBlind: 10})
	text = rec.logText()
	assert.Contains(t, text, "Bot 1 raises to 20")
	assert.Contains(t, text, "strong hand")
	assert.Contains(t, text, "Hand #2, Ada has the button")
	assert.Contains(t, text, "Your cards")

	b.Notice("line one\nline two")
	assert.Contains(t, rec.logText(), "line two")
}
