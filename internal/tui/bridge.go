package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/tutor"
)

// Bridge connects a session running on its own goroutine to the Bubble Tea
// program. It plays the hero's seat: prompts go to the model as messages and
// typed lines come back through Submit.
type Bridge struct {
	logger *log.Logger
	send   func(tea.Msg)
	game   *game.Game

	input     chan string
	closed    chan struct{}
	closeOnce sync.Once
}

// NewBridge creates a bridge. Messages are dropped until SetSender is called.
func NewBridge(logger *log.Logger) *Bridge {
	return &Bridge{
		logger: logger.WithPrefix("tui"),
		send:   func(tea.Msg) {},
		input:  make(chan string, 1),
		closed: make(chan struct{}),
	}
}

// SetSender routes messages to a program, normally tea.Program.Send. Call it
// before the session starts.
func (b *Bridge) SetSender(send func(tea.Msg)) {
	b.send = send
}

// Attach lets the bridge validate actions against g and show its seats.
// The game is only read from the session goroutine.
func (b *Bridge) Attach(g *game.Game) {
	b.game = g
}

// Submit hands a typed line to whichever prompt is waiting. Lines typed
// while nothing is waiting are dropped.
func (b *Bridge) Submit(line string) {
	select {
	case b.input <- line:
	default:
		b.logger.Debug("Dropping input, nothing is waiting", "line", line)
	}
}

// Close makes every pending and future prompt return game.ErrPlayerQuit.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

// Done shows the closing summary; the next key press exits.
func (b *Bridge) Done(lines ...string) {
	b.send(doneMsg{lines: lines})
}

func (b *Bridge) wait(ctx context.Context) (string, error) {
	select {
	case line := <-b.input:
		return line, nil
	case <-b.closed:
		return "", game.ErrPlayerQuit
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *Bridge) logf(format string, args ...any) {
	b.send(logMsg{lines: []string{fmt.Sprintf(format, args...)}})
}

// MakeDecision implements game.Agent for the hero.
func (b *Bridge) MakeDecision(ctx context.Context, snap game.Snapshot) (game.Decision, error) {
	defer b.send(promptMsg{mode: modeWaiting})

	for {
		b.send(promptMsg{mode: modeAction, snap: snap, table: b.table()})
		line, err := b.wait(ctx)
		if err != nil {
			return game.Decision{}, err
		}

		d, err := ParseCommand(line, snap)
		switch {
		case errors.Is(err, errQuit):
			return game.Decision{}, game.ErrPlayerQuit
		case errors.Is(err, errHelp):
			b.send(logMsg{lines: HelpLines})
			continue
		case err != nil:
			b.logf("%s", ErrorStyle.Render(err.Error()))
			continue
		}

		if b.game != nil {
			if err := b.game.ValidateAction(snap.Seat, d.Action, d.Amount); err != nil {
				if d.Action == game.Raise {
					err = fmt.Errorf("%w: %w", ErrInvalidAmount, err)
				}
				b.logf("%s", ErrorStyle.Render(err.Error()))
				continue
			}
		}
		return d, nil
	}
}

// Event implements session.UI.
func (b *Bridge) Event(e game.GameEvent) {
	msg := logMsg{table: b.table()}
	if line := game.FormatEvent(e); line != "" {
		msg.lines = strings.Split(line, "\n")
	}
	if ev, ok := e.(game.PlayerActionEvent); ok && ev.Player.Bot && !ev.Blind && ev.Reasoning != "" {
		msg.lines = append(msg.lines, InfoStyle.Render("  "+ev.Reasoning))
	}
	if ev, ok := e.(game.HandStartEvent); ok {
		msg.newHand = true
		for _, p := range ev.Players {
			if !p.Bot {
				msg.lines = append(msg.lines, HandInfoStyle.Render("Your cards: ")+FormatCards(p.Hole))
			}
		}
	}
	b.send(msg)
}

// Ask implements session.UI. Typing "hint" shows the question's hint.
func (b *Bridge) Ask(ctx context.Context, q tutor.Question) (string, error) {
	defer b.send(promptMsg{mode: modeWaiting})

	for {
		b.send(promptMsg{mode: modeQuestion, question: q.Prompt})
		answer, err := b.wait(ctx)
		if err != nil {
			return "", err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "hint":
			b.logf("%s", InfoStyle.Render("Hint: "+q.Hint))
			continue
		case "quit":
			return "", game.ErrPlayerQuit
		}
		return answer, nil
	}
}

// Verdict implements session.UI.
func (b *Bridge) Verdict(q tutor.Question, v tutor.Verdict) {
	lines := []string{QuestionStyle.Render(strings.SplitN(q.Prompt, "\n", 2)[0])}
	if v.Correct {
		lines = append(lines, SuccessStyle.Render("✓ "+v.Feedback))
	} else {
		lines = append(lines, ErrorStyle.Render("✗ "+v.Feedback))
	}
	if v.Reasoning != "" {
		lines = append(lines, strings.Split(v.Reasoning, "\n")...)
	}
	b.send(logMsg{lines: lines})
}

// Notice implements session.UI.
func (b *Bridge) Notice(msg string) {
	b.send(logMsg{lines: strings.Split(msg, "\n")})
}

// table copies what the sidebar shows so the model never touches live
// game state.
func (b *Bridge) table() *tableView {
	if b.game == nil {
		return nil
	}
	g := b.game
	v := &tableView{
		Hand:       g.HandNumber(),
		Pot:        g.Pot(),
		CurrentBet: g.CurrentBet(),
		Board:      g.Community(),
	}
	for i, p := range g.Seats() {
		s := seatView{
			Name:   p.Name,
			Chips:  p.Chips,
			Bet:    p.Bet,
			Folded: p.Folded,
			AllIn:  p.AllIn,
			Hero:   p.Name == g.Hero(),
			Dealer: i == g.Dealer(),
		}
		if s.Hero {
			s.Hole = slices.Clone(p.Hole)
		}
		v.Seats = append(v.Seats, s)
	}
	return v
}
