package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

func typeLine(m *Model, line string) tea.Cmd {
	m.actionInput.SetValue(line)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func pending(b *Bridge) (string, bool) {
	select {
	case line := <-b.input:
		return line, true
	default:
		return "", false
	}
}

func TestModelSubmitsWhilePrompted(t *testing.T) {
	t.Parallel()

	b := NewBridge(quietLogger())
	m := NewModel(b, quietLogger())

	typeLine(m, "call")
	_, ok := pending(b)
	assert.False(t, ok, "nothing is submitted while waiting")

	m.Update(promptMsg{mode: modeAction, snap: game.Snapshot{CurrentBet: 20, Chips: 500, MinRaise: 20}})
	typeLine(m, "  call ")
	line, ok := pending(b)
	require.True(t, ok)
	assert.Equal(t, "call", line)
	assert.Equal(t, modeWaiting, m.mode, "a second enter cannot double submit")
	assert.Contains(t, strings.Join(m.Lines(), "\n"), "> call")
	assert.Empty(t, m.actionInput.Value())
}

func TestModelQuit(t *testing.T) {
	t.Parallel()

	b := NewBridge(quietLogger())
	m := NewModel(b, quietLogger())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	_, err := b.wait(t.Context())
	assert.ErrorIs(t, err, game.ErrPlayerQuit)
}

func TestModelDone(t *testing.T) {
	t.Parallel()

	m := NewModel(NewBridge(quietLogger()), quietLogger())
	m.Update(doneMsg{lines: []string{"Final chips: 1200"}})
	assert.Equal(t, modeDone, m.mode)
	assert.Contains(t, m.Lines(), "Final chips: 1200")

	cmd := typeLine(m, "")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelView(t *testing.T) {
	t.Parallel()

	m := NewModel(NewBridge(quietLogger()), quietLogger())
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(logMsg{
		lines:   []string{"Hand #3, Bot 1 has the button (blinds 10/20)"},
		newHand: true,
		table: &tableView{
			Hand:       3,
			Pot:        30,
			CurrentBet: 20,
			Board:      poker.MustParseCards("AhKd2c"),
			Seats: []seatView{
				{Name: "Ada", Chips: 990, Bet: 10, Hero: true, Hole: poker.MustParseCards("QsQh")},
				{Name: "Bot 1", Chips: 980, Bet: 20, Dealer: true},
				{Name: "Bot 2", Chips: 0, Folded: true},
			},
		},
	})

	view := m.View()
	assert.Contains(t, view, "Hand #3")
	assert.Contains(t, view, "Pot: $30")
	assert.Contains(t, view, "Bot 1 (D): $980 bet 20")
	assert.Contains(t, view, "Q♠ Q♥")
	assert.Contains(t, view, "Waiting...")
	assert.Contains(t, view, "blinds 10/20")

	m.Update(promptMsg{mode: modeAction, snap: game.Snapshot{
		Hole:       poker.MustParseCards("QsQh"),
		Pot:        30,
		CurrentBet: 20,
		PlayerBet:  10,
		Chips:      990,
		MinRaise:   20,
	}})
	view = m.View()
	assert.Contains(t, view, "[call $10]")
	assert.Contains(t, view, "[raise min 20]")
	assert.Contains(t, view, "[allin $990]")

	m.Update(promptMsg{mode: modeQuestion, question: "How many outs do you have?"})
	assert.Contains(t, m.View(), "How many outs do you have?")
}

func TestModelTabTogglesFocus(t *testing.T) {
	t.Parallel()

	m := NewModel(NewBridge(quietLogger()), quietLogger())
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, paneLog, m.focusedPane)
	assert.False(t, m.actionInput.Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, paneInput, m.focusedPane)
	assert.True(t, m.actionInput.Focused())
}
