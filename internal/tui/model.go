// Package tui is the terminal front end for interactive play. The Bubble
// Tea model owns the screen; a Bridge plays the hero's seat for the session
// and talks to the model through messages.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

type mode int

const (
	modeWaiting mode = iota
	modeAction
	modeQuestion
	modeDone
)

const (
	paneLog = iota
	paneInput
)

type seatView struct {
	Name   string
	Chips  int
	Bet    int
	Folded bool
	AllIn  bool
	Hero   bool
	Dealer bool
	Hole   []poker.Card
}

type tableView struct {
	Hand       int
	Pot        int
	CurrentBet int
	Board      []poker.Card
	Seats      []seatView
}

type logMsg struct {
	lines   []string
	table   *tableView
	newHand bool
}

type promptMsg struct {
	mode     mode
	snap     game.Snapshot
	table    *tableView
	question string
}

type doneMsg struct {
	lines []string
}

// Model is the Bubble Tea model for a training session.
type Model struct {
	logger *log.Logger
	bridge *Bridge

	logViewport viewport.Model
	actionInput textinput.Model

	lines       []string
	table       tableView
	mode        mode
	snap        game.Snapshot
	question    string
	focusedPane int
	quitting    bool

	width       int
	height      int
	initialized bool
}

// NewModel creates the model. Typed lines are submitted to bridge.
func NewModel(bridge *Bridge, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		logger:      logger.WithPrefix("tui"),
		bridge:      bridge,
		logViewport: vp,
		actionInput: ti,
		focusedPane: paneInput,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case logMsg:
		if msg.table != nil {
			m.table = *msg.table
		}
		if msg.newHand && len(m.lines) > 0 {
			m.addLines("")
		}
		m.addLines(msg.lines...)

	case promptMsg:
		m.mode = msg.mode
		m.snap = msg.snap
		m.question = msg.question
		if msg.table != nil {
			m.table = *msg.table
		}

	case doneMsg:
		m.mode = modeDone
		m.addLines(msg.lines...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Resized", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.bridge.Close()
			return m, tea.Quit
		case "tab":
			if m.focusedPane == paneLog {
				m.focusedPane = paneInput
				m.actionInput.Focus()
			} else {
				m.focusedPane = paneLog
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == paneInput {
				if cmd := m.submit(); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == paneLog {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == paneLog {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == paneInput {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the typed line to the waiting prompt.
func (m *Model) submit() tea.Cmd {
	line := strings.TrimSpace(m.actionInput.Value())
	m.actionInput.SetValue("")

	switch m.mode {
	case modeDone:
		m.quitting = true
		return tea.Quit
	case modeAction, modeQuestion:
		m.addLines(InfoStyle.Render("> " + line))
		m.mode = modeWaiting
		m.bridge.Submit(line)
	}
	return nil
}

func (m *Model) addLines(lines ...string) {
	if len(lines) == 0 {
		return
	}
	m.lines = append(m.lines, lines...)
	m.logViewport.SetContent(strings.Join(m.lines, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Lines returns the log as shown, including styling.
func (m *Model) Lines() []string {
	return append([]string(nil), m.lines...)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(paneInput)).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.SetContent(strings.Join(m.lines, "\n"))
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.borderColor(paneLog)).
		Width(m.logViewport.Width).
		Height(paneHeight).
		Render(m.logViewport.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Top, top, actionPane)
}

func (m *Model) borderColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return lipgloss.Color("#04B575")
	}
	return lipgloss.Color("#626262")
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	if m.table.Hand > 0 {
		b.WriteString(HeaderStyle.Render(fmt.Sprintf(" Hand #%d ", m.table.Hand)))
		b.WriteString("\n\n")
	}
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: $%d", m.table.Pot)))
	if m.table.CurrentBet > 0 {
		b.WriteString(" | ")
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Bet: $%d", m.table.CurrentBet)))
	}
	b.WriteString("\n")
	b.WriteString("Board: " + FormatCards(m.table.Board))
	b.WriteString("\n\n")

	for _, s := range m.table.Seats {
		line := s.Name
		if s.Dealer {
			line += " (D)"
		}
		line += fmt.Sprintf(": $%d", s.Chips)
		if s.Bet > 0 {
			line += fmt.Sprintf(" bet %d", s.Bet)
		}
		if s.AllIn {
			line += " all-in"
		}
		if s.Hero && len(s.Hole) > 0 && !s.Folded {
			line += " " + FormatCards(s.Hole)
		}
		switch {
		case s.Folded:
			line = FoldedStyle.Render(line)
		case s.Hero:
			line = HeroStyle.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch m.mode {
	case modeAction:
		s := m.snap
		b.WriteString(HandInfoStyle.Render("Hand: ") + FormatCards(s.Hole))
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("  Pot: $%d  Stack: $%d", s.Pot, s.Chips)))
		b.WriteString("\n")
		b.WriteString(m.renderActions())
		b.WriteString("\n")
		m.actionInput.Placeholder = "fold, check, call, raise <n>, raise to <n>, allin, help"
	case modeQuestion:
		b.WriteString(QuestionStyle.Render(m.question))
		b.WriteString("\n")
		m.actionInput.Placeholder = "your answer, or 'hint'"
	case modeDone:
		b.WriteString(HandInfoStyle.Render("Session over."))
		b.WriteString("\n")
		m.actionInput.Placeholder = "press enter to exit"
	default:
		b.WriteString(HandInfoStyle.Render("Waiting..."))
		b.WriteString("\n")
		m.actionInput.Placeholder = ""
	}

	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	if m.focusedPane == paneLog {
		b.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		b.WriteString(InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return b.String()
}

func (m *Model) renderActions() string {
	s := m.snap
	actions := []string{ErrorStyle.Render("[fold]")}
	if s.CanCheck() {
		actions = append(actions, SuccessStyle.Render("[check]"))
	} else {
		actions = append(actions, SuccessStyle.Render(fmt.Sprintf("[call $%d]", min(s.ToCall(), s.Chips))))
	}
	if s.Chips > s.ToCall() {
		actions = append(actions, WarningStyle.Render(fmt.Sprintf("[raise min %d]", min(s.MinRaise, s.Chips-s.ToCall()))))
	}
	actions = append(actions, WarningStyle.Render(fmt.Sprintf("[allin $%d]", s.Chips)))
	return ActionsStyle.Render("Actions: ") + strings.Join(actions, " ")
}
