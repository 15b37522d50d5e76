package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/profile"
	"github.com/lox/holdem-trainer/internal/session"
	"github.com/lox/holdem-trainer/poker"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestWriteOddsFlushDraw(t *testing.T) {
	var buf bytes.Buffer
	err := writeOdds(&buf, poker.MustParseCards("AhKh"), poker.MustParseCards("2h7h9c"), 100, 20)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Best hand: High Card")
	assert.Contains(t, out, "Flush (9 outs):")
	assert.Contains(t, out, "Pot odds: 6:1")
	assert.Contains(t, out, "Odds against improving:")
}

func TestWriteOddsCompleteBoard(t *testing.T) {
	var buf bytes.Buffer
	err := writeOdds(&buf, poker.MustParseCards("AhAd"), poker.MustParseCards("AsAc2h7d9c"), 0, 0)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Four of a Kind")
	assert.Contains(t, buf.String(), "no cards to come")
	assert.NotContains(t, buf.String(), "Outs:")
}

func TestWriteOddsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		hole  string
		board string
	}{
		{"one hole card", "Ah", "2h7h9c"},
		{"no flop", "AhKh", "2h7h"},
		{"duplicate card", "AhKh", "Ah7h9c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeOdds(io.Discard, poker.MustParseCards(tt.hole), poker.MustParseCards(tt.board), 0, 0)
			assert.Error(t, err)
		})
	}
}

func TestSummaryLines(t *testing.T) {
	lines := summaryLines("Ada", session.Summary{
		Hands:         12,
		StartingChips: 1000,
		FinalChips:    1250,
		Questions:     4,
		Correct:       3,
		Quit:          true,
	})
	assert.Contains(t, lines, "Session over for Ada after 12 hands.")
	assert.Contains(t, lines, "Chips: 1000 -> 1250 (+250)")
	assert.Contains(t, lines, "Quiz: 3/4 correct (75%)")
	assert.Contains(t, lines, "You left the table; your stack is saved.")

	broke := summaryLines("Ada", session.Summary{Hands: 3, StartingChips: 100})
	assert.Contains(t, broke, "You're out of chips. Run 'holdem store' for more.")
}

func TestCollaboratorsWithoutKeyGradeLocally(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKeyEnv = "HOLDEM_TEST_MISSING_KEY"
	t.Setenv("HOLDEM_TEST_MISSING_KEY", "")

	logger := log.NewWithOptions(io.Discard, log.Options{})
	assert.Len(t, collaborators(cfg, logger), 1)

	cfg.LLM.Enabled = new(bool)
	assert.Len(t, collaborators(cfg, logger), 1)
}

func TestCollaboratorsWithKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKeyEnv = "HOLDEM_TEST_KEY"
	t.Setenv("HOLDEM_TEST_KEY", "sk-test")
	enabled := true
	cfg.LLM.BotAdvisor = &enabled

	opts := collaborators(cfg, log.NewWithOptions(io.Discard, log.Options{}))
	assert.Len(t, opts, 2, "grader and advisor")
}

func TestStoreAddsChips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player.json")
	cfgFile := filepath.Join(dir, "holdem.hcl")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`profile {
  path = "`+filepath.ToSlash(path)+`"
  starting_chips = 300
  store_chips = 200
}
`), 0o644))

	g := &Globals{Config: cfgFile, Env: filepath.Join(dir, ".env")}
	require.NoError(t, (&StoreCmd{}).Run(g))
	require.NoError(t, (&StoreCmd{Amount: 50}).Run(g))

	p, found, err := profile.NewStore(path, 300).Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 550, p.Chips)

	assert.Error(t, (&StoreCmd{Amount: -5}).Run(g))
}

func TestPlayApplyOverrides(t *testing.T) {
	cfg := config.Default()
	(&PlayCmd{Bots: 5, Difficulty: "hard", Seed: 9, NoQuiz: true, NoLLM: true}).apply(cfg)

	assert.Equal(t, 5, cfg.Game.Bots)
	assert.Equal(t, "hard", cfg.Game.Difficulty)
	assert.Equal(t, int64(9), cfg.Game.Seed)
	assert.False(t, cfg.QuizEnabled())
	assert.False(t, cfg.LLMEnabled())
	assert.NoError(t, cfg.Validate())
}
