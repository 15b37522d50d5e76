package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testConfig() Config {
	return Config{
		Games:   4,
		Hands:   30,
		Seats:   []game.Difficulty{game.Easy, game.Medium, game.Hard},
		Chips:   1000,
		Blinds:  game.Config{SmallBlind: 10, BigBlind: 20},
		Seed:    12345,
		Workers: 2,
		Timeout: 30 * time.Second,
		Logger:  quietLogger(),
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	s := New(Config{})
	assert.Equal(t, 1, s.config.Games)
	assert.Equal(t, 100, s.config.Hands)
	assert.Len(t, s.config.Seats, 3)
	assert.Equal(t, 1000, s.config.Chips)
	assert.Positive(t, s.config.Workers)
	assert.NotNil(t, s.config.Logger)
}

func TestRunProducesBalancedReport(t *testing.T) {
	t.Parallel()

	res, err := New(testConfig()).Run(t.Context())
	require.NoError(t, err)
	require.NoError(t, res.Report.Validate())

	assert.Equal(t, 4, res.Games)
	assert.Positive(t, res.Report.Hands)
	assert.LessOrEqual(t, res.Report.Hands, 4*30)
	assert.Len(t, res.Report.Difficulties, 3)
	assert.Equal(t, []string{"easy 1", "hard 3", "medium 2"}, res.Report.Names())

	// bots only play each other, so results cancel out
	var total float64
	for _, s := range res.Report.Players {
		total += s.AllBB
	}
	assert.InDelta(t, 0, total, 1e-6)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig()).Run(t.Context())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Workers = 1
	b, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, a.Report.Hands, b.Report.Hands)
	for name, s := range a.Report.Players {
		assert.Equal(t, s.Values, b.Report.Players[name].Values, "player %s", name)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := New(testConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Games = 1
	cfg.Hands = 5
	res, err := New(cfg).Run(t.Context())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSummary(&buf, res)
	out := buf.String()
	assert.Contains(t, out, "=== BY DIFFICULTY ===")
	assert.Contains(t, out, "hard")
	assert.Contains(t, out, "medium 2")
	assert.Contains(t, out, "bb/hand")
}
