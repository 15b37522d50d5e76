package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/game"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	facing := game.Snapshot{CurrentBet: 40, PlayerBet: 10, Chips: 500, MinRaise: 20}
	open := game.Snapshot{Chips: 500, MinRaise: 20}

	tests := []struct {
		name   string
		line   string
		snap   game.Snapshot
		action game.Action
		amount int
	}{
		{"fold", "fold", facing, game.Fold, 0},
		{"short fold", "f", facing, game.Fold, 0},
		{"call", "CALL", facing, game.Call, 0},
		{"check", "check", open, game.Check, 0},
		{"empty line checks", "  ", open, game.Check, 0},
		{"raise by", "raise 60", facing, game.Raise, 60},
		{"dollar amount", "r $25", facing, game.Raise, 25},
		{"raise to", "raise to 100", facing, game.Raise, 60},
		{"bet", "bet 30", open, game.Raise, 30},
		{"allin", "allin", facing, game.AllIn, 0},
		{"shove", "a", facing, game.AllIn, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := ParseCommand(tt.line, tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.amount, d.Amount)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	t.Parallel()

	facing := game.Snapshot{CurrentBet: 40, PlayerBet: 10, Chips: 500, MinRaise: 20}

	tests := []struct {
		name string
		line string
		want error
	}{
		{"raise without amount", "raise", ErrInvalidAmount},
		{"raise with words", "raise lots", ErrInvalidAmount},
		{"negative raise", "raise -5", ErrInvalidAmount},
		{"raise to below the bet", "raise to 30", ErrInvalidAmount},
		{"unknown word", "dance", game.ErrIllegalAction},
		{"empty line facing a bet", "", game.ErrIllegalAction},
		{"help", "help", errHelp},
		{"quit", "quit", errQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCommand(tt.line, facing)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
