package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/holdem-trainer/internal/game"
)

// ErrInvalidAmount is shown when a bet size cannot be read.
var ErrInvalidAmount = errors.New("invalid bet amount")

var (
	errHelp = errors.New("help")
	errQuit = errors.New("quit")
)

// HelpLines lists the commands accepted at the action prompt.
var HelpLines = []string{
	"Commands:",
	"  fold, f            fold your hand",
	"  check, k           check when nothing is owed",
	"  call, c            call the current bet",
	"  raise <n>, r <n>   raise by n on top of the call",
	"  raise to <n>       raise so your total bet this round is n",
	"  bet <n>            open the betting with n",
	"  allin, a           push every chip",
	"  help               show this help",
	"  quit               leave the table",
}

// ParseCommand turns a line typed at the action prompt into a decision.
// Pressing enter on an empty line checks when possible.
func ParseCommand(line string, snap game.Snapshot) (game.Decision, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		if snap.CanCheck() {
			return game.Decision{Action: game.Check, Reasoning: "human"}, nil
		}
		return game.Decision{}, fmt.Errorf("%w: you owe %d, type call or fold", game.ErrIllegalAction, snap.ToCall())
	}

	switch fields[0] {
	case "help", "h", "?":
		return game.Decision{}, errHelp
	case "quit", "q", "exit", "leave":
		return game.Decision{}, errQuit
	}

	action, err := game.ParseAction(fields[0])
	if err != nil {
		return game.Decision{}, err
	}
	d := game.Decision{Action: action, Reasoning: "human"}
	if action != game.Raise {
		return d, nil
	}

	args := fields[1:]
	raiseTo := len(args) > 0 && args[0] == "to"
	if raiseTo {
		args = args[1:]
	}
	if len(args) == 0 {
		return game.Decision{}, fmt.Errorf("%w: say how much, for example 'raise %d'", ErrInvalidAmount, snap.MinRaise)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[0], "$"))
	if err != nil || n <= 0 {
		return game.Decision{}, fmt.Errorf("%w: %q", ErrInvalidAmount, args[0])
	}
	if raiseTo {
		n -= snap.CurrentBet
		if n <= 0 {
			return game.Decision{}, fmt.Errorf("%w: the bet is already %d", ErrInvalidAmount, snap.CurrentBet)
		}
	}
	d.Amount = n
	return d, nil
}
