package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-trainer/internal/odds"
	"github.com/lox/holdem-trainer/internal/tutor"
	"github.com/lox/holdem-trainer/poker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	ratioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

type OddsCmd struct {
	Hole  string `arg:"" help:"Your two hole cards, e.g. 'AhKh'"`
	Board string `arg:"" optional:"" help:"Community cards, e.g. '2h7h9c'"`
	Pot   int    `help:"Pot size before your call"`
	Call  int    `help:"Amount you must call"`
}

func (c *OddsCmd) Run(*Globals) error {
	hole, err := poker.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	board, err := poker.ParseCards(c.Board)
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	return writeOdds(os.Stdout, hole, board, c.Pot, c.Call)
}

func writeOdds(w io.Writer, hole, board []poker.Card, pot, call int) error {
	if len(hole) != 2 {
		return fmt.Errorf("need 2 hole cards, got %d", len(hole))
	}
	if len(board) < 3 || len(board) > 5 {
		return fmt.Errorf("need 3 to 5 board cards, got %d", len(board))
	}
	all := slices.Concat(hole, board)
	for i, card := range all {
		if slices.Contains(all[:i], card) {
			return fmt.Errorf("%s appears twice", card)
		}
	}

	hand, err := poker.Evaluate(all)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s  %s %s\n",
		titleStyle.Render("Hole:"), handStyle.Render(poker.FormatCards(hole)),
		titleStyle.Render("Board:"), handStyle.Render(poker.FormatCards(board)))
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Best hand:"), hand.Category)

	if len(board) == 5 {
		fmt.Fprintln(w, "The board is complete, there are no cards to come.")
		return nil
	}

	outs, err := poker.CalculateOuts(hole, board, nil)
	if err != nil {
		return err
	}
	outs = outs.Improving(hand.Category)
	win := odds.EquityOdds(outs.Total(), len(board))

	fmt.Fprintf(w, "\n%s\n%s\n\n", titleStyle.Render("Outs:"), tutor.FormatOuts(outs))
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Odds against improving:"), ratioStyle.Render(win.String()))

	if call > 0 {
		potOdds := odds.PotOdds(pot, call)
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Pot odds:"), ratioStyle.Render(potOdds.String()))
		fmt.Fprintln(w, adviceStyle.Render(tutor.Recommendation(potOdds, win, hand.Category)))
	}
	return nil
}
