package tutor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/holdem-trainer/internal/odds"
	"github.com/lox/holdem-trainer/poker"
)

// FormatOuts lists the outs by improvement, strongest first, with the
// suits of each rank on one line:
//
//	Flush (9 outs):
//	  A: ♠, ♥
func FormatOuts(outs poker.Outs) string {
	if outs.Total() == 0 {
		return "No outs available (you may already have a strong hand!)"
	}

	var b strings.Builder
	for i, cat := range outs.Categories() {
		if i > 0 {
			b.WriteByte('\n')
		}
		cards := outs[cat]
		fmt.Fprintf(&b, "%s (%d outs):", cat, len(cards))

		bySuit := map[poker.Rank][]string{}
		var ranks []poker.Rank
		for _, c := range cards {
			if _, ok := bySuit[c.Rank]; !ok {
				ranks = append(ranks, c.Rank)
			}
			bySuit[c.Rank] = append(bySuit[c.Rank], c.Suit.String())
		}
		slices.SortFunc(ranks, func(a, b poker.Rank) int { return int(b) - int(a) })
		for _, r := range ranks {
			fmt.Fprintf(&b, "\n  %s: %s", r, strings.Join(bySuit[r], ", "))
		}
	}
	return b.String()
}

// Recommendation compares the pot odds with the odds against improving.
func Recommendation(pot, win odds.Ratio, hand poker.Category) string {
	switch {
	case hand >= poker.ThreeOfAKind:
		return "You have a strong hand! Consider betting or raising."
	case odds.ShouldCall(pot, win):
		return fmt.Sprintf("Good pot odds! Pot odds (%s) > win odds (%s). Calling is profitable!", pot, win)
	case pot > win*0.9:
		return fmt.Sprintf("Close odds. Pot odds (%s) ≈ win odds (%s). Marginal call.", pot, win)
	default:
		return fmt.Sprintf("Poor pot odds. Pot odds (%s) < win odds (%s). Consider folding.", pot, win)
	}
}

// Analysis returns the recommendation for a situation, or "" when there is
// nothing to call or no outs to weigh.
func Analysis(s Situation) string {
	if s.ToCall <= 0 || s.TotalOuts() == 0 {
		return ""
	}
	return Recommendation(s.PotOdds(), s.WinOdds(), s.Hand.Category)
}
