// Package odds computes the pot and equity ratios the trainer teaches, and
// reads them back out of free-form answers.
package odds

import (
	"fmt"
	"strings"
)

// Impossible is the equity ratio reported when there are no outs.
const Impossible Ratio = 999

// Ratio is an "X to 1" ratio.
type Ratio float64

// String formats the ratio as "X:1". Ratios below 10 keep one decimal
// unless it is zero.
func (r Ratio) String() string {
	if r >= 10 {
		return fmt.Sprintf("%.0f:1", float64(r))
	}
	s := fmt.Sprintf("%.1f", float64(r))
	return strings.TrimSuffix(s, ".0") + ":1"
}

// PotOdds returns what the pot pays relative to the call: (pot+call)/call.
// Zero when there is nothing to call.
func PotOdds(pot, call int) Ratio {
	if call <= 0 {
		return 0
	}
	return Ratio(float64(pot+call) / float64(call))
}

// EquityOdds returns the odds against hitting one of outs on the next card,
// counting the two hole cards and the board as seen.
func EquityOdds(outs, communityCards int) Ratio {
	if outs <= 0 {
		return Impossible
	}
	unseen := 52 - 2 - communityCards
	return Ratio(float64(unseen-outs) / float64(outs))
}

// ShouldCall reports whether the pot pays better than the odds against
// improving.
func ShouldCall(pot, equity Ratio) bool {
	return pot > equity
}
