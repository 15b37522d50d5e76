// Package statistics aggregates hand results in big blinds per player and
// per bot difficulty.
package statistics

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"sort"

	"github.com/lox/holdem-trainer/internal/game"
)

// Outcome is one player's result for a single hand.
type Outcome struct {
	Player     string
	Bot        bool
	Difficulty game.Difficulty
	NetBB      float64 // big blinds won or lost
	Showdown   bool    // the hand reached a showdown
	Pot        int     // chips paid out, in chips
}

// Statistics is a running aggregate of outcomes.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64 // sum of squares for the variance
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	MaxPot int
}

// Mean returns the average result in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate is the share of hands with a positive result.
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.ShowdownWins+s.NonShowdownWins) / float64(s.Hands)
}

// Add folds one outcome into the aggregate.
func (s *Statistics) Add(o Outcome) {
	s.Hands++
	s.SumBB += o.NetBB
	s.SumBB2 += o.NetBB * o.NetBB
	s.Values = append(s.Values, o.NetBB)

	if o.NetBB > 0 {
		if o.Showdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if o.Showdown {
		s.ShowdownBB += o.NetBB
	} else {
		s.NonShowdownBB += o.NetBB
	}
	s.AllBB += o.NetBB
	s.MaxPot = max(s.MaxPot, o.Pot)
}

// Merge adds every outcome counted in other.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.AllBB += other.AllBB
	s.MaxPot = max(s.MaxPot, other.MaxPot)
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p, between 0 and 1.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced reports whether showdown and non-showdown totals add up.
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the aggregate for internal consistency.
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.6f showdown=%.6f non-showdown=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length %d does not match hands %d", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("wins %d exceed hands %d", wins, s.Hands)
	}
	return nil
}

// Report groups statistics by player and by bot difficulty.
type Report struct {
	Players      map[string]*Statistics
	Difficulties map[game.Difficulty]*Statistics
	Hands        int
	Showdowns    int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Players:      make(map[string]*Statistics),
		Difficulties: make(map[game.Difficulty]*Statistics),
	}
}

// Record adds the outcomes of one hand.
func (r *Report) Record(outcomes []Outcome) {
	if len(outcomes) == 0 {
		return
	}
	r.Hands++
	if outcomes[0].Showdown {
		r.Showdowns++
	}
	for _, o := range outcomes {
		statsFor(r.Players, o.Player).Add(o)
		if o.Bot {
			statsFor(r.Difficulties, o.Difficulty).Add(o)
		}
	}
}

// Merge adds everything recorded in other.
func (r *Report) Merge(other *Report) {
	r.Hands += other.Hands
	r.Showdowns += other.Showdowns
	for name, s := range other.Players {
		statsFor(r.Players, name).Merge(s)
	}
	for d, s := range other.Difficulties {
		statsFor(r.Difficulties, d).Merge(s)
	}
}

// Names returns the recorded players in name order.
func (r *Report) Names() []string {
	return slices.Sorted(maps.Keys(r.Players))
}

// Validate checks every aggregate in the report.
func (r *Report) Validate() error {
	for _, name := range r.Names() {
		if err := r.Players[name].Validate(); err != nil {
			return fmt.Errorf("player %s: %w", name, err)
		}
	}
	for d, s := range r.Difficulties {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("difficulty %s: %w", d, err)
		}
	}
	return nil
}

func statsFor[K comparable](m map[K]*Statistics, k K) *Statistics {
	s, ok := m[k]
	if !ok {
		s = &Statistics{}
		m[k] = s
	}
	return s
}

// Tracker turns engine events into outcomes. Subscribe it to an engine's
// event bus.
type Tracker struct {
	report *Report
	start  map[string]int
	big    int
}

// NewTracker records into report.
func NewTracker(report *Report) *Tracker {
	return &Tracker{report: report, start: make(map[string]int)}
}

// Report returns the report being filled.
func (t *Tracker) Report() *Report {
	return t.report
}

// OnEvent implements game.EventSubscriber.
func (t *Tracker) OnEvent(e game.GameEvent) {
	switch ev := e.(type) {
	case game.HandStartEvent:
		clear(t.start)
		t.big = ev.BigBlind
		// blinds are already posted, so the stack is chips plus the round bet
		for _, p := range ev.Players {
			t.start[p.Name] = p.Chips + p.Bet
		}
	case game.HandEndEvent:
		t.report.Record(Outcomes(ev, t.start, t.big))
	}
}

// Outcomes computes per-player results for a finished hand from the stacks
// each dealt-in player started it with.
func Outcomes(ev game.HandEndEvent, start map[string]int, bigBlind int) []Outcome {
	if bigBlind <= 0 || ev.Settlement == nil {
		return nil
	}
	var out []Outcome
	for _, p := range ev.Players {
		before, dealt := start[p.Name]
		if !dealt {
			continue
		}
		out = append(out, Outcome{
			Player:     p.Name,
			Bot:        p.Bot,
			Difficulty: p.Difficulty,
			NetBB:      float64(p.Chips-before) / float64(bigBlind),
			Showdown:   ev.Settlement.Showdown,
			Pot:        ev.Settlement.TotalPaid,
		})
	}
	return out
}
