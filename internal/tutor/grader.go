package tutor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/odds"
	"github.com/lox/holdem-trainer/poker"
)

// Status says whether a grader produced a verdict.
type Status int

const (
	// Graded verdicts carry a judgement.
	Graded Status = iota
	// Unavailable means the grader could not judge, e.g. no API key.
	Unavailable
)

// Verdict is the outcome of grading one answer.
type Verdict struct {
	Status    Status
	Correct   bool
	Feedback  string
	Reasoning string
}

// Grader judges an answer to a question.
type Grader interface {
	Grade(ctx context.Context, q Question, answer string) (Verdict, error)
}

// LocalGrader grades with the odds utilities and needs nothing external.
type LocalGrader struct {
	Tolerance float64 // for ratio answers, odds.DefaultTolerance when zero
}

// Grade implements Grader.
func (g LocalGrader) Grade(_ context.Context, q Question, answer string) (Verdict, error) {
	tol := g.Tolerance
	if tol == 0 {
		tol = odds.DefaultTolerance
	}
	s := q.Situation

	switch q.Kind {
	case PotOdds:
		want := s.PotOdds()
		ok, err := odds.CheckRatio(answer, want, tol)
		if err != nil {
			return invalid("Please answer with a ratio like '3:1' or '3.5:1'"), nil
		}
		if ok {
			return correct("Correct! The pot odds are %s", want), nil
		}
		return wrong("Not quite. The pot odds are %s. Formula: (pot + call) / call", want), nil

	case Outs:
		want := s.TotalOuts()
		ok, err := odds.CheckCount(answer, want)
		if err != nil {
			return invalid("Please answer with a number"), nil
		}
		if ok {
			return correct("Correct! You have %d outs.", want), nil
		}
		v := wrong("Not quite. You have %d outs.", want)
		if want > 0 {
			v.Reasoning = FormatOuts(s.Outs)
		}
		return v, nil

	case WinOdds:
		want := s.WinOdds()
		ok, err := odds.CheckRatio(answer, want, tol)
		if err != nil {
			return invalid("Please answer with a ratio like '4:1' or '4.6:1'"), nil
		}
		if ok {
			return correct("Correct! The odds against improving are %s", want), nil
		}
		return wrong("Not quite. The odds against improving are %s. Formula: (unknown cards - outs) / outs", want), nil

	case HandStrength:
		want := s.Hand.Category
		if named, ok := NamedCategory(answer); ok && named == want {
			return correct("Correct! You have %s.", want), nil
		}
		return wrong("Not quite. You have %s.", want), nil
	}

	return Verdict{}, fmt.Errorf("grade %s question: %w", q.Kind, errors.ErrUnsupported)
}

// NamedCategory finds the hand category named in text. The longest match
// wins, so "two pair" is not read as "pair".
func NamedCategory(text string) (poker.Category, bool) {
	text = strings.ToLower(text)
	var (
		best    poker.Category
		bestLen int
	)
	for c := poker.HighCard; c <= poker.RoyalFlush; c++ {
		name := strings.ToLower(c.String())
		if len(name) > bestLen && strings.Contains(text, name) {
			best, bestLen = c, len(name)
		}
	}
	return best, bestLen > 0
}

func correct(format string, args ...any) Verdict {
	return Verdict{Status: Graded, Correct: true, Feedback: fmt.Sprintf(format, args...)}
}

func wrong(format string, args ...any) Verdict {
	return Verdict{Status: Graded, Feedback: fmt.Sprintf(format, args...)}
}

func invalid(msg string) Verdict {
	return Verdict{Status: Graded, Feedback: "Invalid answer format. " + msg}
}

// ChainGrader asks each grader in turn and returns the first verdict that
// is Graded. Errors are logged and treated as Unavailable.
type ChainGrader struct {
	graders []Grader
	logger  *log.Logger
}

// NewChainGrader creates a chain. A nil logger discards failures.
func NewChainGrader(logger *log.Logger, graders ...Grader) *ChainGrader {
	return &ChainGrader{graders: slices.Clone(graders), logger: logger}
}

// Grade implements Grader.
func (c *ChainGrader) Grade(ctx context.Context, q Question, answer string) (Verdict, error) {
	for _, g := range c.graders {
		v, err := g.Grade(ctx, q, answer)
		if err != nil {
			if ctx.Err() != nil {
				return Verdict{}, ctx.Err()
			}
			if c.logger != nil {
				c.logger.Warn("Grader failed", "question", q.Kind, "error", err)
			}
			continue
		}
		if v.Status == Graded {
			return v, nil
		}
	}
	return Verdict{Status: Unavailable, Feedback: "No grader available"}, nil
}
