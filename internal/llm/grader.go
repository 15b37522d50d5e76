package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lox/holdem-trainer/internal/tutor"
	"github.com/lox/holdem-trainer/poker"
)

// DefaultGraderModel is used when no model is configured.
const DefaultGraderModel = "claude-3-5-sonnet-20241022"

const graderMaxTokens = 2000

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Grader evaluates quiz answers in two passes: a first call reviews the
// student's reasoning, a second call judges that review and returns a
// JSON verdict. It implements tutor.Grader.
type Grader struct {
	client *Client
	model  string
}

var _ tutor.Grader = (*Grader)(nil)

// NewGrader creates a grader. An empty model uses DefaultGraderModel.
func NewGrader(c *Client, model string) *Grader {
	if model == "" {
		model = DefaultGraderModel
	}
	return &Grader{client: c, model: model}
}

type judgement struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
	Reasoning string `json:"reasoning"`
}

// Grade implements tutor.Grader. Hand strength questions and calls without
// credentials are Unavailable.
func (g *Grader) Grade(ctx context.Context, q tutor.Question, answer string) (tutor.Verdict, error) {
	if !g.client.Available() || q.Kind == tutor.HandStrength {
		return tutor.Verdict{Status: tutor.Unavailable}, nil
	}

	evaluation, err := g.ask(ctx, evaluationPrompt(q, answer))
	if err != nil {
		return tutor.Verdict{}, fmt.Errorf("evaluate %s answer: %w", q.Kind, err)
	}

	judged, err := g.ask(ctx, judgePrompt(q, answer, evaluation))
	if err != nil {
		return tutor.Verdict{}, fmt.Errorf("judge %s answer: %w", q.Kind, err)
	}

	j, err := parseJudgement(judged)
	if err != nil {
		return tutor.Verdict{}, err
	}
	if j.Feedback == "" {
		j.Feedback = "Evaluation completed"
	}
	if j.Reasoning == "" {
		j.Reasoning = evaluation
	}
	return tutor.Verdict{
		Status:    tutor.Graded,
		Correct:   j.IsCorrect,
		Feedback:  j.Feedback,
		Reasoning: j.Reasoning,
	}, nil
}

func (g *Grader) ask(ctx context.Context, prompt string) (string, error) {
	return g.client.Complete(ctx, Request{
		Model:     g.model,
		MaxTokens: graderMaxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	})
}

func parseJudgement(text string) (judgement, error) {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return judgement{}, errors.New("judge reply contained no JSON object")
	}
	var j judgement
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return judgement{}, fmt.Errorf("decode judge reply: %w", err)
	}
	return j, nil
}

type promptContext struct {
	Hand         []string            `json:"player_hand"`
	Community    []string            `json:"community_cards"`
	Stage        string              `json:"stage"`
	Pot          int                 `json:"pot"`
	CallAmount   int                 `json:"call_amount"`
	TotalOuts    int                 `json:"total_outs"`
	UnknownCards int                 `json:"unknown_cards"`
	Outs         map[string][]string `json:"outs"`
}

func contextJSON(s tutor.Situation) string {
	pc := promptContext{
		Hand:         cardStrings(s.Hole),
		Community:    cardStrings(s.Community),
		Stage:        s.Street.String(),
		Pot:          s.Pot,
		CallAmount:   s.ToCall,
		TotalOuts:    s.TotalOuts(),
		UnknownCards: s.Unseen(),
		Outs:         map[string][]string{},
	}
	for cat, cards := range s.Outs {
		pc.Outs[cat.String()] = cardStrings(cards)
	}
	b, _ := json.MarshalIndent(pc, "", "  ")
	return string(b)
}

func cardStrings(cards []poker.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func evaluationPrompt(q tutor.Question, answer string) string {
	s := q.Situation
	switch q.Kind {
	case tutor.Outs:
		var breakdown strings.Builder
		for _, cat := range s.Outs.Categories() {
			fmt.Fprintf(&breakdown, "- %s: %s\n", cat, joinCards(s.Outs[cat]))
		}
		return fmt.Sprintf(`You are a poker professor evaluating a student's answer about OUTS.

CONTEXT:
- Player's hand: %s
- Community cards: %s
- Stage: %s

QUESTION: How many outs do you have?

CALCULATED OUTS (by simple counting): %d
Breakdown:
%s
STUDENT'S ANSWER: %q

IMPORTANT CONSIDERATIONS:
1. The student may have given reasoning (e.g., "I think it's 5 because opponent might have a flush")
2. An "out" is only valid if it improves YOUR hand more than opponents
3. If the student suspects opponents have certain hands, some outs might not be real outs
4. The student should consider what hands opponents might have based on betting patterns
5. A card that completes your straight but gives opponent a flush is NOT a valid out

TASK:
1. Extract the number from the student's answer (may include math like "3+4")
2. Read their reasoning if provided
3. Evaluate if their reasoning about opponent hands is sound
4. If they reasoned well about opponents having better hands, they might be MORE correct than the simple count
5. Provide feedback that teaches proper out counting

Respond with detailed evaluation explaining whether their reasoning is sound.`,
			joinCards(s.Hole), joinCards(s.Community), s.Street, s.TotalOuts(), breakdown.String(), answer)

	case tutor.PotOdds:
		return fmt.Sprintf(`You are a poker professor evaluating a student's answer about POT ODDS.

CONTEXT:
- Pot size: $%d
- Amount to call: $%d

QUESTION: What are the pot odds? (Format: X:1)

CORRECT ANSWER: %s
Calculation: (%d + %d) / %d = %.2f:1

STUDENT'S ANSWER: %q

TASK:
1. Extract the ratio from their answer
2. Check if the calculation is correct (allow small rounding differences)
3. If they showed their work, verify it
4. Provide feedback

Respond with evaluation.`,
			s.Pot, s.ToCall, s.PotOdds(), s.Pot, s.ToCall, s.ToCall, float64(s.PotOdds()), answer)

	default:
		return fmt.Sprintf(`You are a poker professor evaluating a student's answer about WIN ODDS.

CONTEXT:
- Total outs: %d
- Unknown cards remaining: %d

QUESTION: What are the odds against improving? (Format: X:1)

CORRECT ANSWER: %s
Calculation: (%d - %d) / %d = %.2f:1

STUDENT'S ANSWER: %q

TASK:
1. Extract the ratio from their answer
2. Check if the calculation is correct
3. If they showed their work, verify it
4. Provide feedback

Respond with evaluation.`,
			s.TotalOuts(), s.Unseen(), s.WinOdds(), s.Unseen(), s.TotalOuts(), s.TotalOuts(), float64(s.WinOdds()), answer)
	}
}

func judgePrompt(q tutor.Question, answer, evaluation string) string {
	return fmt.Sprintf(`You are a poker professor reviewing an evaluation. The student gave this answer:
%q

Another AI evaluated it as:
%s

Your task:
1. Verify the mathematical calculations are correct
2. Check if the reasoning about outs is sound (remember: outs that help opponent more than you should be reconsidered)
3. Provide final judgment: CORRECT or INCORRECT
4. Give concise feedback to the student

Context:
%s

Respond in JSON format:
{
    "is_correct": true/false,
    "feedback": "Brief feedback to student",
    "reasoning": "Your detailed reasoning"
}`, answer, evaluation, contextJSON(q.Situation))
}
