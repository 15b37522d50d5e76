package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

type persona struct {
	model       string
	temperature float64
	profile     string
}

var personas = map[game.Difficulty]persona{
	game.Easy: {
		model:       "claude-3-5-haiku-20241022",
		temperature: 0.3,
		profile: `You are a BEGINNER poker player with LIMITED poker knowledge:
- You play very cautiously and passively
- You mostly play only premium hands (pairs 9+, AK, AQ)
- You rarely bluff or make aggressive plays
- You often fold to any significant bet
- You don't understand advanced concepts like implied odds or position
- You call too much with weak hands when pot odds are bad
- You're risk-averse and prefer to see cheap flops`,
	},
	game.Medium: {
		model:       "claude-sonnet-4-20250514",
		temperature: 0.5,
		profile: `You are an INTERMEDIATE poker player with SOLID fundamentals:
- You understand and apply pot odds and hand equity
- You play a balanced range based on position
- You can semi-bluff with drawing hands
- You adjust bet sizing based on hand strength and board texture
- You recognize obvious patterns but miss subtle tells
- You play ABC poker, straightforward and predictable
- You understand when to value bet and when to fold`,
	},
	game.Hard: {
		model:       "claude-sonnet-4-20250514",
		temperature: 0.7,
		profile: `You are an ADVANCED poker player with EXPERT-level skills:
- You expertly calculate pot odds, implied odds, and fold equity
- You use position aggressively and apply maximum pressure
- You recognize board textures and adjust strategy accordingly
- You balance your ranges to remain unpredictable
- You bluff strategically with blockers and good timing
- You thin value bet and can make hero calls/folds
- You exploit opponent tendencies and adjust dynamically
- You understand ICM, range advantage, and advanced concepts`,
	},
}

const advisorMaxTokens = 200

// Advisor asks a model to play a bot's seat. It implements bot.Advisor.
type Advisor struct {
	client *Client
}

var _ bot.Advisor = (*Advisor)(nil)

// NewAdvisor creates an advisor backed by c.
func NewAdvisor(c *Client) *Advisor {
	return &Advisor{client: c}
}

// Advise implements bot.Advisor. Without credentials it returns
// bot.Unavailable so the heuristic plays instead.
func (a *Advisor) Advise(ctx context.Context, snap game.Snapshot, d game.Difficulty) (bot.Advice, error) {
	if !a.client.Available() {
		return bot.Advice{Status: bot.Unavailable}, nil
	}

	p, ok := personas[d]
	if !ok {
		p = personas[game.Medium]
	}
	temp := p.temperature
	text, err := a.client.Complete(ctx, Request{
		Model:       p.model,
		MaxTokens:   advisorMaxTokens,
		Temperature: &temp,
		Messages:    []Message{{Role: "user", Content: advisorPrompt(p, snap)}},
	})
	if err != nil {
		return bot.Advice{}, fmt.Errorf("advise %s: %w", snap.Name, err)
	}

	decision := ParseDecision(text, snap)
	decision.Reasoning = "advisor: " + strings.TrimSpace(text)
	return bot.Advice{Status: bot.Advised, Decision: decision}, nil
}

func advisorPrompt(p persona, s game.Snapshot) string {
	call := s.ToCall()
	potOdds := "N/A"
	if call > 0 {
		potOdds = fmt.Sprintf("%.1f:1", float64(s.Pot+call)/float64(call))
	}
	community := "None"
	if len(s.Community) > 0 {
		community = joinCards(s.Community)
	}

	return fmt.Sprintf(`%s

Current poker situation:
- Your hand: %s
- Community cards: %s
- Pot: $%d
- Current bet: $%d
- Your current bet: $%d
- Amount to call: $%d
- Your chips: $%d
- Pot odds: %s
- Minimum raise: $%d
- Active opponents: %d

Analyze this situation and decide your action. Consider:
1. Hand strength and potential
2. Pot odds and implied odds
3. Position and opponent behavior
4. Your table image and strategy

Respond with ONLY one line in this exact format:
ACTION: [fold/call/check/raise] AMOUNT: [number]

Examples:
- "ACTION: fold AMOUNT: 0"
- "ACTION: call AMOUNT: 0"
- "ACTION: raise AMOUNT: 50"
- "ACTION: check AMOUNT: 0"
`, p.profile, joinCards(s.Hole), community, s.Pot, s.CurrentBet, s.PlayerBet, call, s.Chips, potOdds, s.MinRaise, s.Opponents)
}

func joinCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

var digits = regexp.MustCompile(`\d+`)

// ParseDecision reads "ACTION: <action> AMOUNT: <n>" from a model reply.
// Anything unreadable becomes a check. Raises are clamped to
// [MinRaise, Chips-ToCall] and degrade to a call or check when no chips
// remain to raise with.
func ParseDecision(text string, s game.Snapshot) game.Decision {
	var line string
	for _, l := range strings.Split(strings.ToUpper(text), "\n") {
		if strings.Contains(l, "ACTION:") {
			line = l
			break
		}
	}
	if line == "" {
		return game.Decision{Action: game.Check}
	}

	rest := line[strings.Index(line, "ACTION:")+len("ACTION:"):]
	word, amountPart, hasAmount := strings.Cut(rest, "AMOUNT:")

	var action game.Action
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "fold":
		action = game.Fold
	case "call":
		action = game.Call
	case "raise":
		action = game.Raise
	default:
		action = game.Check
	}

	amount := 0
	if hasAmount {
		if m := digits.FindString(amountPart); m != "" {
			// an out of range run counts as no amount
			if n, err := strconv.Atoi(m); err == nil {
				amount = n
			}
		}
	}

	if action != game.Raise {
		return game.Decision{Action: action}
	}

	call := s.ToCall()
	amount = max(amount, s.MinRaise)
	if call+amount > s.Chips {
		amount = s.Chips - call
	}
	if amount <= 0 {
		if call > 0 {
			return game.Decision{Action: game.Call}
		}
		return game.Decision{Action: game.Check}
	}
	return game.Decision{Action: game.Raise, Amount: amount}
}
