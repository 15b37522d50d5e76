package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/holdem-trainer/poker"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStreetChange EventType = "street_change"
	EventTypePlayerAction EventType = "player_action"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published once blinds are posted.
type HandStartEvent struct {
	Hand       int
	Players    []*Player
	Dealer     string
	SmallBlind int
	BigBlind   int
	Pot        int
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// StreetChangeEvent is published after community cards are dealt.
type StreetChangeEvent struct {
	Street    Street
	Community []poker.Card
	Pot       int
	timestamp time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published after an action is applied.
type PlayerActionEvent struct {
	Player    *Player
	Seat      int
	Street    Street
	Action    Action
	Amount    int // chips moved into the pot
	RoundBet  int // the player's total bet this round afterwards
	Blind     bool
	Reasoning string
	PotAfter  int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published after the pot has been settled.
type HandEndEvent struct {
	Hand       int
	Settlement *Settlement
	Players    []*Player
	timestamp  time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber.
type SubscriberFunc func(GameEvent)

func (f SubscriberFunc) OnEvent(e GameEvent) { f(e) }

// EventBus delivers events to subscribers synchronously, in subscription
// order, on the engine's goroutine.
type EventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe adds a subscriber to receive events
func (b *EventBus) Subscribe(s EventSubscriber) {
	b.subscribers = append(b.subscribers, s)
}

// Publish sends an event to all subscribers
func (b *EventBus) Publish(e GameEvent) {
	for _, s := range b.subscribers {
		s.OnEvent(e)
	}
}

// FormatEvent renders an event as a single line of table talk for logs
// and the terminal UI. Unknown events render as "".
func FormatEvent(e GameEvent) string {
	switch ev := e.(type) {
	case HandStartEvent:
		return fmt.Sprintf("Hand #%d, %s has the button (blinds %d/%d)", ev.Hand, ev.Dealer, ev.SmallBlind, ev.BigBlind)
	case StreetChangeEvent:
		return fmt.Sprintf("*** %s *** [%s] pot %d", strings.ToUpper(ev.Street.String()), poker.FormatCards(ev.Community), ev.Pot)
	case PlayerActionEvent:
		return formatAction(ev)
	case HandEndEvent:
		return formatHandEnd(ev)
	}
	return ""
}

func formatAction(ev PlayerActionEvent) string {
	name := ev.Player.Name
	switch {
	case ev.Blind:
		return fmt.Sprintf("%s posts blind %d", name, ev.Amount)
	case ev.Action == Fold:
		return name + " folds"
	case ev.Action == Check:
		return name + " checks"
	case ev.Action == Call:
		return fmt.Sprintf("%s calls %d", name, ev.Amount)
	case ev.Action == Raise:
		return fmt.Sprintf("%s raises to %d", name, ev.RoundBet)
	case ev.Action == AllIn:
		return fmt.Sprintf("%s is all-in for %d", name, ev.RoundBet)
	}
	return fmt.Sprintf("%s %s %d", name, ev.Action, ev.Amount)
}

func formatHandEnd(ev HandEndEvent) string {
	if ev.Settlement == nil {
		return "Hand over"
	}
	var lines []string
	for _, r := range ev.Settlement.Results {
		switch {
		case r.Returned:
			lines = append(lines, fmt.Sprintf("%d returned to %s", r.Amount, r.Player.Name))
		case r.BestFive != nil:
			lines = append(lines, fmt.Sprintf("%s wins %d with %s [%s]", r.Player.Name, r.Amount, r.Hand, poker.FormatCards(r.BestFive)))
		default:
			lines = append(lines, fmt.Sprintf("%s wins %d", r.Player.Name, r.Amount))
		}
	}
	return strings.Join(lines, "\n")
}
