package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/lox/holdem-trainer/poker"
)

// MaxSeats is the largest table supported.
const MaxSeats = 10

// Config holds the blind structure.
type Config struct {
	SmallBlind int
	BigBlind   int // defaults to twice the small blind
}

func (c Config) withDefaults() Config {
	if c.BigBlind == 0 {
		c.BigBlind = 2 * c.SmallBlind
	}
	return c
}

// Validate checks the blind structure.
func (c Config) Validate() error {
	if c.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	}
	if c.BigBlind < c.SmallBlind {
		return fmt.Errorf("big blind %d is smaller than small blind %d", c.BigBlind, c.SmallBlind)
	}
	return nil
}

// Option configures a Game during creation.
type Option func(*Game)

// WithDeck uses a specific deck instead of one built from the game's RNG.
func WithDeck(d *poker.Deck) Option {
	return func(g *Game) {
		g.deck = d
	}
}

// WithHero marks the named player as the human whose bust ends the game.
func WithHero(name string) Option {
	return func(g *Game) {
		g.hero = name
	}
}

// WithDealer sets the initial dealer by position in the players list.
func WithDealer(seat int) Option {
	return func(g *Game) {
		g.button = seat
	}
}

// Game is a poker table playing one hand at a time. It is not safe for
// concurrent use.
type Game struct {
	cfg    Config
	roster []*Player // everyone who sat down, in seat order
	seats  []*Player // players dealt into the current hand
	hero   string

	deck       *poker.Deck
	community  []poker.Card
	contrib    []int // per-seat chips in the pot, aligned with seats
	pot        int
	currentBet int
	minRaise   int
	dealer     int // seat index into seats
	button     int // roster index of the dealer, stable across busts
	street     Street
	live       bool
	hand       int
	settlement *Settlement
}

// NewGame seats players at a new table. The rng drives the deck unless
// WithDeck is given.
func NewGame(players []*Player, cfg Config, rng *rand.Rand, opts ...Option) (*Game, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(players) < 2 {
		return nil, errors.New("at least 2 players required")
	}
	if len(players) > MaxSeats {
		return nil, fmt.Errorf("at most %d players supported, got %d", MaxSeats, len(players))
	}

	names := make(map[string]bool, len(players))
	for _, p := range players {
		if p == nil {
			return nil, errors.New("nil player")
		}
		if names[p.Name] {
			return nil, fmt.Errorf("duplicate player name %q", p.Name)
		}
		names[p.Name] = true
	}

	g := &Game{
		cfg:    cfg,
		roster: slices.Clone(players),
		street: PreFlop,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.deck == nil {
		if rng == nil {
			return nil, errors.New("rng is required when no deck is supplied")
		}
		g.deck = poker.NewDeck(rng)
	}
	if g.button < 0 || g.button >= len(players) {
		return nil, fmt.Errorf("dealer seat %d out of range", g.button)
	}
	return g, nil
}

// StartNewHand resets per-hand state, seats every player with chips and
// deals two hole cards each. It returns false when fewer than two players
// have chips.
func (g *Game) StartNewHand() bool {
	g.seats = g.seats[:0]
	for _, p := range g.roster {
		p.resetForHand()
		if p.Chips > 0 {
			g.seats = append(g.seats, p)
		}
	}
	if len(g.seats) < 2 {
		g.live = false
		return false
	}
	g.button = g.withChipsFrom(g.button)
	g.dealer = slices.Index(g.seats, g.roster[g.button])

	g.deck.Shuffle()
	g.community = nil
	g.contrib = make([]int, len(g.seats))
	g.pot = 0
	g.currentBet = 0
	g.minRaise = g.cfg.BigBlind
	g.street = PreFlop
	g.settlement = nil
	g.live = true
	g.hand++

	// one card at a time, starting left of the dealer
	for range 2 {
		for i := range g.seats {
			p := g.seats[(g.dealer+1+i)%len(g.seats)]
			p.Hole = append(p.Hole, g.mustDeal())
		}
	}
	return true
}

func (g *Game) mustDeal() poker.Card {
	c, err := g.deck.DealOne()
	if err != nil {
		// a fresh deck always covers MaxSeats hole cards
		panic(fmt.Sprintf("deal hole cards: %v", err))
	}
	return c
}

// IsGameOver reports whether no further hands can be played: fewer than two
// players have chips, or the hero has busted.
func (g *Game) IsGameOver() bool {
	if g.live {
		return false
	}
	withChips := 0
	for _, p := range g.roster {
		if p.Chips > 0 {
			withChips++
		} else if p.Name == g.hero {
			return true
		}
	}
	return withChips < 2
}

// MoveDealerButton passes the button to the next player on the left who
// still has chips. Busted players are skipped, never counted.
func (g *Game) MoveDealerButton() {
	g.button = g.withChipsFrom(g.button + 1)
	if seat := slices.Index(g.seats, g.roster[g.button]); seat >= 0 {
		g.dealer = seat
	}
}

// withChipsFrom returns the first roster index at or after from (wrapping)
// whose player has chips, or from itself when nobody does.
func (g *Game) withChipsFrom(from int) int {
	n := len(g.roster)
	from %= n
	for i := range n {
		if idx := (from + i) % n; g.roster[idx].Chips > 0 {
			return idx
		}
	}
	return from
}

// Players returns every player at the table, including busted ones.
func (g *Game) Players() []*Player { return g.roster }

// Seats returns the players dealt into the current hand. Seat indexes used
// throughout the API refer to this slice.
func (g *Game) Seats() []*Player { return g.seats }

// Seat returns the player at seat i, or nil when out of range.
func (g *Game) Seat(i int) *Player {
	if i < 0 || i >= len(g.seats) {
		return nil
	}
	return g.seats[i]
}

// SeatOf returns the seat index of the named player in the current hand, or -1.
func (g *Game) SeatOf(name string) int {
	for i, p := range g.seats {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Hero returns the configured hero's name, if any.
func (g *Game) Hero() string { return g.hero }

func (g *Game) Config() Config          { return g.cfg }
func (g *Game) Community() []poker.Card { return slices.Clone(g.community) }
func (g *Game) Pot() int                { return g.pot }
func (g *Game) CurrentBet() int         { return g.currentBet }
func (g *Game) MinRaise() int           { return g.minRaise }
func (g *Game) Dealer() int             { return g.dealer }
func (g *Game) Street() Street          { return g.street }
func (g *Game) HandNumber() int         { return g.hand }
func (g *Game) IsLive() bool            { return g.live }
func (g *Game) Settlement() *Settlement { return g.settlement }
func (g *Game) Contributions() []int    { return slices.Clone(g.contrib) }

// Contribution returns the chips seat has put in the pot this hand, or 0
// when seat is out of range.
func (g *Game) Contribution(seat int) int {
	if seat < 0 || seat >= len(g.contrib) {
		return 0
	}
	return g.contrib[seat]
}

// InHand returns how many players have not folded.
func (g *Game) InHand() int {
	n := 0
	for _, p := range g.seats {
		if !p.Folded {
			n++
		}
	}
	return n
}

// TotalChips returns every chip at the table, stacks plus pot.
func (g *Game) TotalChips() int {
	total := 0
	if g.live {
		total = g.pot
	}
	for _, p := range g.roster {
		total += p.Chips
	}
	return total
}

// Snapshot returns an immutable view of the table from seat's perspective.
// An out of range seat yields the zero Snapshot with Seat set to -1.
func (g *Game) Snapshot(seat int) Snapshot {
	p := g.Seat(seat)
	if p == nil {
		return Snapshot{Seat: -1}
	}
	opponents := 0
	for i, o := range g.seats {
		if i != seat && !o.Folded {
			opponents++
		}
	}
	return Snapshot{
		Seat:       seat,
		Name:       p.Name,
		Hole:       slices.Clone(p.Hole),
		Community:  slices.Clone(g.community),
		Street:     g.street,
		Pot:        g.pot,
		CurrentBet: g.currentBet,
		PlayerBet:  p.Bet,
		Chips:      p.Chips,
		MinRaise:   g.minRaise,
		BigBlind:   g.cfg.BigBlind,
		Opponents:  opponents,
	}
}

// Snapshot is the read-only state an agent decides from.
type Snapshot struct {
	Seat       int
	Name       string
	Hole       []poker.Card
	Community  []poker.Card
	Street     Street
	Pot        int
	CurrentBet int
	PlayerBet  int
	Chips      int
	MinRaise   int
	BigBlind   int
	Opponents  int
}

// ToCall returns the chips needed to match the current bet.
func (s Snapshot) ToCall() int {
	return max(0, s.CurrentBet-s.PlayerBet)
}

// CanCheck reports whether the bet is already matched.
func (s Snapshot) CanCheck() bool {
	return s.ToCall() == 0
}
