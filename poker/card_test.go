package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				{Ace, Spades}, {King, Spades}, {Queen, Spades}, {Jack, Spades}, {Ten, Spades},
			},
		},
		{
			name:     "separated with ten as two digits",
			input:    "10h, 9d 2c",
			expected: []Card{{Ten, Hearts}, {Nine, Diamonds}, {Two, Clubs}},
		},
		{
			name:     "suit symbols",
			input:    "A♠ K♦10♥",
			expected: []Card{{Ace, Spades}, {King, Diamonds}, {Ten, Hearts}},
		},
		{
			name:     "case insensitive",
			input:    "asKHqDjc",
			expected: []Card{{Ace, Spades}, {King, Hearts}, {Queen, Diamonds}, {Jack, Clubs}},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "dangling rank", input: "AsK", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A♠", NewCard(Ace, Spades).String())
	assert.Equal(t, "10♥", NewCard(Ten, Hearts).String())
	assert.Equal(t, "2♣", NewCard(Two, Clubs).String())
	assert.Equal(t, "Q♦ 3♠", FormatCards(MustParseCards("Qd 3s")))
}

func TestCardRoundTripThroughString(t *testing.T) {
	t.Parallel()

	for _, c := range FullDeck() {
		parsed, err := ParseCard(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestFullDeckIsDistinct(t *testing.T) {
	t.Parallel()

	cards := FullDeck()
	require.Len(t, cards, 52)

	seen := make(map[Card]bool)
	for _, c := range cards {
		assert.True(t, c.Valid(), "card %v should be valid", c)
		assert.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}
	assert.False(t, Card{}.Valid())
}
