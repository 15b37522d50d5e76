package poker

import "errors"

var (
	// ErrInvalidHandSize is returned when fewer than five cards are evaluated.
	ErrInvalidHandSize = errors.New("poker: need at least 5 cards to evaluate a hand")
	// ErrInsufficientDeck is returned when more cards are requested than remain.
	ErrInsufficientDeck = errors.New("poker: not enough cards left in deck")
	// ErrInvalidCard is returned by the card parsers.
	ErrInvalidCard = errors.New("poker: invalid card")
)
