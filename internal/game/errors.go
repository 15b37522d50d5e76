package game

import "errors"

var (
	// ErrIllegalAction is returned when an action cannot be taken by a seat.
	ErrIllegalAction = errors.New("game: illegal action")
	// ErrGameOver is returned when fewer than two players have chips left.
	ErrGameOver = errors.New("game: game over")
	// ErrHandNotLive is returned by operations that need a hand in progress.
	ErrHandNotLive = errors.New("game: no hand in progress")
	// ErrPlayerQuit is returned by agents whose player left the table.
	ErrPlayerQuit = errors.New("game: player quit")
)
