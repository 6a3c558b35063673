package game

import "errors"

// Validation errors. Each maps to a single-client error response; none of
// them mutates session state.
var (
	ErrGameFull         = errors.New("game is full")
	ErrGameNotStarted   = errors.New("game has not started")
	ErrGameOver         = errors.New("game is over")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidCardIndex = errors.New("invalid card index")
	ErrNotEnoughPower   = errors.New("not enough power")
	ErrHandNotEmpty     = errors.New("all hand cards must be played before finishing the turn")
)
