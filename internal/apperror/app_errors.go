package apperror

import "errors"

// Reasons a human intent is ignored. They are logged, never returned to the presentation layer.
var (
	ErrInvalidCell  = errors.New("invalid cell number")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrRoundOver    = errors.New("round is already over")
)
