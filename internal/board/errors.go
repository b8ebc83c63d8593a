package board

import "github.com/pkg/errors"

// Error kinds reported by the rules core. Returned errors wrap one of these,
// so callers match with errors.Is.
var (
	// ErrInvalidSquare is returned for an index or notation outside the 64-square board.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidPositionState is returned when a setup violates the position invariants.
	ErrInvalidPositionState = errors.New("invalid position state")

	// ErrIllegalMove is returned when a move is not in the legal move list of the position.
	ErrIllegalMove = errors.New("illegal move")
)
