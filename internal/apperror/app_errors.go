package apperror

import "errors"

var (
	ErrGameFinished           = errors.New("game is already finished")
	ErrCellOccupied           = errors.New("cell is already occupied")
	ErrInvalidCell            = errors.New("invalid cell index")
	ErrNoAvailableMoves       = errors.New("no available moves")
	ErrIllegalAction          = errors.New("agent selected an illegal action")
	ErrRetryLimit             = errors.New("agent exceeded move retry limit")
	ErrInvalidExplorationRate = errors.New("exploration rate must be within [0, 1]")
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrModelNotFound          = errors.New("model not found")
	ErrModelShape             = errors.New("model shape does not match the board")
)
