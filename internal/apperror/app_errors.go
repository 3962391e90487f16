package apperror

import "errors"

var (
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrComputerTurn      = errors.New("it's the computer's turn")
	ErrNoComputerPlayer  = errors.New("session has no computer player")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrInvalidMark       = errors.New("invalid mark")
	ErrUnknownMode       = errors.New("unknown game mode")
	ErrSessionNotFound   = errors.New("session not found")
)

var (
	ErrSessionNotStarted = errors.New("session has no game mode yet")
	ErrSessionOver       = errors.New("session is over, restart it to play again")
)
