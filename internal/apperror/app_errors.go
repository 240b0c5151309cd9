package apperror

import "errors"

var (
	ErrGameFinished         = errors.New("game is already finished")
	ErrNotYourTurn          = errors.New("it's not your turn")
	ErrGameNotFound         = errors.New("game not found")
	ErrStatsNotFound        = errors.New("player stats not found")
	ErrInvalidMode          = errors.New("invalid game mode")
	ErrInvalidMark          = errors.New("invalid mark")
	ErrPlayerNameRequired   = errors.New("player name is required")
	ErrDuplicatePlayerNames = errors.New("players must have different names")
)
