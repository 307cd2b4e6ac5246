package session

import "errors"

var (
	ErrMissingCursor  = errors.New("delta page without cursor")
	ErrAlreadyRunning = errors.New("session already running")
	ErrInvalidConfig  = errors.New("invalid session config")
)
