package apperror

import "errors"

var (
	ErrInvalidCoordinates = errors.New("coordinates must be integers")
	ErrUnknownAction      = errors.New("unknown action")
	ErrListenerClosed     = errors.New("listener is closed")
	ErrRedisAddrNotFound  = errors.New("redis address string is empty")
)
