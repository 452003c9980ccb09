package errs

import "errors"

// Sentinel errors mapped to HTTP codes in handlers and to outbound
// error events on the websocket side.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrInvalidLogin      = errors.New("invalid email or password")
	ErrRoomDenied        = errors.New("room access denied")
	ErrUnknownConnection = errors.New("unknown connection")
)
