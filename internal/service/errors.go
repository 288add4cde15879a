package service

import "errors"

// Sentinel errors surfaced to transport layers. Wrapped errors carry the
// field-level detail; match with errors.Is.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrInvalidReading = errors.New("invalid reading")
	ErrInvalidWindow  = errors.New("invalid time window")
)
