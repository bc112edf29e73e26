package service

import "errors"

// Sentinel errors shared by all services. Handlers map these onto HTTP status
// codes: ErrInvalidInput 400, ErrForbidden 403, ErrNotFound 404,
// ErrSlotUnavailable 409; anything else is a 500 with the raw message.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrSlotUnavailable = errors.New("slot no longer available")
)
