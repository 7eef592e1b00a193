package internalerr

import "errors"

// Sentinel errors shared across arcana packages.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownTag       = errors.New("unknown time tag")
)
