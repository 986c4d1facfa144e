package types

import "errors"

// Domain errors
var (
	// ErrStoreUnavailable is returned when a code store cannot be opened or read
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInternalConsistency is returned when a code passes the existence check
	// but its record cannot be fetched
	ErrInternalConsistency = errors.New("store internal consistency violation")

	// Record errors
	ErrInvalidCode       = errors.New("code must be 2-8 decimal digits")
	ErrEmptyDescription  = errors.New("description cannot be empty")
	ErrUntrimmedRecord   = errors.New("record fields must be trimmed")
	ErrMissingDetail     = errors.New("valid result requires detail")
	ErrMissingReason     = errors.New("invalid result requires reason")
	ErrUnexpectedDetail  = errors.New("invalid result cannot carry detail")
	ErrUnexpectedParents = errors.New("valid result cannot carry parent matches")
)
