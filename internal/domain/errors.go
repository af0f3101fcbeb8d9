package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoCandidates is returned when no candidate could be extracted from the text
	ErrNoCandidates = errors.New("no candidates extracted")

	// ErrSessionNotFound is returned when a session handle does not refer to an open session
	ErrSessionNotFound = errors.New("extraction session not found")

	// ErrSessionClosed is returned when observing into a session that was already closed
	ErrSessionClosed = errors.New("extraction session closed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrLowConfidence is returned when the best candidate is below the selection threshold
	ErrLowConfidence = errors.New("candidate confidence below threshold")
)
