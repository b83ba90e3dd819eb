package domain

import "errors"

var (
	// ErrInvalidQuery is returned when the query is empty after sanitization
	ErrInvalidQuery = errors.New("invalid query")

	// ErrRateLimited is returned when a client exceeds its request budget
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrOriginNotAllowed is returned when a browser origin is outside the allow-list
	ErrOriginNotAllowed = errors.New("origin not allowed")

	// ErrDataLoad is returned when the corpus source cannot be read
	ErrDataLoad = errors.New("corpus data could not be loaded")

	// ErrDataFormat is returned when the corpus source contains malformed records
	ErrDataFormat = errors.New("corpus data is malformed")
)

// Client-facing messages for the errors above
const (
	MsgInvalidQuery     = "Query parameter 'q' is required and must be valid characters."
	MsgRateLimited      = "Rate limit exceeded. Please wait before retrying."
	MsgOriginNotAllowed = "Origin not allowed."
	MsgInternal         = "Internal server error."
)
