package shared

import "errors"

var (
	// Configuration errors
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Authentication errors
	ErrNotAuthenticated = errors.New("not authenticated")

	// Provider and service errors
	ErrProvider      = errors.New("catalog provider error")
	ErrAPIRequest    = errors.New("API request failed")
	ErrTrackNotFound = errors.New("track not found")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
