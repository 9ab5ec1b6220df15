// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"errors"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// DefaultListLimit caps List when no limit criterion is given.
const DefaultListLimit = 50
