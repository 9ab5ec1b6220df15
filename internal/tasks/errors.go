package tasks

import (
	"fmt"

	"github.com/desertthunder/songdl/internal/shared"
)

// ProviderError is a search or fetch that could not be completed.
//
// It matches both [shared.ErrProvider] and the underlying cause with [errors.Is].
type ProviderError struct {
	Op     string // "search" or "fetch"
	Target string // query or locator
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Target, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	return []error{shared.ErrProvider, e.Err}
}
