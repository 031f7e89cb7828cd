package generation

import (
	"errors"
	"fmt"
)

// ErrNoCredential reports that no generation credential is configured. It
// routes to fallback mode and is not treated as a failure.
var ErrNoCredential = errors.New("generation credential not configured")

// CapabilityError wraps any failure of the external generation capability.
type CapabilityError struct {
	Stage string
	Err   error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("generation capability failed during %s: %v", e.Stage, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}
