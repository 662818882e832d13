package usecase

import (
	"errors"
	"fmt"
)

// Run-level failures abort one symbol's analysis; record-level failures are
// absorbed where they occur and reported as counters.
var (
	// ErrClassifierUnavailable means every scoring batch failed, so the
	// classifier backend is treated as unreachable for this run.
	ErrClassifierUnavailable = errors.New("classifier backend unreachable")

	// ErrNoData means a symbol's window produced no usable price bars.
	ErrNoData = errors.New("no data for symbol in window")
)

// InvariantError marks a contract breach detected downstream of the
// normalizer (e.g. a malformed bar that should have been rejected). Fatal to
// the affected symbol's run.
type InvariantError struct {
	Stage  string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Stage, e.Detail)
}
