package main

import (
	"errors"
	"fmt"

	"github.com/pdbj/sst-phold/core"
)

// Error taxonomy. Configuration problems surface before any
// scheduling begins; causality and collective violations are fatal at
// runtime; a grand send/recv total mismatch is reported with the
// results, not raised.
var (
	// ErrConfigInvalid wraps every parameter-range rejection.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrNoLiveEvent means setup exhausted its attempt budget without
	// scheduling a single event before the stop time.
	ErrNoLiveEvent = errors.New("no event schedulable before stop time")
)

// CausalityError reports an event observed behind a partition's local
// virtual time. Under the conservative protocol this is a programming
// bug, never a recoverable condition.
type CausalityError struct {
	Partition int
	Arrival   core.Time
	Bound     core.Time
}

func (e *CausalityError) Error() string {
	return fmt.Sprintf("causality violation in partition %d: arrival %dns behind %dns",
		e.Partition, e.Arrival, e.Bound)
}

// CollectiveError reports a protocol violation during the out-of-band
// init broadcast or complete reduce.
type CollectiveError struct {
	Phase int
	LP    int
	Msg   string
}

func (e *CollectiveError) Error() string {
	return fmt.Sprintf("collective protocol violation at phase %d, lp %d: %s",
		e.Phase, e.LP, e.Msg)
}

// CLI exit codes.
const (
	ExitOK         = 0
	ExitConfig     = 1
	ExitCausality  = 2
	ExitCollective = 3
)

// ExitCode maps err to the CLI exit code.
func ExitCode(err error) int {
	var cause *CausalityError
	var coll *CollectiveError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cause):
		return ExitCausality
	case errors.As(err, &coll):
		return ExitCollective
	default:
		return ExitConfig
	}
}
