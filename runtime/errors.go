package runtime

import (
	"fmt"

	"emperror.dev/errors"
)

// ErrRuntimeUnavailable indicates the daemon cannot be reached at all. This
// is the only listing-path error that aborts the whole invocation.
var ErrRuntimeUnavailable = errors.Sentinel("runtime: daemon unreachable")

// QueryError wraps a listing call that reached the daemon but returned an
// unusable response. Callers treat the affected kind as having zero
// candidates and continue with other categories.
type QueryError struct {
	Kind Kind
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("runtime: listing %s failed: %s", e.Kind.Human(), e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// RemovalError wraps the failure to remove a single object. It never aborts
// the batch it occurred in.
type RemovalError struct {
	Handle Handle
	Err    error
}

func (e *RemovalError) Error() string {
	name := e.Handle.Name
	if name == "" {
		name = e.Handle.ID
	}
	return fmt.Sprintf("runtime: removing %s %s failed: %s", e.Handle.Kind, name, e.Err)
}

func (e *RemovalError) Unwrap() error {
	return e.Err
}
