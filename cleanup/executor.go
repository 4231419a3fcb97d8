package cleanup

import (
	"context"

	"github.com/apex/log"

	"github.com/dockmop/dockmop/runtime"
)

// ItemError records one handle that failed to remove.
type ItemError struct {
	Handle runtime.Handle
	Err    error
}

// Result aggregates one executed candidate set.
type Result struct {
	Kind           runtime.Kind
	Removed        int
	Failed         int
	ReclaimedBytes int64
	Failures       []ItemError
}

// Executor removes every handle in a candidate set, one call at a time. It
// operates strictly on the snapshot it is given and never re-lists mid-run;
// an object that vanished in the meantime is absorbed by the client's
// idempotent Remove.
type Executor struct {
	Client runtime.Client
	Log    *log.Entry
}

// Execute removes all handles in the set. A failure on one handle never
// aborts the rest; it is recorded and summarized in the result.
func (e *Executor) Execute(ctx context.Context, set CandidateSet) Result {
	res := Result{Kind: set.Kind}
	for _, h := range set.Items {
		reclaimed, err := e.Client.Remove(ctx, h)
		if err != nil {
			res.Failed++
			res.Failures = append(res.Failures, ItemError{Handle: h, Err: err})
			e.Log.WithField("name", displayName(h)).WithError(err).Warn("removal failed, continuing")
			continue
		}
		res.Removed++
		res.ReclaimedBytes += reclaimed
	}
	return res
}

func displayName(h runtime.Handle) string {
	if h.Name != "" {
		return h.Name
	}
	if len(h.ID) > 12 {
		return h.ID[:12]
	}
	return h.ID
}
