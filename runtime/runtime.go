// Package runtime wraps the local container runtime's API behind a small
// query/removal interface. Everything above it (classification, confirmation,
// execution) depends only on the Client interface so that cleanup logic can
// be exercised without a live daemon.
package runtime

import (
	"context"
	"time"

	"github.com/dockmop/dockmop/system"
)

// Kind identifies the class of a runtime-managed object.
type Kind string

const (
	KindContainer Kind = "container"
	KindVolume    Kind = "volume"
	KindNetwork   Kind = "network"
	KindImage     Kind = "image"
)

// Human returns the plural display label for the kind.
func (k Kind) Human() string {
	switch k {
	case KindContainer:
		return "containers"
	case KindVolume:
		return "volumes"
	case KindNetwork:
		return "networks"
	case KindImage:
		return "images"
	}
	return string(k)
}

// Container states as reported by the runtime.
const (
	StatusRunning = "running"
	StatusExited  = "exited"
	StatusCreated = "created"
	StatusPaused  = "paused"
)

// SizeUnknown is used for kinds where the runtime does not report a size.
const SizeUnknown int64 = -1

// Handle is an immutable snapshot of one runtime-managed object taken at
// listing time. It is never mutated after construction; re-listing produces
// a fresh set.
type Handle struct {
	Kind      Kind
	ID        string
	Name      string
	Status    string
	SizeBytes int64
	CreatedAt time.Time

	// RefCount is the number of live references the runtime reports for the
	// object: containers mounting a volume, endpoints attached to a network,
	// or containers created from an image. Always zero for containers.
	RefCount int

	// Tagged is set for images that carry at least one repository tag.
	Tagged bool
}

// Filter narrows a List call. The zero value matches everything of a kind.
type Filter struct {
	// Status restricts containers to the given state, e.g. StatusExited.
	Status string
}

// Client is the contract against the container runtime. Implementations must
// be safe for repeated, overlapping invocations of the tool: Remove is
// idempotent and treats an already-gone object as success.
type Client interface {
	// List returns a snapshot of all objects of the given kind matching the
	// filter. Zero results is an empty slice, never an error.
	List(ctx context.Context, kind Kind, filter Filter) ([]Handle, error)

	// Remove deletes exactly one object and reports the bytes reclaimed, if
	// known. A handle that no longer exists is success with zero bytes.
	Remove(ctx context.Context, h Handle) (int64, error)

	// Usage queries the runtime's aggregate disk usage. Best effort: a
	// daemon that cannot compute usage yields a zero snapshot, but a daemon
	// that is unreachable yields ErrRuntimeUnavailable.
	Usage(ctx context.Context) (system.UsageSnapshot, error)

	// PruneBuildCache drops the runtime's build cache and reports reclaimed
	// bytes. Only invoked by the aggressive cleanup category.
	PruneBuildCache(ctx context.Context) (int64, error)

	// Close releases the underlying connection.
	Close() error
}
