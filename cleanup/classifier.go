// Package cleanup implements the stale-resource cleanup flow: classify what
// is removable, gate it behind operator confirmation, and execute removals
// against the runtime client.
package cleanup

import (
	"github.com/dockmop/dockmop/runtime"
)

// ReservedNetworks are the engine's predefined networks. The Engine API has
// no explicit builtin marker on the list endpoint, so this mirrors the set
// the daemon itself refuses to delete. They are never offered for removal,
// whatever their endpoint count says.
var ReservedNetworks = []string{"bridge", "host", "none"}

// CandidateSet is a snapshot of removable objects of one kind. It is built
// per invocation and never cached: a fresh listing precedes every cleanup so
// an object that became in-use since the last run is re-evaluated.
type CandidateSet struct {
	Kind  runtime.Kind
	Items []runtime.Handle
}

// Empty reports whether the set holds no candidates.
func (s CandidateSet) Empty() bool {
	return len(s.Items) == 0
}

// SizeBytes sums the known sizes of all candidates. Unknown sizes count as
// zero.
func (s CandidateSet) SizeBytes() int64 {
	var total int64
	for _, h := range s.Items {
		if h.SizeBytes > 0 {
			total += h.SizeBytes
		}
	}
	return total
}

// Classifier decides which listed objects are candidates for removal. All
// predicates are pure functions of the handle snapshot.
type Classifier struct {
	reserved map[string]struct{}
}

// NewClassifier builds a classifier. Extra reserved network names extend the
// built-in set.
func NewClassifier(extraReserved []string) *Classifier {
	reserved := make(map[string]struct{}, len(ReservedNetworks)+len(extraReserved))
	for _, name := range ReservedNetworks {
		reserved[name] = struct{}{}
	}
	for _, name := range extraReserved {
		reserved[name] = struct{}{}
	}
	return &Classifier{reserved: reserved}
}

// Classify returns the subset of handles that are removable for their kind.
// The aggressive parameter widens only the image predicate: unreferenced but
// tagged images become candidates too. It is a parameter rather than a
// separate path so both modes share one set of rules.
func (c *Classifier) Classify(kind runtime.Kind, handles []runtime.Handle, aggressive bool) CandidateSet {
	set := CandidateSet{Kind: kind}
	for _, h := range handles {
		if h.Kind != kind {
			continue
		}
		if c.removable(h, aggressive) {
			set.Items = append(set.Items, h)
		}
	}
	return set
}

func (c *Classifier) removable(h runtime.Handle, aggressive bool) bool {
	switch h.Kind {
	case runtime.KindContainer:
		// Running (and paused) containers are never candidates, aggressive
		// or not.
		return h.Status == runtime.StatusExited || h.Status == runtime.StatusCreated
	case runtime.KindVolume:
		return h.RefCount == 0
	case runtime.KindNetwork:
		if _, ok := c.reserved[h.Name]; ok {
			return false
		}
		return h.RefCount == 0
	case runtime.KindImage:
		if h.RefCount != 0 {
			return false
		}
		return aggressive || !h.Tagged
	}
	return false
}
