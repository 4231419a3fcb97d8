// Package system reports aggregate disk usage of the container runtime and
// the host, purely for operator feedback. Nothing in here feeds cleanup
// decisions.
package system

import (
	"fmt"
	"strings"

	"github.com/docker/go-units"
)

// UsageSnapshot holds aggregate byte counts per resource kind at a point in
// time. All fields are zero when the daemon cannot compute usage.
type UsageSnapshot struct {
	ContainersTotal int   `json:"containers_total"`
	ContainersSize  int64 `json:"containers_size"`
	ImagesTotal     int   `json:"images_total"`
	ImagesActive    int   `json:"images_active"`
	ImagesSize      int64 `json:"images_size"`
	VolumesTotal    int   `json:"volumes_total"`
	VolumesSize     int64 `json:"volumes_size"`
	BuildCacheSize  int64 `json:"build_cache_size"`
}

// TotalSize sums all byte counts in the snapshot.
func (s UsageSnapshot) TotalSize() int64 {
	return s.ContainersSize + s.ImagesSize + s.VolumesSize + s.BuildCacheSize
}

// Diff returns the change from s to after. Positive deltas mean bytes were
// reclaimed.
func (s UsageSnapshot) Diff(after UsageSnapshot) UsageDelta {
	return UsageDelta{
		ContainersSize: s.ContainersSize - after.ContainersSize,
		ImagesSize:     s.ImagesSize - after.ImagesSize,
		VolumesSize:    s.VolumesSize - after.VolumesSize,
		BuildCacheSize: s.BuildCacheSize - after.BuildCacheSize,
	}
}

// UsageDelta is the before/after difference of two snapshots.
type UsageDelta struct {
	ContainersSize int64 `json:"containers_size"`
	ImagesSize     int64 `json:"images_size"`
	VolumesSize    int64 `json:"volumes_size"`
	BuildCacheSize int64 `json:"build_cache_size"`
}

// Total sums the per-kind deltas.
func (d UsageDelta) Total() int64 {
	return d.ContainersSize + d.ImagesSize + d.VolumesSize + d.BuildCacheSize
}

// String renders the delta as a one-line reclaimed summary, or an empty
// string if nothing changed.
func (d UsageDelta) String() string {
	if d.Total() == 0 {
		return ""
	}
	var parts []string
	add := func(label string, v int64) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%s %s", label, FormatBytes(v)))
		}
	}
	add("containers", d.ContainersSize)
	add("images", d.ImagesSize)
	add("volumes", d.VolumesSize)
	add("build cache", d.BuildCacheSize)
	return fmt.Sprintf("reclaimed %s (%s)", FormatBytes(d.Total()), strings.Join(parts, ", "))
}

// FormatBytes renders a byte count the way the docker CLI does.
func FormatBytes(v int64) string {
	return units.HumanSize(float64(v))
}
