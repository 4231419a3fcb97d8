package cleanup

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"github.com/dockmop/dockmop/runtime"
	"github.com/dockmop/dockmop/system"
)

// DisplayContext owns all terminal rendering. It is constructed once at
// startup from the color configuration and passed to whatever needs to
// print, instead of consulting global terminal state at call sites.
type DisplayContext struct {
	Out io.Writer

	header  *color.Color
	success *color.Color
	warning *color.Color
	dim     *color.Color
}

// NewDisplayContext builds a context writing to stdout.
func NewDisplayContext(noColor bool) *DisplayContext {
	if noColor {
		color.NoColor = true
	}
	return &DisplayContext{
		Out:     colorable.NewColorableStdout(),
		header:  color.New(color.Bold),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		dim:     color.New(color.Faint),
	}
}

// Printf writes plain output.
func (d *DisplayContext) Printf(format string, args ...interface{}) {
	fmt.Fprintf(d.Out, format, args...)
}

// Warnf writes a highlighted warning line.
func (d *DisplayContext) Warnf(format string, args ...interface{}) {
	d.warning.Fprintf(d.Out, format+"\n", args...)
}

// RenderCandidates prints the removal candidates with name, age and size
// where known, so the operator sees exactly what a yes will destroy.
func (d *DisplayContext) RenderCandidates(set CandidateSet) {
	d.header.Fprintf(d.Out, "\n%d %s eligible for removal:\n", len(set.Items), set.Kind.Human())

	w := tabwriter.NewWriter(d.Out, 2, 4, 2, ' ', 0)
	for _, h := range set.Items {
		age := ""
		if !h.CreatedAt.IsZero() {
			age = humanize.Time(h.CreatedAt)
		}
		size := ""
		if h.SizeBytes > 0 {
			size = system.FormatBytes(h.SizeBytes)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", displayName(h), h.Status, age, size)
	}
	w.Flush()

	if total := set.SizeBytes(); total > 0 {
		d.dim.Fprintf(d.Out, "  total %s\n", system.FormatBytes(total))
	}
	fmt.Fprintln(d.Out)
}

// RenderResult prints the per-category outcome, keeping successes and
// failures visibly distinct.
func (d *DisplayContext) RenderResult(res Result) {
	if res.Removed > 0 {
		summary := fmt.Sprintf("removed %d %s", res.Removed, res.Kind.Human())
		if res.ReclaimedBytes > 0 {
			summary += fmt.Sprintf(", reclaimed %s", system.FormatBytes(res.ReclaimedBytes))
		}
		d.success.Fprintln(d.Out, summary)
	}
	if res.Failed > 0 {
		d.warning.Fprintf(d.Out, "%d %s could not be removed:\n", res.Failed, res.Kind.Human())
		for _, f := range res.Failures {
			d.warning.Fprintf(d.Out, "  %s: %s\n", displayName(f.Handle), f.Err)
		}
	}
}

// NothingFound reports an explicitly empty category, so "nothing matched"
// is never mistaken for a silent failure.
func (d *DisplayContext) NothingFound(kind runtime.Kind, aggressive bool) {
	var what string
	switch kind {
	case runtime.KindContainer:
		what = "no stopped containers found"
	case runtime.KindVolume:
		what = "no dangling volumes found"
	case runtime.KindNetwork:
		what = "no unused networks found"
	case runtime.KindImage:
		if aggressive {
			what = "no unused images found"
		} else {
			what = "no dangling images found"
		}
	default:
		what = fmt.Sprintf("no removable %s found", kind.Human())
	}
	d.dim.Fprintln(d.Out, what)
}

// RenderUsage prints the runtime's disk usage snapshot, optionally followed
// by host partition usage for context.
func (d *DisplayContext) RenderUsage(snap system.UsageSnapshot, disks []system.HostDisk) {
	d.header.Fprintln(d.Out, "\nDocker disk usage")

	w := tabwriter.NewWriter(d.Out, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  Containers\t%d\t%s\n", snap.ContainersTotal, system.FormatBytes(snap.ContainersSize))
	fmt.Fprintf(w, "  Images\t%d (%d in use)\t%s\n", snap.ImagesTotal, snap.ImagesActive, system.FormatBytes(snap.ImagesSize))
	fmt.Fprintf(w, "  Volumes\t%d\t%s\n", snap.VolumesTotal, system.FormatBytes(snap.VolumesSize))
	fmt.Fprintf(w, "  Build cache\t\t%s\n", system.FormatBytes(snap.BuildCacheSize))
	fmt.Fprintf(w, "  Total\t\t%s\n", system.FormatBytes(snap.TotalSize()))
	w.Flush()

	if len(disks) > 0 {
		d.header.Fprintln(d.Out, "\nHost disks")
		hw := tabwriter.NewWriter(d.Out, 2, 4, 2, ' ', 0)
		for _, disk := range disks {
			fmt.Fprintf(hw, "  %s\t%s\t%s used of %s\n",
				disk.Device, disk.Mountpoint,
				humanize.IBytes(disk.UsedSpace), humanize.IBytes(disk.TotalSpace))
		}
		hw.Flush()
	}
	fmt.Fprintln(d.Out)
}

// RenderDelta prints the before/after reclaimed summary if anything
// changed.
func (d *DisplayContext) RenderDelta(delta system.UsageDelta) {
	if s := delta.String(); s != "" {
		d.success.Fprintln(d.Out, s)
	}
}
