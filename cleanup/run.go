package cleanup

import (
	"context"

	"emperror.dev/errors"
	"github.com/apex/log"

	"github.com/dockmop/dockmop/runtime"
	"github.com/dockmop/dockmop/system"
)

// Runner wires classifier, gate and executor into the per-category cleanup
// flow shared by batch mode and the interactive menu.
type Runner struct {
	Client     runtime.Client
	Classifier *Classifier
	Gate       Gate
	Display    *DisplayContext
	Log        *log.Entry
}

// RunCategory performs one cleanup category end to end: usage snapshot,
// list, classify, confirm, execute, usage delta. Only a lost daemon aborts;
// everything else degrades to a warning for that kind.
func (r *Runner) RunCategory(ctx context.Context, cat Category) error {
	before, err := r.Client.Usage(ctx)
	if err != nil {
		return err
	}

	if cat.Aggressive {
		ok, err := r.Gate.ConfirmAggressive()
		if err != nil {
			return err
		}
		if !ok {
			r.Display.Printf("aborted, nothing removed\n")
			return nil
		}
	}

	executor := &Executor{Client: r.Client, Log: r.Log}

	for _, kind := range cat.Kinds {
		handles, err := r.Client.List(ctx, kind, runtime.Filter{})
		if err != nil {
			if errors.Is(err, runtime.ErrRuntimeUnavailable) {
				return err
			}
			// Malformed or failed listing: zero candidates for this kind,
			// the remaining kinds still get cleaned.
			r.Display.Warnf("could not list %s, skipping: %s", kind.Human(), err)
			continue
		}

		set := r.Classifier.Classify(kind, handles, cat.Aggressive)
		if set.Empty() {
			r.Display.NothingFound(kind, cat.Aggressive)
			continue
		}

		if cat.Aggressive {
			// The token prompt above already covered the whole category.
			r.Display.RenderCandidates(set)
		} else {
			ok, err := r.Gate.Confirm(set)
			if err != nil {
				return err
			}
			if !ok {
				r.Display.Printf("skipping %s\n", kind.Human())
				continue
			}
		}

		res := executor.Execute(ctx, set)
		r.Display.RenderResult(res)
	}

	if cat.Aggressive {
		reclaimed, err := r.Client.PruneBuildCache(ctx)
		if err != nil {
			r.Display.Warnf("could not prune build cache: %s", err)
		} else if reclaimed > 0 {
			r.Display.Printf("build cache pruned, reclaimed %s\n", system.FormatBytes(reclaimed))
		}
	}

	if after, err := r.Client.Usage(ctx); err == nil {
		r.Display.RenderDelta(before.Diff(after))
	}
	return nil
}

// ShowUsage fetches and renders the current usage snapshot.
func (r *Runner) ShowUsage(ctx context.Context, withHostDisks bool) error {
	snap, err := r.Client.Usage(ctx)
	if err != nil {
		return err
	}
	var disks []system.HostDisk
	if withHostDisks {
		disks, err = system.HostDiskUsage()
		if err != nil {
			// Host stats are context, not a reason to fail the report.
			r.Log.WithError(err).Debug("host disk usage unavailable")
			disks = nil
		}
	}
	r.Display.RenderUsage(snap, disks)
	return nil
}
