package cleanup

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/dockmop/dockmop/internal/ftest"
	"github.com/dockmop/dockmop/runtime"
)

// stubGate scripts the gate's answers without any terminal involvement.
type stubGate struct {
	approve           bool
	approveAggressive bool
	confirmCalls      int
}

func (g *stubGate) Confirm(CandidateSet) (bool, error) {
	g.confirmCalls++
	return g.approve, nil
}

func (g *stubGate) ConfirmAggressive() (bool, error) {
	return g.approveAggressive, nil
}

func newTestRunner(client *ftest.Client, gate Gate) (*Runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	display := NewDisplayContext(true)
	display.Out = out
	return &Runner{
		Client:     client,
		Classifier: NewClassifier(nil),
		Gate:       gate,
		Display:    display,
		Log:        newTestLogger(),
	}, out
}

// Three stopped containers, none running: all three are removed with one
// Remove call each.
func TestRunCategoryContainers(t *testing.T) {
	client := &ftest.Client{
		Handles: map[runtime.Kind][]runtime.Handle{
			runtime.KindContainer: {
				{Kind: runtime.KindContainer, ID: "c1", Status: runtime.StatusExited},
				{Kind: runtime.KindContainer, ID: "c2", Status: runtime.StatusExited},
				{Kind: runtime.KindContainer, ID: "c3", Status: runtime.StatusExited},
			},
		},
	}
	runner, _ := newTestRunner(client, &stubGate{approve: true})

	if err := runner.RunCategory(context.Background(), Containers); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if client.RemoveCalls != 3 {
		t.Fatalf("expected exactly 3 remove calls, got %d", client.RemoveCalls)
	}
}

// Two dangling volumes next to one attached volume: the attached one is
// never passed to Remove.
func TestRunCategoryVolumesSkipsAttached(t *testing.T) {
	client := &ftest.Client{
		Handles: map[runtime.Kind][]runtime.Handle{
			runtime.KindVolume: {
				{Kind: runtime.KindVolume, ID: "dangling-1", RefCount: 0},
				{Kind: runtime.KindVolume, ID: "attached", RefCount: 1},
				{Kind: runtime.KindVolume, ID: "dangling-2", RefCount: 0},
			},
		},
	}
	runner, _ := newTestRunner(client, &stubGate{approve: true})

	if err := runner.RunCategory(context.Background(), Volumes); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if client.RemoveCalls != 2 {
		t.Fatalf("expected 2 remove calls, got %d", client.RemoveCalls)
	}
	for _, id := range client.Removed {
		if id == "attached" {
			t.Fatal("attached volume was passed to Remove")
		}
	}
}

// An unreachable daemon on the very first usage query aborts the category
// before any listing or removal is attempted.
func TestRunCategoryRuntimeUnavailable(t *testing.T) {
	client := &ftest.Client{UsageErr: runtime.ErrRuntimeUnavailable}
	runner, _ := newTestRunner(client, &stubGate{approve: true})

	err := runner.RunCategory(context.Background(), Containers)
	if !errors.Is(err, runtime.ErrRuntimeUnavailable) {
		t.Fatalf("expected ErrRuntimeUnavailable, got %v", err)
	}
	if client.ListCalls != 0 || client.RemoveCalls != 0 {
		t.Fatalf("no further calls may follow a lost daemon, got list=%d remove=%d",
			client.ListCalls, client.RemoveCalls)
	}
}

// Declining the confirmation leaves the runtime untouched and is not an
// error.
func TestRunCategoryDeclineIssuesNoRemovals(t *testing.T) {
	client := &ftest.Client{
		Handles: map[runtime.Kind][]runtime.Handle{
			runtime.KindContainer: {
				{Kind: runtime.KindContainer, ID: "c1", Status: runtime.StatusExited},
			},
		},
	}
	gate := &stubGate{approve: false}
	runner, _ := newTestRunner(client, gate)

	if err := runner.RunCategory(context.Background(), Containers); err != nil {
		t.Fatalf("a decline must not be an error, got %v", err)
	}
	if gate.confirmCalls != 1 {
		t.Fatalf("expected one confirmation, got %d", gate.confirmCalls)
	}
	if client.RemoveCalls != 0 {
		t.Fatalf("declined category must issue zero removals, got %d", client.RemoveCalls)
	}
}

// A failed listing for one kind degrades to a warning; the other kinds of
// the composite category still get cleaned.
func TestRunCategoryQueryErrorContinues(t *testing.T) {
	client := &ftest.Client{
		Handles: map[runtime.Kind][]runtime.Handle{
			runtime.KindContainer: {
				{Kind: runtime.KindContainer, ID: "c1", Status: runtime.StatusExited},
			},
			runtime.KindNetwork: {
				{Kind: runtime.KindNetwork, ID: "n1", Name: "lab", RefCount: 0},
			},
		},
		ListErrs: map[runtime.Kind]error{
			runtime.KindVolume: &runtime.QueryError{Kind: runtime.KindVolume, Err: errors.New("bad response")},
		},
	}
	runner, out := newTestRunner(client, &stubGate{approve: true})

	if err := runner.RunCategory(context.Background(), Standard); err != nil {
		t.Fatalf("query error must not abort the category, got %v", err)
	}
	if client.RemoveCalls != 2 {
		t.Fatalf("expected container and network removed despite volume failure, got %d", client.RemoveCalls)
	}
	if !bytes.Contains(out.Bytes(), []byte("could not list volumes")) {
		t.Fatalf("expected a printed warning for the failed listing, got %q", out.String())
	}
}

// Empty categories are reported explicitly, never silently skipped.
func TestRunCategoryReportsNothingFound(t *testing.T) {
	client := &ftest.Client{}
	runner, out := newTestRunner(client, &stubGate{approve: true})

	if err := runner.RunCategory(context.Background(), Containers); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("no stopped containers found")) {
		t.Fatalf("expected explicit empty report, got %q", out.String())
	}
	if client.RemoveCalls != 0 {
		t.Fatalf("expected zero removals, got %d", client.RemoveCalls)
	}
}

// Without the token, an aggressive run must touch nothing, including the
// build cache.
func TestRunCategoryAggressiveDeniedWithoutToken(t *testing.T) {
	client := &ftest.Client{
		Handles: map[runtime.Kind][]runtime.Handle{
			runtime.KindImage: {
				{Kind: runtime.KindImage, ID: "i1", Tagged: true, RefCount: 0},
			},
		},
	}
	runner, _ := newTestRunner(client, &stubGate{approveAggressive: false})

	if err := runner.RunCategory(context.Background(), Aggressive); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if client.ListCalls != 0 || client.RemoveCalls != 0 || client.PruneCalls != 0 {
		t.Fatalf("denied aggressive clean must be a no-op, got list=%d remove=%d prune=%d",
			client.ListCalls, client.RemoveCalls, client.PruneCalls)
	}
}

// With the token, the aggressive category removes tagged unreferenced
// images and prunes the build cache.
func TestRunCategoryAggressiveApproved(t *testing.T) {
	client := &ftest.Client{
		Handles: map[runtime.Kind][]runtime.Handle{
			runtime.KindImage: {
				{Kind: runtime.KindImage, ID: "tagged-unused", Tagged: true, RefCount: 0},
				{Kind: runtime.KindImage, ID: "tagged-used", Tagged: true, RefCount: 1},
			},
		},
		PruneBytes: 4096,
	}
	runner, out := newTestRunner(client, &stubGate{approveAggressive: true})

	if err := runner.RunCategory(context.Background(), Aggressive); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if client.PruneCalls != 1 {
		t.Fatalf("expected exactly one build cache prune, got %d", client.PruneCalls)
	}
	if len(client.Removed) != 1 || client.Removed[0] != "tagged-unused" {
		t.Fatalf("expected only the unreferenced image removed, got %#v", client.Removed)
	}
	if !bytes.Contains(out.Bytes(), []byte("build cache pruned")) {
		t.Fatalf("expected build cache summary, got %q", out.String())
	}
}

// The usage report issues exactly one snapshot query and never mutates
// anything, whatever candidates exist.
func TestShowUsageIsReadOnly(t *testing.T) {
	client := &ftest.Client{
		Handles: map[runtime.Kind][]runtime.Handle{
			runtime.KindContainer: {
				{Kind: runtime.KindContainer, ID: "c1", Status: runtime.StatusExited},
			},
		},
	}
	runner, _ := newTestRunner(client, &stubGate{approve: true})

	if err := runner.ShowUsage(context.Background(), false); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if client.UsageCalls != 1 {
		t.Fatalf("expected exactly one usage query, got %d", client.UsageCalls)
	}
	if client.RemoveCalls != 0 || client.PruneCalls != 0 {
		t.Fatalf("usage report must not mutate, got remove=%d prune=%d",
			client.RemoveCalls, client.PruneCalls)
	}
}
