// Package ftest provides a scriptable in-memory runtime client for tests.
package ftest

import (
	"context"

	"github.com/dockmop/dockmop/runtime"
	"github.com/dockmop/dockmop/system"
)

// Client implements runtime.Client against fixture data. It records every
// call so tests can assert on exactly which operations were issued.
type Client struct {
	Handles    map[runtime.Kind][]runtime.Handle
	ListErrs   map[runtime.Kind]error
	RemoveErrs map[string]error
	UsageSnap  system.UsageSnapshot
	UsageErr   error
	PruneBytes int64
	PruneErr   error

	ListCalls   int
	RemoveCalls int
	UsageCalls  int
	PruneCalls  int

	// Removed holds the IDs passed to Remove, in order.
	Removed []string

	gone map[string]bool
}

func (c *Client) List(_ context.Context, kind runtime.Kind, _ runtime.Filter) ([]runtime.Handle, error) {
	c.ListCalls++
	if err := c.ListErrs[kind]; err != nil {
		return nil, err
	}
	return c.Handles[kind], nil
}

// Remove mimics the idempotent contract of the real client: removing an
// already-removed handle succeeds with zero reclaimed bytes.
func (c *Client) Remove(_ context.Context, h runtime.Handle) (int64, error) {
	c.RemoveCalls++
	c.Removed = append(c.Removed, h.ID)

	if err := c.RemoveErrs[h.ID]; err != nil {
		return 0, &runtime.RemovalError{Handle: h, Err: err}
	}

	if c.gone == nil {
		c.gone = make(map[string]bool)
	}
	if c.gone[h.ID] {
		return 0, nil
	}
	c.gone[h.ID] = true

	if h.SizeBytes > 0 {
		return h.SizeBytes, nil
	}
	return 0, nil
}

func (c *Client) Usage(_ context.Context) (system.UsageSnapshot, error) {
	c.UsageCalls++
	if c.UsageErr != nil {
		return system.UsageSnapshot{}, c.UsageErr
	}
	return c.UsageSnap, nil
}

func (c *Client) PruneBuildCache(_ context.Context) (int64, error) {
	c.PruneCalls++
	if c.PruneErr != nil {
		return 0, c.PruneErr
	}
	return c.PruneBytes, nil
}

func (c *Client) Close() error {
	return nil
}
