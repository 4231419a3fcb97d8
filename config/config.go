// Package config holds the runtime settings for a single invocation. The
// tool is deliberately stateless: nothing here is ever written to disk, and
// every field can be driven from flags or DOCKMOP_* environment variables.
package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/creasty/defaults"
)

var (
	mu      sync.RWMutex
	_config *Configuration
)

// Configuration defines the per-invocation settings.
type Configuration struct {
	// Debug enables debug level logging.
	Debug bool `default:"false"`

	// Host overrides the detected daemon endpoint when set.
	Host string

	// Timeout bounds every single query or removal call against the
	// runtime. The confirmation prompt itself is never subject to it.
	Timeout time.Duration `default:"30s"`

	// NoColor disables colored output regardless of terminal capability.
	NoColor bool `default:"false"`

	// ExtraReservedNetworks adds networks to the built-in reserved set that
	// must never be offered for removal.
	ExtraReservedNetworks []string
}

// NewDefault builds a configuration with struct defaults applied and
// environment overrides folded in.
func NewDefault() (*Configuration, error) {
	c := new(Configuration)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "config: applying defaults")
	}
	c.applyEnv()
	return c, nil
}

func (c *Configuration) applyEnv() {
	if v := os.Getenv("DOCKMOP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}
	if v := os.Getenv("DOCKMOP_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if os.Getenv("NO_COLOR") != "" {
		c.NoColor = true
	}
}

// Set stores the active configuration for the process.
func Set(c *Configuration) {
	mu.Lock()
	_config = c
	mu.Unlock()
}

// Get returns the active configuration, initializing defaults if none was
// set explicitly.
func Get() *Configuration {
	mu.RLock()
	c := _config
	mu.RUnlock()
	if c != nil {
		return c
	}

	c, err := NewDefault()
	if err != nil {
		// Defaults on a plain struct cannot fail unless the tags are broken.
		panic(err)
	}
	Set(c)
	return c
}
