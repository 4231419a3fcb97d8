package config

import (
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	c, err := NewDefault()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Timeout != 30*time.Second {
		t.Fatalf("expected 30s default timeout, got %s", c.Timeout)
	}
	if c.Debug {
		t.Fatal("debug must default to off")
	}
}

func TestTimeoutEnvOverride(t *testing.T) {
	t.Setenv("DOCKMOP_TIMEOUT", "5s")

	c, err := NewDefault()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", c.Timeout)
	}
}

func TestInvalidTimeoutEnvIgnored(t *testing.T) {
	t.Setenv("DOCKMOP_TIMEOUT", "not-a-duration")

	c, err := NewDefault()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout kept, got %s", c.Timeout)
	}
}

func TestNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	c, err := NewDefault()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !c.NoColor {
		t.Fatal("NO_COLOR must disable colored output")
	}
}
