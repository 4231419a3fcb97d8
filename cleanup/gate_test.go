package cleanup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dockmop/dockmop/runtime"
)

func TestValidateAggressiveToken(t *testing.T) {
	cases := map[string]bool{
		AggressiveToken:  true,
		" erase ":        true,
		"y":              false,
		"yes":            false,
		"":               false,
		"ERASE":          false,
		"erase-all":      false,
	}
	for input, want := range cases {
		if got := ValidateAggressiveToken(input); got != want {
			t.Fatalf("ValidateAggressiveToken(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestBatchGateConfirmsOnlyRequestedKinds(t *testing.T) {
	gate := &BatchGate{
		Requested: map[runtime.Kind]bool{runtime.KindContainer: true},
		In:        strings.NewReader(""),
		Out:       &bytes.Buffer{},
	}

	ok, err := gate.Confirm(CandidateSet{Kind: runtime.KindContainer})
	if err != nil || !ok {
		t.Fatalf("requested kind should be approved without prompting, got (%v, %v)", ok, err)
	}

	ok, err = gate.Confirm(CandidateSet{Kind: runtime.KindVolume})
	if err != nil || ok {
		t.Fatalf("unrequested kind must be declined, got (%v, %v)", ok, err)
	}
}

func TestBatchGateAggressiveDemandsToken(t *testing.T) {
	out := &bytes.Buffer{}
	gate := &BatchGate{In: strings.NewReader("y\n"), Out: out}

	ok, err := gate.ConfirmAggressive()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("a plain \"y\" must not approve an aggressive clean")
	}
	if !strings.Contains(out.String(), AggressiveToken) {
		t.Fatalf("prompt should name the required token, got %q", out.String())
	}
}

func TestBatchGateAggressiveAcceptsToken(t *testing.T) {
	gate := &BatchGate{In: strings.NewReader(AggressiveToken + "\n"), Out: &bytes.Buffer{}}

	ok, err := gate.ConfirmAggressive()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatal("typing the token must approve the aggressive clean")
	}
}
