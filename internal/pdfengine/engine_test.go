package pdfengine

import (
	"errors"
	"strings"
	"testing"
)

type stubFactory struct{}

func (stubFactory) NewSession(Settings) (Session, error) {
	return nil, errors.New("stub factory has no sessions")
}

func register(t *testing.T, name string) {
	t.Helper()
	Register(name, stubFactory{})
	t.Cleanup(func() { unregister(name) })
}

func TestLookupByName(t *testing.T) {
	register(t, "alpha")

	factory, err := Lookup("alpha")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if factory == nil {
		t.Fatal("Lookup returned nil factory")
	}
}

func TestLookupUnknownNameListsCandidates(t *testing.T) {
	register(t, "alpha")

	_, err := Lookup("beta")
	if err == nil {
		t.Fatal("expected error for unknown engine")
	}
	if !strings.Contains(err.Error(), "alpha") {
		t.Fatalf("error should name registered engines, got %q", err)
	}
}

func TestLookupEmptyNameWithSingleRegistration(t *testing.T) {
	register(t, "alpha")

	factory, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if factory == nil {
		t.Fatal("Lookup returned nil factory")
	}
}

func TestLookupEmptyNameAmbiguous(t *testing.T) {
	register(t, "alpha")
	register(t, "beta")

	_, err := Lookup("")
	if err == nil {
		t.Fatal("expected error with two engines registered")
	}
	if !strings.Contains(err.Error(), "alpha, beta") {
		t.Fatalf("error should list candidates in order, got %q", err)
	}
}

func TestLookupEmptyRegistry(t *testing.T) {
	_, err := Lookup("")
	if !errors.Is(err, ErrNoEngine) {
		t.Fatalf("expected ErrNoEngine, got %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	register(t, "alpha")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("alpha", stubFactory{})
}
