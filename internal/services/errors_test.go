package services_test

import (
	"errors"
	"strings"
	"testing"

	"photonym/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalService, "detecting", "detect", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"detecting", "detect", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "describing", "describe", "no marker", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestDegradedClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"external", services.Wrap(services.ErrExternalService, "s", "o", "m", nil), true},
		{"timeout", services.Wrap(services.ErrTimeout, "s", "o", "m", nil), true},
		{"configuration", services.Wrap(services.ErrConfiguration, "s", "o", "m", nil), true},
		{"validation", services.Wrap(services.ErrValidation, "s", "o", "m", nil), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := services.Degraded(tc.err); got != tc.want {
			t.Fatalf("%s: Degraded = %v, want %v", tc.name, got, tc.want)
		}
	}
}
