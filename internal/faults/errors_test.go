package faults_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"rowpool/internal/faults"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := faults.Wrap(faults.ErrResource, "imagecodec", "decode", "read failed", base)
	if !errors.Is(err, faults.ErrResource) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"imagecodec", "decode", "read failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToInvariant(t *testing.T) {
	err := faults.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, faults.ErrInvariant) {
		t.Fatalf("expected invariant marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"resource", faults.Wrap(faults.ErrResource, "codec", "open", "", nil), 1},
		{"configuration", faults.Wrap(faults.ErrConfiguration, "config", "validate", "", nil), 2},
		{"invariant", faults.Wrap(faults.ErrInvariant, "rowqueue", "release", "", nil), 3},
		{"transform", faults.Wrap(faults.ErrTransform, "scheduler", "row", "", nil), 3},
		{"canceled marker", faults.Wrap(faults.ErrCanceled, "scheduler", "run", "", nil), 130},
		{"context canceled", fmt.Errorf("run: %w", context.Canceled), 130},
		{"plain", errors.New("plain"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := faults.ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode = %d, want %d (kind %s)", got, tc.want, faults.Kind(tc.err))
			}
		})
	}
}
