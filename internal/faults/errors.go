package faults

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrResource marks an input, output, or buffer that is unavailable.
	ErrResource = errors.New("resource error")
	// ErrInvariant marks a scheduler bookkeeping or buffer bounds violation.
	ErrInvariant = errors.New("invariant violation")
	// ErrTransform marks a per-row transform failure.
	ErrTransform = errors.New("transform error")
	// ErrConfiguration marks an unusable knob combination.
	ErrConfiguration = errors.New("configuration error")
	// ErrCanceled marks a run stopped by an external abort between rows.
	ErrCanceled = errors.New("run canceled")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInvariant
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification label for err.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrInvariant):
		return "invariant"
	case errors.Is(err, ErrTransform):
		return "transform"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrResource):
		return "resource"
	default:
		return "unknown"
	}
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch Kind(err) {
	case "ok":
		return 0
	case "canceled":
		return 130
	case "invariant", "transform":
		return 3
	case "configuration":
		return 2
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
