//go:build !linux

package scheduler

import "errors"

func setBatchPriority() error {
	return errors.New("batch scheduling policy is only supported on linux")
}
