package scheduler

import (
	"context"
	"errors"
	"fmt"

	"rowpool/internal/faults"
	"rowpool/internal/rowqueue"
)

type queueWorker struct {
	id     int
	queue  *rowqueue.Queue
	driver *driver
}

// run claims, transforms, and releases rows until the queue is exhausted or
// ctx is canceled. Cancellation is only observed between rows.
func (w *queueWorker) run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asInvariant(r)
		}
	}()
	obs := w.driver.opts.Observer
	for {
		row, err := w.queue.Claim(ctx)
		if errors.Is(err, rowqueue.ErrExhausted) {
			w.driver.drained.Store(true)
			return nil
		}
		if err != nil {
			return err
		}
		if obs != nil {
			obs.Claimed(w.id, row)
		}
		if err := w.driver.transformRow(w.id, row); err != nil {
			return err
		}
		if obs != nil {
			obs.Released(w.id, row)
		}
		if err := w.queue.Release(row); err != nil {
			return err
		}
	}
}

// asInvariant converts a recovered bookkeeping panic into an error.
func asInvariant(r any) error {
	if err, ok := r.(error); ok && errors.Is(err, faults.ErrInvariant) {
		return err
	}
	return faults.Wrap(faults.ErrInvariant, "scheduler", "worker", fmt.Sprintf("panic: %v", r), nil)
}
