package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"rowpool/internal/faults"
)

// rowsFunc returns the rows assigned to worker i of n for a buffer of height
// rows.
type rowsFunc func(i, n, height int) []int

func sequentialRows(_, _, height int) []int {
	rows := make([]int, height)
	for y := range rows {
		rows[y] = y
	}
	return rows
}

// sectorRows splits the buffer into n contiguous bands. The last band takes
// the remainder when height is not a multiple of n.
func sectorRows(i, n, height int) []int {
	band := height / n
	start := i * band
	end := start + band
	if i == n-1 {
		end = height
	}
	rows := make([]int, 0, end-start)
	for y := start; y < end; y++ {
		rows = append(rows, y)
	}
	return rows
}

func interleavedRows(i, n, height int) []int {
	rows := make([]int, 0, height/n+1)
	for y := i; y < height; y += n {
		rows = append(rows, y)
	}
	return rows
}

// rowCounter is the progress source for static partitions.
type rowCounter struct {
	height   int
	done     atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (c *rowCounter) Height() int    { return c.height }
func (c *rowCounter) Remaining() int { return c.height - int(c.done.Load()) }

func (c *rowCounter) enter() {
	n := c.inFlight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (c *rowCounter) leave() {
	c.inFlight.Add(-1)
	c.done.Add(1)
}

func (c *rowCounter) Verify() error {
	if done := int(c.done.Load()); done != c.height {
		return faults.Wrap(faults.ErrInvariant, "scheduler", "verify",
			fmt.Sprintf("%d of %d rows transformed", done, c.height), nil)
	}
	if n := c.inFlight.Load(); n != 0 {
		return faults.Wrap(faults.ErrInvariant, "scheduler", "verify",
			fmt.Sprintf("%d rows still in flight", n), nil)
	}
	return nil
}

func (d *driver) seedPartition(n int, assign rowsFunc) (plan, error) {
	if n < 1 {
		n = 1
	}
	counter := &rowCounter{height: d.buf.Height}
	sem := semaphore.NewWeighted(int64(d.opts.MaxInFlight))

	seen := make([]bool, d.buf.Height)
	workers := make([]func(context.Context) error, n)
	for i := range workers {
		rows := assign(i, n, d.buf.Height)
		for _, y := range rows {
			if seen[y] {
				return plan{}, faults.Wrap(faults.ErrInvariant, "scheduler", "seed",
					fmt.Sprintf("row %d assigned twice", y), nil)
			}
			seen[y] = true
		}
		workers[i] = d.partitionWorker(i, rows, counter, sem)
	}
	for y, ok := range seen {
		if !ok {
			return plan{}, faults.Wrap(faults.ErrInvariant, "scheduler", "seed",
				fmt.Sprintf("row %d unassigned", y), nil)
		}
	}
	return plan{
		source:  counter,
		workers: workers,
		peak:    func() int { return int(counter.peak.Load()) },
	}, nil
}

func (d *driver) partitionWorker(id int, rows []int, counter *rowCounter, sem *semaphore.Weighted) func(context.Context) error {
	return func(ctx context.Context) error {
		obs := d.opts.Observer
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return faults.Wrap(faults.ErrCanceled, "scheduler", "partition", "", err)
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				return faults.Wrap(faults.ErrCanceled, "scheduler", "partition", "", err)
			}
			counter.enter()
			if obs != nil {
				obs.Claimed(id, row)
			}
			err := d.transformRow(id, row)
			if obs != nil {
				obs.Released(id, row)
			}
			counter.leave()
			sem.Release(1)
			if err != nil {
				return err
			}
		}
		if counter.Remaining() == 0 {
			d.drained.Store(true)
		}
		return nil
	}
}
