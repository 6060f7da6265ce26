package rowqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rowpool/internal/faults"
)

// ErrExhausted reports that every row has been claimed.
var ErrExhausted = errors.New("row queue exhausted")

// Claim is the outcome of a TryClaim attempt.
type Claim int

const (
	// Claimed means a row was popped and is now in flight.
	Claimed Claim = iota
	// AtCapacity means rows remain but the admission cap is reached.
	AtCapacity
	// Exhausted means no rows remain.
	Exhausted
)

func (c Claim) String() string {
	switch c {
	case Claimed:
		return "claimed"
	case AtCapacity:
		return "at_capacity"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("claim(%d)", int(c))
	}
}

// RowState tracks one row through Pending, InFlight, and Done.
type RowState uint8

const (
	Pending RowState = iota
	InFlight
	Done
)

func (s RowState) String() string {
	switch s {
	case Pending:
		return "pending"
	case InFlight:
		return "in_flight"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Snapshot is a consistent view of the queue counters.
type Snapshot struct {
	Height       int
	Remaining    int
	InFlight     int
	Done         int
	PeakInFlight int
	Cap          int
}

// Queue is the shared work queue plus admission controller for one run.
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond

	pending []int
	head    int
	states  []RowState

	maxInFlight int
	inFlight    int
	peak        int
	done        int
}

// New seeds a queue with rows 0..height-1 and the given admission cap.
func New(height, maxInFlight int) (*Queue, error) {
	if height < 1 {
		return nil, faults.Wrap(faults.ErrConfiguration, "rowqueue", "new",
			fmt.Sprintf("height %d must be positive", height), nil)
	}
	if maxInFlight < 1 {
		return nil, faults.Wrap(faults.ErrConfiguration, "rowqueue", "new",
			fmt.Sprintf("max in flight %d must be positive", maxInFlight), nil)
	}
	q := &Queue{
		pending:     make([]int, height),
		states:      make([]RowState, height),
		maxInFlight: maxInFlight,
	}
	for i := range q.pending {
		q.pending[i] = i
	}
	q.cond = sync.NewCond(&q.mu)
	return q, nil
}

// TryClaim pops the next row if one is available and the cap allows it.
// The returned row is only meaningful when the claim is Claimed.
func (q *Queue) TryClaim() (int, Claim) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tryClaimLocked()
}

func (q *Queue) tryClaimLocked() (int, Claim) {
	if q.head >= len(q.pending) {
		return -1, Exhausted
	}
	if q.inFlight >= q.maxInFlight {
		return -1, AtCapacity
	}
	row := q.pending[q.head]
	if q.states[row] != Pending {
		panic(faults.Wrap(faults.ErrInvariant, "rowqueue", "claim",
			fmt.Sprintf("row %d dequeued while %s", row, q.states[row]), nil))
	}
	q.head++
	q.states[row] = InFlight
	q.inFlight++
	if q.inFlight > q.peak {
		q.peak = q.inFlight
	}
	return row, Claimed
}

// Claim blocks until a row is admitted, the queue is exhausted, or ctx is
// done. Cancellation is checked before every attempt, so a canceled run stops
// handing out rows even when some are still pending.
func (q *Queue) Claim(ctx context.Context) (int, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if err := ctx.Err(); err != nil {
			return -1, faults.Wrap(faults.ErrCanceled, "rowqueue", "claim", "", err)
		}
		row, outcome := q.tryClaimLocked()
		switch outcome {
		case Claimed:
			return row, nil
		case Exhausted:
			return -1, ErrExhausted
		}
		q.cond.Wait()
	}
}

// Release marks an in-flight row Done and frees its admission slot.
func (q *Queue) Release(row int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if row < 0 || row >= len(q.states) {
		return faults.Wrap(faults.ErrInvariant, "rowqueue", "release",
			fmt.Sprintf("row %d outside 0..%d", row, len(q.states)-1), nil)
	}
	if q.states[row] != InFlight {
		return faults.Wrap(faults.ErrInvariant, "rowqueue", "release",
			fmt.Sprintf("row %d released while %s", row, q.states[row]), nil)
	}
	if q.inFlight <= 0 {
		return faults.Wrap(faults.ErrInvariant, "rowqueue", "release",
			fmt.Sprintf("in-flight counter at %d", q.inFlight), nil)
	}
	q.states[row] = Done
	q.inFlight--
	q.done++
	// Once nothing is pending every parked worker must learn it should exit.
	if q.head >= len(q.pending) {
		q.cond.Broadcast()
	} else {
		q.cond.Signal()
	}
	return nil
}

// Height returns the number of rows the queue was seeded with.
func (q *Queue) Height() int {
	return len(q.states)
}

// Remaining returns the number of rows not yet claimed.
func (q *Queue) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) - q.head
}

// InFlight returns the number of rows claimed but not released.
func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}

// State returns the lifecycle state of row.
func (q *Queue) State(row int) RowState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.states[row]
}

// Snapshot returns all counters under one lock hold.
func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Snapshot{
		Height:       len(q.states),
		Remaining:    len(q.pending) - q.head,
		InFlight:     q.inFlight,
		Done:         q.done,
		PeakInFlight: q.peak,
		Cap:          q.maxInFlight,
	}
}

// Verify checks the end-of-run invariants: nothing pending, nothing in
// flight, every row Done exactly once.
func (q *Queue) Verify() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inFlight != 0 {
		return faults.Wrap(faults.ErrInvariant, "rowqueue", "verify",
			fmt.Sprintf("%d rows still in flight", q.inFlight), nil)
	}
	if remaining := len(q.pending) - q.head; remaining != 0 {
		return faults.Wrap(faults.ErrInvariant, "rowqueue", "verify",
			fmt.Sprintf("%d rows never claimed", remaining), nil)
	}
	for row, state := range q.states {
		if state != Done {
			return faults.Wrap(faults.ErrInvariant, "rowqueue", "verify",
				fmt.Sprintf("row %d finished as %s", row, state), nil)
		}
	}
	if q.done != len(q.states) {
		return faults.Wrap(faults.ErrInvariant, "rowqueue", "verify",
			fmt.Sprintf("done counter %d, want %d", q.done, len(q.states)), nil)
	}
	return nil
}
