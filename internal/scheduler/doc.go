// Package scheduler runs a row transform over a pixel buffer with a fixed pool
// of workers.
//
// The default strategy seeds a rowqueue.Queue with every row and lets each
// worker loop claim, transform, release until the queue reports exhaustion.
// Pool size and the admission cap are independent: a pool of one with a cap of
// twelve is sequential, a pool of eight with a cap of two keeps six workers
// parked. The transform runs outside the queue lock on a slice that covers
// exactly the claimed row, so workers share the buffer without locking it.
//
// The static partition strategies (sequential, sectors, interleaved) assign
// rows up front and exist for comparison; they honour the same cap through a
// weighted semaphore and produce identical output.
//
// Run drives one pass: seed, start workers and the progress monitor, join the
// workers, stop the monitor, report. A failed invariant or a panicking
// transform aborts the run and the caller must not encode the buffer.
package scheduler
