// Package rowqueue distributes row indices to workers under an admission cap.
//
// A Queue is seeded with every row of an image in ascending order and hands
// them out strictly FIFO. Claims are refused while the number of in-flight
// rows is at the cap, independent of how many workers are asking. The queue
// distinguishes "exhausted" (every row has been claimed, the worker should
// exit) from "at capacity" (retry once a slot frees up); collapsing the two
// either ends workers early or leaves them waiting forever.
//
// The pending rows, the in-flight counter, and the per-row state table are
// guarded by one mutex so a claim observes all of them atomically. Workers
// that want to wait rather than poll use Claim, which parks on a condition
// variable signalled by Release.
package rowqueue
