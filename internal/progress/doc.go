// Package progress observes a running row queue and renders how much of it has
// been claimed.
//
// A Monitor runs on its own goroutine. Each tick it reads the remaining row
// count (a brief lock hold inside the queue), converts it to a percentage, and
// hands it to a Renderer. The driver stops it with a one-shot completion flag
// once every worker has returned; the monitor then renders a final sample and
// clears its line. Monitors are purely observational: a run without one
// produces the same pixels.
package progress
