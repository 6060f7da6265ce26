// Package faults defines the error taxonomy shared by the scheduler, codec,
// and CLI.
//
// Errors are tagged with one of the exported sentinel markers so callers can
// classify a failure with errors.Is without parsing messages. Resource errors
// abort a run before any worker starts, invariant violations abort a run in
// progress, and neither ever results in an output file being written.
package faults
