// Package main hosts the rowpool CLI entrypoint and command graph.
//
// The Cobra command tree decodes an image, hands it to the scheduler, encodes
// the result, and records the run. It centralizes configuration resolution,
// flag overrides, and logger setup so subcommands only describe what they
// print. Heavy lifting lives in the internal packages.
package main
