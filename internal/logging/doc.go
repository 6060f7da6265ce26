// Package logging assembles structured slog loggers and formatting helpers used
// across rowpool.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so scheduler code can tag log
// lines with the run identifier. The package also provides a no-op logger for
// tests and a progress sampler that keeps non-interactive progress logs short.
package logging
