package preflight

import (
	"path/filepath"
	"strings"

	"rowpool/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Request names the files a run will touch.
type Request struct {
	Input  string
	Output string
}

// RunAll executes all applicable preflight checks for the given config and
// request. Checks are only run when the corresponding feature is enabled.
func RunAll(cfg *config.Config, req Request) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if req.Input != "" {
		results = append(results, CheckInputFile("Input image", req.Input))
	}
	if req.Output != "" {
		results = append(results, CheckOutputPath("Output image", req.Input, req.Output))
	}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", dir))
	}
	if cfg.History.Enabled && strings.TrimSpace(cfg.Paths.HistoryDB) != "" {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.Paths.HistoryDB)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
