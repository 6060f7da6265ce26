package scheduler

import "time"

// Phase is a step of a run's lifecycle.
type Phase string

const (
	PhaseSeeded   Phase = "seeded"
	PhaseRunning  Phase = "running"
	PhaseDrained  Phase = "drained"
	PhaseJoined   Phase = "joined"
	PhaseReported Phase = "reported"
)

// Report summarizes a finished run.
type Report struct {
	RunID        string
	Strategy     Strategy
	PoolSize     int
	// Workers is how many goroutines actually ran; static partitions never
	// start more workers than rows and sequential runs only one.
	Workers      int
	MaxInFlight  int
	Rows         int
	Started      time.Time
	Elapsed      time.Duration
	PeakInFlight int
	Samples      int
	Phases       []Phase
}

// RowsPerSecond returns throughput, or 0 for an instantaneous run.
func (r Report) RowsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Rows) / r.Elapsed.Seconds()
}
