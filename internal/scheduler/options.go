package scheduler

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"rowpool/internal/faults"
	"rowpool/internal/progress"
)

// Strategy selects how rows are assigned to workers.
type Strategy string

const (
	// StrategyQueue claims rows from a shared FIFO under the admission cap.
	StrategyQueue Strategy = "queue"
	// StrategySequential transforms every row on one goroutine.
	StrategySequential Strategy = "sequential"
	// StrategySectors gives each worker one contiguous band of rows.
	StrategySectors Strategy = "sectors"
	// StrategyInterleaved gives worker i rows i, i+N, i+2N and so on.
	StrategyInterleaved Strategy = "interleaved"
)

// Strategies lists every strategy in display order.
var Strategies = []Strategy{StrategyQueue, StrategySequential, StrategySectors, StrategyInterleaved}

// ParseStrategy maps a configuration name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if string(s) == name {
			return s, nil
		}
	}
	return "", faults.Wrap(faults.ErrConfiguration, "scheduler", "strategy",
		fmt.Sprintf("unsupported value %q", name), nil)
}

// Observer receives row lifecycle callbacks from workers. Claimed fires after
// a row is admitted and Released fires before its slot is returned, so an
// observer never sees more live rows than the cap. Calls arrive concurrently.
type Observer interface {
	Claimed(worker, row int)
	Released(worker, row int)
}

// Options configures one run.
type Options struct {
	PoolSize        int
	MaxInFlight     int
	Strategy        Strategy
	BatchPriority   bool
	MonitorInterval time.Duration
	// Renderer receives progress samples. Nil runs without a monitor.
	Renderer progress.Renderer
	Observer Observer
	Logger   *slog.Logger
	// RunID tags logs and the report. Empty generates a UUID.
	RunID string
}

func (o Options) withDefaults() Options {
	if o.PoolSize == 0 {
		o.PoolSize = runtime.NumCPU()
	}
	if o.Strategy == "" {
		o.Strategy = StrategyQueue
	}
	if o.MonitorInterval <= 0 {
		o.MonitorInterval = progress.DefaultInterval
	}
	return o
}

func (o Options) validate() error {
	if o.PoolSize < 1 {
		return faults.Wrap(faults.ErrConfiguration, "scheduler", "options",
			fmt.Sprintf("pool size %d must be positive", o.PoolSize), nil)
	}
	if o.MaxInFlight < 1 {
		return faults.Wrap(faults.ErrConfiguration, "scheduler", "options",
			fmt.Sprintf("max in flight %d must be positive", o.MaxInFlight), nil)
	}
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	return nil
}
