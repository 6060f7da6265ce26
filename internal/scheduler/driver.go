package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rowpool/internal/contrast"
	"rowpool/internal/faults"
	"rowpool/internal/logging"
	"rowpool/internal/pixbuf"
	"rowpool/internal/progress"
	"rowpool/internal/rowqueue"
)

// Run transforms every row of buf exactly once and returns a report of the
// run. On error the buffer is partially transformed and must be discarded.
func Run(ctx context.Context, buf *pixbuf.Buffer, transform contrast.Transform, opts Options) (Report, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return Report{}, err
	}
	if buf == nil {
		return Report{}, faults.Wrap(faults.ErrResource, "scheduler", "run", "nil pixel buffer", nil)
	}
	if err := buf.Validate(); err != nil {
		return Report{}, err
	}
	if transform == nil {
		return Report{}, faults.Wrap(faults.ErrConfiguration, "scheduler", "run", "nil transform", nil)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "scheduler").With(
		logging.FieldRunID, opts.RunID,
		logging.FieldStrategy, string(opts.Strategy),
	)

	d := &driver{
		buf:       buf,
		transform: transform,
		opts:      opts,
		logger:    logger,
		report: Report{
			RunID:       opts.RunID,
			Strategy:    opts.Strategy,
			PoolSize:    opts.PoolSize,
			MaxInFlight: opts.MaxInFlight,
			Rows:        buf.Height,
		},
	}
	return d.run(ctx)
}

type driver struct {
	buf       *pixbuf.Buffer
	transform contrast.Transform
	opts      Options
	logger    *slog.Logger

	drained atomic.Bool
	report  Report
}

// plan is the seeded state of one run: a progress source and the worker
// bodies to launch.
type plan struct {
	source  progress.Source
	workers []func(ctx context.Context) error
	peak    func() int
}

func (d *driver) run(ctx context.Context) (Report, error) {
	p, err := d.seed()
	if err != nil {
		return Report{}, err
	}
	d.report.Workers = len(p.workers)
	d.phase(PhaseSeeded)

	var monitor *progress.Monitor
	if d.opts.Renderer != nil {
		monitor = progress.NewMonitor(p.source, d.opts.Renderer, d.opts.MonitorInterval)
	}

	d.logger.Debug("run started",
		logging.Int("rows", d.buf.Height),
		logging.Int("pool_size", d.opts.PoolSize),
		logging.Int("max_in_flight", d.opts.MaxInFlight),
		logging.Int("workers", len(p.workers)),
	)

	g, gctx := errgroup.WithContext(ctx)
	d.report.Started = time.Now()
	if monitor != nil {
		monitor.Start()
	}
	d.phase(PhaseRunning)
	for _, body := range p.workers {
		g.Go(func() error {
			if d.opts.BatchPriority {
				d.lowerPriority()
			}
			return body(gctx)
		})
	}
	runErr := g.Wait()
	d.report.Elapsed = time.Since(d.report.Started)
	if d.drained.Load() {
		d.phase(PhaseDrained)
	}
	d.phase(PhaseJoined)

	if monitor != nil {
		monitor.Stop()
		d.report.Samples = monitor.Samples()
	}
	d.report.PeakInFlight = p.peak()

	if runErr != nil {
		runErr = d.classify(ctx, runErr)
		logging.ErrorWithContext(d.logger, "run aborted", "run_aborted",
			logging.String(logging.FieldErrorHint, faults.Kind(runErr)),
			logging.Error(runErr),
		)
		return d.report, runErr
	}
	if v, ok := p.source.(interface{ Verify() error }); ok {
		if err := v.Verify(); err != nil {
			return d.report, err
		}
	}

	d.phase(PhaseReported)
	d.logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("rows", d.report.Rows),
		logging.Duration("elapsed", d.report.Elapsed),
		logging.Int("peak_in_flight", d.report.PeakInFlight),
	)
	return d.report, nil
}

func (d *driver) seed() (plan, error) {
	switch d.opts.Strategy {
	case StrategyQueue:
		return d.seedQueue()
	case StrategySequential:
		return d.seedPartition(1, sequentialRows)
	case StrategySectors:
		return d.seedPartition(min(d.opts.PoolSize, d.buf.Height), sectorRows)
	case StrategyInterleaved:
		return d.seedPartition(min(d.opts.PoolSize, d.buf.Height), interleavedRows)
	default:
		return plan{}, faults.Wrap(faults.ErrConfiguration, "scheduler", "seed",
			fmt.Sprintf("unsupported strategy %q", d.opts.Strategy), nil)
	}
}

func (d *driver) seedQueue() (plan, error) {
	q, err := rowqueue.New(d.buf.Height, d.opts.MaxInFlight)
	if err != nil {
		return plan{}, err
	}
	workers := make([]func(context.Context) error, d.opts.PoolSize)
	for i := range workers {
		w := &queueWorker{id: i, queue: q, driver: d}
		workers[i] = w.run
	}
	return plan{
		source:  q,
		workers: workers,
		peak:    func() int { return q.Snapshot().PeakInFlight },
	}, nil
}

func (d *driver) phase(p Phase) {
	d.report.Phases = append(d.report.Phases, p)
}

// transformRow applies the transform to one row. A panic inside the
// transform is converted into an invariant error.
func (d *driver) transformRow(worker, row int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = faults.Wrap(faults.ErrInvariant, "scheduler", "transform",
				fmt.Sprintf("worker %d row %d panicked: %v", worker, row, r), nil)
		}
	}()
	pixels, err := d.buf.Row(row)
	if err != nil {
		return err
	}
	d.transform.Apply(pixels)
	return nil
}

func (d *driver) lowerPriority() {
	if err := setBatchPriority(); err != nil {
		d.logger.Debug("batch priority unavailable", logging.Error(err))
	}
}

// classify makes sure an abort caused by the caller's context is reported as
// a cancellation, whichever worker noticed it first.
func (d *driver) classify(ctx context.Context, err error) error {
	if errors.Is(err, faults.ErrCanceled) {
		return err
	}
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return faults.Wrap(faults.ErrCanceled, "scheduler", "run", "", err)
	}
	return err
}
