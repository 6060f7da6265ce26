package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"rowpool/internal/config"
	"rowpool/internal/contrast"
	"rowpool/internal/faults"
	"rowpool/internal/history"
	"rowpool/internal/imagecodec"
	"rowpool/internal/logging"
	"rowpool/internal/pixbuf"
	"rowpool/internal/preflight"
	"rowpool/internal/progress"
	"rowpool/internal/scheduler"
)

type imageJob struct {
	input  string
	output string
}

type imageResult struct {
	report scheduler.Report
	width  int
	height int
	format imagecodec.Format
	stored bool
}

// darkenImage runs preflight, decode, schedule, encode, and history for one
// image. Nothing is written when scheduling fails.
func darkenImage(ctx context.Context, cfg *config.Config, logger *slog.Logger, job imageJob, progressOut io.Writer) (imageResult, error) {
	if failed := preflight.Failed(preflight.RunAll(cfg, preflight.Request{Input: job.input, Output: job.output})); len(failed) > 0 {
		return imageResult{}, preflightError(failed)
	}

	buf, format, err := imagecodec.DecodeFile(job.input, imagecodec.Options{Mmap: cfg.Codec.Mmap})
	if err != nil {
		return imageResult{}, err
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger = logging.WithContext(ctx, logger)
	logger.Debug("image decoded",
		logging.String("input", job.input),
		logging.String("format", string(format)),
		logging.Int("width", buf.Width),
		logging.Int("height", buf.Height),
		logging.Bool("mmap", cfg.Codec.Mmap),
	)

	renderer, err := progress.ForOutput(cfg.Monitor.Renderer, progressOut, logger, "darken")
	if err != nil {
		return imageResult{}, faults.Wrap(faults.ErrConfiguration, "monitor", "renderer", "", err)
	}
	report, err := schedule(ctx, cfg, logger, buf, renderer, runID)
	if err != nil {
		return imageResult{report: report}, err
	}

	if err := imagecodec.EncodeFile(job.output, buf); err != nil {
		return imageResult{report: report}, err
	}

	res := imageResult{report: report, width: buf.Width, height: buf.Height, format: format}
	if cfg.History.Enabled {
		res.stored = recordRun(ctx, cfg, logger, job, res)
	}
	return res, nil
}

func schedule(ctx context.Context, cfg *config.Config, logger *slog.Logger, buf *pixbuf.Buffer, renderer progress.Renderer, runID string) (scheduler.Report, error) {
	strategy, err := scheduler.ParseStrategy(cfg.Scheduler.Strategy)
	if err != nil {
		return scheduler.Report{}, err
	}
	return scheduler.Run(ctx, buf, contrast.Darken{Factor: cfg.ContrastFactor()}, scheduler.Options{
		PoolSize:        cfg.Scheduler.PoolSize,
		MaxInFlight:     cfg.Scheduler.MaxInFlight,
		Strategy:        strategy,
		BatchPriority:   cfg.Scheduler.BatchPriority,
		MonitorInterval: cfg.MonitorInterval(),
		Renderer:        renderer,
		Logger:          logger,
		RunID:           runID,
	})
}

func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, job imageJob, res imageResult) bool {
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.String(logging.FieldErrorHint, "check paths.history_db"),
			logging.Error(err),
		)
		return false
	}
	defer store.Close()

	err = store.Record(ctx, history.Run{
		ID:           res.report.RunID,
		InputPath:    absPath(job.input),
		OutputPath:   absPath(job.output),
		Strategy:     string(res.report.Strategy),
		PoolSize:     res.report.PoolSize,
		MaxInFlight:  res.report.MaxInFlight,
		Factor:       cfg.Contrast.Factor,
		Width:        res.width,
		Height:       res.height,
		PeakInFlight: res.report.PeakInFlight,
		Elapsed:      res.report.Elapsed,
		CreatedAt:    res.report.Started.Add(res.report.Elapsed),
	})
	if err != nil {
		logging.WarnWithContext(logger, "failed to record run", "history_record_failed",
			logging.String(logging.FieldImpact, "run output is unaffected"),
			logging.Error(err),
		)
		return false
	}
	return true
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return faults.Wrap(faults.ErrResource, "preflight", "check", strings.Join(parts, "; "), nil)
}

// defaultOutputPath places "<name>_dark<ext>" next to the input. Inputs with
// an extension the encoder cannot write get a .bmp output.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if _, err := imagecodec.FormatForPath(input); err != nil {
		ext = ".bmp"
	}
	return base + "_dark" + ext
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

