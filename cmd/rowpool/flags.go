package main

import (
	"github.com/spf13/cobra"

	"rowpool/internal/config"
	"rowpool/internal/faults"
)

// schedulerFlags are the knobs shared by run and bench. Only flags the user
// set override the loaded config.
type schedulerFlags struct {
	poolSize      int
	maxInFlight   int
	strategy      string
	factor        int
	renderer      string
	batchPriority bool
	mmap          bool
}

func (f *schedulerFlags) register(cmd *cobra.Command, withStrategy bool) {
	cmd.Flags().IntVarP(&f.poolSize, "pool", "p", 0, "Worker goroutines (overrides scheduler.pool_size)")
	cmd.Flags().IntVarP(&f.maxInFlight, "max-in-flight", "m", 0, "Rows transformed at once (overrides scheduler.max_in_flight)")
	if withStrategy {
		cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "queue, sequential, sectors, or interleaved")
		cmd.Flags().StringVar(&f.renderer, "progress", "", "Progress renderer: auto, percent, bar, log, none")
	}
	cmd.Flags().IntVarP(&f.factor, "factor", "f", 0, "Contrast factor 0-255 (overrides contrast.factor)")
	cmd.Flags().BoolVar(&f.batchPriority, "batch", false, "Run workers under SCHED_BATCH where supported")
	cmd.Flags().BoolVar(&f.mmap, "mmap", false, "Read the input through a memory map")
}

func (f *schedulerFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("pool") {
		cfg.Scheduler.PoolSize = f.poolSize
	}
	if flags.Changed("max-in-flight") {
		cfg.Scheduler.MaxInFlight = f.maxInFlight
	}
	if flags.Changed("strategy") {
		cfg.Scheduler.Strategy = f.strategy
	}
	if flags.Changed("progress") {
		cfg.Monitor.Renderer = f.renderer
	}
	if flags.Changed("factor") {
		cfg.Contrast.Factor = f.factor
	}
	if flags.Changed("batch") {
		cfg.Scheduler.BatchPriority = f.batchPriority
	}
	if flags.Changed("mmap") {
		cfg.Codec.Mmap = f.mmap
	}
	if err := cfg.Normalize(); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "flags", "normalize", "", err)
	}
	if err := cfg.Validate(); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "flags", "validate", "", err)
	}
	return nil
}
