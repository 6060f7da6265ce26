package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rowpool/internal/config"
	"rowpool/internal/faults"
	"rowpool/internal/imagecodec"
	"rowpool/internal/pixbuf"
	"rowpool/internal/scheduler"
)

type benchRow struct {
	strategy  scheduler.Strategy
	best      scheduler.Report
	identical bool
}

func newBenchCommand(ctx *commandContext) *cobra.Command {
	var flags schedulerFlags
	var repeat int

	cmd := &cobra.Command{
		Use:   "bench <input>",
		Short: "Time every scheduling strategy on one image",
		Long: `Decode the input once, then run each strategy on a fresh copy and report
the best elapsed time of --repeat runs. Every strategy must produce the same
bytes; a mismatch fails the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if repeat < 1 {
				return faults.Wrap(faults.ErrConfiguration, "bench", "repeat", "must be at least 1", nil)
			}
			logger, err := ctx.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			input, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return faults.Wrap(faults.ErrConfiguration, "bench", "input", "", err)
			}
			source, _, err := imagecodec.DecodeFile(input, imagecodec.Options{Mmap: cfg.Codec.Mmap})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var reference *pixbuf.Buffer
			results := make([]benchRow, 0, len(scheduler.Strategies))
			for _, strategy := range scheduler.Strategies {
				row := benchRow{strategy: strategy}
				for i := 0; i < repeat; i++ {
					buf := source.Clone()
					stratCfg := *cfg
					stratCfg.Scheduler.Strategy = string(strategy)
					report, err := schedule(runCtx, &stratCfg, logger, buf, nil, "")
					if err != nil {
						return err
					}
					if i == 0 {
						if reference == nil {
							reference = buf
						}
						row.identical = buf.Equal(reference)
					}
					if i == 0 || report.Elapsed < row.best.Elapsed {
						row.best = report
					}
				}
				results = append(results, row)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, %s rows, best of %d\n", input, formatCount(source.Height), repeat)
			fmt.Fprintln(out, renderBench(results))

			for _, r := range results {
				if !r.identical {
					return faults.Wrap(faults.ErrInvariant, "bench", "compare",
						fmt.Sprintf("strategy %s produced different output", r.strategy), nil)
				}
			}
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().IntVarP(&repeat, "repeat", "n", 3, "Runs per strategy; the fastest is reported")
	return cmd
}

func renderBench(results []benchRow) string {
	var fastest time.Duration
	for i, r := range results {
		if i == 0 || r.best.Elapsed < fastest {
			fastest = r.best.Elapsed
		}
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		output := "identical"
		if !r.identical {
			output = "DIFFERS"
		}
		relative := "-"
		if fastest > 0 {
			relative = fmt.Sprintf("%.2fx", float64(r.best.Elapsed)/float64(fastest))
		}
		rows = append(rows, []string{
			formatStrategy(string(r.strategy)),
			formatCount(r.best.Workers),
			formatCount(r.best.MaxInFlight),
			formatCount(r.best.PeakInFlight),
			formatMicros(r.best.Elapsed),
			relative,
			formatRate(r.best.RowsPerSecond()),
			output,
		})
	}
	return renderTable([]tableColumn{
		{header: "Strategy"},
		{header: "Workers", align: alignRight},
		{header: "Cap", align: alignRight},
		{header: "Peak", align: alignRight},
		{header: "Elapsed", align: alignRight},
		{header: "Relative", align: alignRight},
		{header: "Throughput", align: alignRight},
		{header: "Output"},
	}, rows)
}
