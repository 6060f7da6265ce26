package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"rowpool/internal/config"
	"rowpool/internal/faults"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags schedulerFlags
	var output string
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Darken an image and write the result",
		Long: `Decode a BMP or PNG image, subtract the contrast factor from every channel
byte across the worker pool, and encode the result. Without --output the
result is written next to the input as <name>_dark<ext>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			if noHistory {
				cfg.History.Enabled = false
			}
			logger, err := ctx.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			input, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return faults.Wrap(faults.ErrConfiguration, "run", "input", "", err)
			}
			target := strings.TrimSpace(output)
			if target == "" {
				target = defaultOutputPath(input)
			} else if target, err = config.ExpandPath(target); err != nil {
				return faults.Wrap(faults.ErrConfiguration, "run", "output", "", err)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := darkenImage(runCtx, cfg, logger, imageJob{input: input, output: target}, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Time taken: %d microseconds\n", res.report.Elapsed.Microseconds())
			fmt.Fprintln(out, renderKeyValues([][2]string{
				{"Run", shortID(res.report.RunID)},
				{"Input", input},
				{"Output", target},
				{"Image", formatGeometry(res.width, res.height)},
				{"Strategy", formatStrategy(string(res.report.Strategy))},
				{"Workers", formatCount(res.report.PoolSize)},
				{"Max in flight", formatCount(res.report.MaxInFlight)},
				{"Peak in flight", formatCount(res.report.PeakInFlight)},
				{"Factor", formatCount(cfg.Contrast.Factor)},
				{"Elapsed", formatMicros(res.report.Elapsed)},
				{"Throughput", formatRate(res.report.RowsPerSecond())},
				{"Recorded", yesNo(res.stored)},
			}))
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image path (.bmp or .png)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run")
	return cmd
}
