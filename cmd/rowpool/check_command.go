package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rowpool/internal/config"
	"rowpool/internal/faults"
	"rowpool/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "check [input]",
		Short: "Verify paths a run would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var req preflight.Request
			if len(args) == 1 {
				if req.Input, err = config.ExpandPath(strings.TrimSpace(args[0])); err != nil {
					return faults.Wrap(faults.ErrConfiguration, "check", "input", "", err)
				}
				req.Output = defaultOutputPath(req.Input)
			}
			if strings.TrimSpace(output) != "" {
				if req.Output, err = config.ExpandPath(strings.TrimSpace(output)); err != nil {
					return faults.Wrap(faults.ErrConfiguration, "check", "output", "", err)
				}
			}

			results := preflight.RunAll(cfg, req)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{header: "Check"},
				{header: "Status"},
				{header: "Detail"},
			}, rows))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return preflightError(failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image path to check")
	return cmd
}
