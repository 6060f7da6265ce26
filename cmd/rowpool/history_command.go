package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rowpool/internal/faults"
	"rowpool/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func withHistoryStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return faults.Wrap(faults.ErrResource, "history", "open", cfg.Paths.HistoryDB, err)
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return faults.Wrap(faults.ErrResource, "history", "list", "", err)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						formatTimestamp(run.CreatedAt),
						formatStrategy(run.Strategy),
						formatCount(run.PoolSize),
						formatCount(run.MaxInFlight),
						formatGeometry(run.Width, run.Height),
						formatMicros(run.Elapsed),
						run.OutputPath,
					})
				}
				fmt.Fprintln(out, renderTable([]tableColumn{
					{header: "Run"},
					{header: "Finished"},
					{header: "Strategy"},
					{header: "Workers", align: alignRight},
					{header: "Cap", align: alignRight},
					{header: "Image", align: alignRight},
					{header: "Elapsed", align: alignRight},
					{header: "Output"},
				}, rows))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run; any unique id prefix works",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, history.ErrNotFound) {
						return faults.Wrap(faults.ErrResource, "history", "show", "", err)
					}
					return faults.Wrap(faults.ErrConfiguration, "history", "show", "", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues([][2]string{
					{"Run", run.ID},
					{"Finished", formatTimestamp(run.CreatedAt)},
					{"Input", run.InputPath},
					{"Output", run.OutputPath},
					{"Image", formatGeometry(run.Width, run.Height)},
					{"Strategy", formatStrategy(run.Strategy)},
					{"Workers", formatCount(run.PoolSize)},
					{"Max in flight", formatCount(run.MaxInFlight)},
					{"Peak in flight", formatCount(run.PeakInFlight)},
					{"Factor", formatCount(run.Factor)},
					{"Elapsed", formatMicros(run.Elapsed)},
				}))
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return faults.Wrap(faults.ErrResource, "history", "clear", "", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s runs\n", formatCount(int(removed)))
				return nil
			})
		},
	}
}
