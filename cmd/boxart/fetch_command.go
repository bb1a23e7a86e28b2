package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"boxart/internal/fetch"
	"boxart/internal/runlock"
	"boxart/internal/selection"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var platforms []string
	var all bool
	var game string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download artwork for the selected platforms",
		Long: `Download every image referenced by the metadata catalog for the
selected platforms into the output directory, skipping files that already
exist. Failures are reported at the end without aborting the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			lock, err := runlock.Acquire(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			defer lock.Release()

			cat, err := loadCatalog(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			games, err := selection.Resolve(cat, selection.Options{
				Platforms: platforms,
				All:       all,
				GameQuery: game,
			})
			if err != nil {
				if errors.Is(err, selection.ErrNoneSelected) {
					return fmt.Errorf("select platforms with --platform or --all")
				}
				return err
			}

			out := cmd.OutOrStdout()
			engine := fetch.NewEngine(cfg, logger, out)
			summary, err := engine.Run(cmd.Context(), engine.BuildTasks(cat, games))
			if err != nil {
				return err
			}

			if len(summary.Failures) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderFailures(summary.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&platforms, "platform", "p", nil, "Platform to fetch (repeatable)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Fetch every platform in the catalog")
	cmd.Flags().StringVarP(&game, "game", "g", "", "Narrow the run to the best-matching game title")
	return cmd
}

func renderFailures(failures []fetch.Result) string {
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.Task.GameName, f.Task.Type, f.URL, f.Err.Error()})
	}
	return renderTable([]string{"Game", "Type", "URL", "Error"}, rows, nil)
}
