package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"boxart/internal/catalog"
	"boxart/internal/catalogindex"
	"boxart/internal/config"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the SQLite catalog index",
	}

	indexCmd.AddCommand(newIndexStatusCommand(ctx))
	indexCmd.AddCommand(newIndexRebuildCommand(ctx))
	indexCmd.AddCommand(newIndexClearCommand(ctx))

	return indexCmd
}

func requireIndexEnabled(cfg *config.Config) error {
	if !cfg.Index.Enabled {
		return fmt.Errorf("catalog index is disabled in the configuration ([index] enabled = false)")
	}
	return nil
}

func newIndexStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index contents and freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requireIndexEnabled(cfg); err != nil {
				return err
			}

			store, err := catalogindex.Open(cfg.IndexPath())
			if err != nil {
				return err
			}
			defer store.Close()

			games, images, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}

			freshness := "unknown (catalog file not found)"
			if src, statErr := catalogindex.StatSource(cfg.Paths.CatalogFile); statErr == nil {
				fresh, err := store.Fresh(cmd.Context(), src)
				if err != nil {
					return err
				}
				if fresh {
					freshness = "fresh"
				} else {
					freshness = "stale (rebuilds on next load)"
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				[][]string{
					{"Database", store.Path()},
					{"Games", strconv.Itoa(games)},
					{"Images", strconv.Itoa(images)},
					{"Freshness", freshness},
				},
				nil,
			))
			return nil
		},
	}
}

func newIndexRebuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the index from the catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requireIndexEnabled(cfg); err != nil {
				return err
			}

			src, err := catalogindex.StatSource(cfg.Paths.CatalogFile)
			if err != nil {
				return err
			}

			cat, err := catalog.Parse(cfg.Paths.CatalogFile, ctx.ensureLogger())
			if err != nil {
				return err
			}

			store, err := catalogindex.Open(cfg.IndexPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Rebuild(cmd.Context(), cat, src); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d games and %d images from %s\n",
				cat.GameCount(), cat.ImageCount(), cfg.Paths.CatalogFile)
			return nil
		},
	}
}

func newIndexClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all indexed rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requireIndexEnabled(cfg); err != nil {
				return err
			}

			store, err := catalogindex.Open(cfg.IndexPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog index cleared")
			return nil
		},
	}
}
