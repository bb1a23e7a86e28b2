package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"boxart/internal/selection"
)

func newGamesCommand(ctx *commandContext) *cobra.Command {
	var platforms []string
	var all bool
	var search string
	var limit int

	cmd := &cobra.Command{
		Use:   "games",
		Short: "List or search the games on the selected platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cmd.Context(), cfg, ctx.ensureLogger())
			if err != nil {
				return err
			}

			games, err := selection.Resolve(cat, selection.Options{
				Platforms: platforms,
				All:       all,
			})
			if err != nil {
				if errors.Is(err, selection.ErrNoneSelected) {
					return fmt.Errorf("select platforms with --platform or --all")
				}
				return err
			}

			out := cmd.OutOrStdout()

			if search != "" {
				matches := selection.SearchGames(games, search, limit)
				if len(matches) == 0 {
					fmt.Fprintf(out, "No games matching %q on the selected platforms.\n", search)
					return nil
				}
				rows := make([][]string, 0, len(matches))
				for _, m := range matches {
					rows = append(rows, []string{
						m.Game.DatabaseID,
						m.Game.Name,
						m.Game.Platform,
						fmt.Sprintf("%.2f", m.Score),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Platform", "Score"}, rows, []int{1, 4}))
				return nil
			}

			rows := make([][]string, 0, len(games))
			for _, game := range games {
				rows = append(rows, []string{
					game.DatabaseID,
					game.Name,
					game.Platform,
					strconv.Itoa(len(cat.ImagesForGame(game.DatabaseID))),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Platform", "Images"}, rows, []int{1, 4}))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&platforms, "platform", "p", nil, "Platform to list (repeatable)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every platform in the catalog")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Fuzzy title query")
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum search matches to show")
	return cmd
}
