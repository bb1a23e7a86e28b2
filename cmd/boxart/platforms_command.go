package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlatformsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the platforms in the metadata catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cat, err := loadCatalog(cmd.Context(), cfg, ctx.ensureLogger())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cat.Platforms()))
			for _, platform := range cat.Platforms() {
				games := cat.GamesForPlatform(platform)
				images := 0
				for _, game := range games {
					images += len(cat.ImagesForGame(game.DatabaseID))
				}
				rows = append(rows, []string{
					platform,
					strconv.Itoa(len(games)),
					strconv.Itoa(images),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Platform", "Games", "Images"}, rows, []int{2, 3}))
			return nil
		},
	}
}
