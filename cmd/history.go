package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tesh254/tabdown/internal/display"
)

var historyCmd = &cobra.Command{
	Use:     "history [id]",
	Aliases: []string{"list"},
	Short:   "Lists archived exports, or prints one of them",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			e, err := a.api.Entry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(out, e.Content)
			return nil
		}

		entries, err := a.api.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		display.History(out, entries)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of exports to list, 0 for all")
}
