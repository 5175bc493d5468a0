package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tesh254/tabdown/internal/display"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Lists every page in the archive with its number of exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		sources, err := a.api.Sources(cmd.Context())
		if err != nil {
			return err
		}
		display.Sources(cmd.OutOrStdout(), sources)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
