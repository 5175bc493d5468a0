package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page [source]",
	Short: "Converts the main content of a page to Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		md, err := a.api.Page(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if output == "" {
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		}
		if err := os.WriteFile(output, []byte(md+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Page written to %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.Flags().StringP("output", "o", "", "Write the Markdown to a file instead of stdout")
}
