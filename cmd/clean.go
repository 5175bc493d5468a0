package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Deletes all exports from the archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		if !yes {
			reader := bufio.NewReader(cmd.InOrStdin())
			fmt.Fprintln(out, "\033[31mWARNING: This will delete every archived export and is not recoverable.\033[0m")
			fmt.Fprint(out, "Are you sure you want to continue? (yes/no): ")

			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			if strings.TrimSpace(strings.ToLower(response)) != "yes" {
				fmt.Fprintln(out, "Clean operation cancelled.")
				return nil
			}
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.api.Clean(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Archive cleaned successfully, %d exports removed.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
