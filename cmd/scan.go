package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/tesh254/tabdown/internal/display"
)

var scanCmd = &cobra.Command{
	Use:   "scan [source]",
	Short: "Lists the tables and lists of a page that can be exported",
	Long: `Lists the tables and lists of a page that can be exported.

The source is an http(s) URL, a path to an HTML file, or - to read HTML from
standard input. Use the index column with "tabdown export --index".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if verbose {
			display.Banner(out, source, a.config)
		}

		var stop func()
		if verbose {
			stop = display.Spinner(os.Stderr, "Scanning")
		}
		res, err := a.api.Scan(cmd.Context(), source)
		if stop != nil {
			stop()
		}
		if res == nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if jerr := enc.Encode(res); jerr != nil {
				return jerr
			}
		} else {
			display.Candidates(out, res)
		}
		// partial results are shown before the failure is reported
		return err
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("json", false, "Print candidates as JSON")
	scanCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
}
