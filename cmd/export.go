package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/tabdown/internal/deliver"
	"github.com/tesh254/tabdown/internal/display"
	"github.com/tesh254/tabdown/internal/report"
)

var exportCmd = &cobra.Command{
	Use:   "export [source]",
	Short: "Exports tables and lists of a page as Markdown files",
	Long: `Exports tables and lists of a page as Markdown files.

Pick candidates by the index shown by "tabdown scan", or export all of them with
--all. Files are written to --output-dir and recorded in the archive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		indexes, _ := cmd.Flags().GetIntSlice("index")
		all, _ := cmd.Flags().GetBool("all")
		stdout, _ := cmd.Flags().GetBool("stdout")
		verbose, _ := cmd.Flags().GetBool("verbose")

		if len(indexes) == 0 && !all {
			return errors.New(`choose candidates with --index or export everything with --all (see "tabdown scan")`)
		}
		if all {
			indexes = nil
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if verbose {
			display.Banner(out, source, a.config)
		}

		res, err := a.api.Scan(cmd.Context(), source)
		if res == nil {
			return err
		}
		if err != nil {
			// keep going with the candidates found before the failure
			report.Notify(os.Stderr, a.log, err)
		}

		var d deliver.Deliverer = &deliver.Dir{
			Path:      viper.GetString("output-dir"),
			Overwrite: viper.GetBool("overwrite"),
		}
		if stdout {
			d = deliver.Writer{W: out}
		}

		exports := a.api.Export(cmd.Context(), res, indexes, d)
		if !stdout {
			display.Exports(out, exports)
		}

		failed := 0
		for _, e := range exports {
			if e.Err != nil {
				report.Notify(os.Stderr, a.log, e.Err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d exports failed", failed, len(exports))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntSliceP("index", "i", nil, "Candidate index to export (repeatable)")
	exportCmd.Flags().Bool("all", false, "Export every candidate")
	exportCmd.Flags().Bool("stdout", false, "Print the Markdown instead of writing files")
	exportCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
}
