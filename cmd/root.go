package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/tabdown/internal/report"
	"github.com/tesh254/tabdown/internal/version"
)

var cfgFile string

const ascii = `
 _        _         _
| |_ __ _| |__   __| | _____      ___ __
| __/ _' | '_ \ / _' |/ _ \ \ /\ / / '_ \
| || (_| | |_) | (_| | (_) \ V  V /| | | |
 \__\__,_|_.__/ \__,_|\___/ \_/\_/ |_| |_|
`

var rootCmd = &cobra.Command{
	Use:     "tabdown",
	Aliases: []string{"td"},
	Short:   "tabdown exports the tables and lists of a web page as Markdown.",
	Long: `tabdown loads a web page, a local HTML file or HTML from stdin, finds every
table and list worth exporting and converts each one into a Markdown file named
after its nearest heading and the page title.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().NFlag() == 0 && len(args) == 0 {
			fmt.Print(ascii)
			fmt.Printf("\n%s\n\n", version.GetVersionWithCommit())
			return cmd.Help()
		}
		return nil
	},
}

// Version command with multiple output formats
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show version information for tabdown.

This command displays version information extracted automatically from
the Go build system, including Git commit, build date, and more.`,
	Run: func(cmd *cobra.Command, args []string) {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		shortFlag, _ := cmd.Flags().GetBool("short")
		commitFlag, _ := cmd.Flags().GetBool("commit")

		out := cmd.OutOrStdout()
		switch {
		case jsonFlag:
			fmt.Fprintln(out, version.GetJSONVersion())
		case shortFlag:
			fmt.Fprintln(out, version.GetShortVersion())
		case commitFlag:
			fmt.Fprintln(out, version.GetVersionWithCommit())
		default:
			fmt.Fprintln(out, version.GetDetailedVersion())

			if version.IsDevelopment() {
				fmt.Fprintf(out, "\n%sNote:%s This is a development build.\n", "\033[33m", "\033[0m")
			}
		}
	},
}

// Build info command for detailed build information
var buildInfoCmd = &cobra.Command{
	Use:   "buildinfo",
	Short: "Show detailed build information",
	Long:  `Show comprehensive build information including module details, VCS info, and build settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetBuildInfo()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Build Information:\n")
		fmt.Fprintf(out, "==================\n")
		fmt.Fprintf(out, "Version:      %s\n", info.Version)
		fmt.Fprintf(out, "Git Commit:   %s\n", info.GitCommit)
		fmt.Fprintf(out, "Build Date:   %s\n", info.BuildDate)
		fmt.Fprintf(out, "Go Version:   %s\n", info.GoVersion)
		fmt.Fprintf(out, "Platform:     %s\n", info.Platform)
		fmt.Fprintf(out, "Compiler:     %s\n", info.Compiler)
		fmt.Fprintf(out, "Modified:     %t\n", info.IsModified)
		if info.ModulePath != "" {
			fmt.Fprintf(out, "Module Path:  %s\n", info.ModulePath)
		}
		if info.ModuleSum != "" {
			fmt.Fprintf(out, "Module Sum:   %s\n", info.ModuleSum)
		}

		fmt.Fprintf(out, "\nBuild Type:   ")
		if version.IsRelease() {
			fmt.Fprintf(out, "%sRelease%s\n", "\033[32m", "\033[0m")
		} else {
			fmt.Fprintf(out, "%sDevelopment%s\n", "\033[33m", "\033[0m")
		}
	},
}

// Execute runs the root command. Failures are shown as an error notification.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		report.Notify(os.Stderr, newLogger(), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tabdown/config.yaml)")
	flags.String("output-dir", ".", "Directory exported Markdown files are written to")
	flags.Bool("overwrite", false, "Replace existing files instead of adding a numbered suffix")
	flags.String("archive", filepath.Join(home, ".tabdown_data", "archive.db"), "Path to the export archive, empty to disable")
	flags.String("user-agent", "Mozilla/5.0 (compatible; tabdown/1.0)", "User-Agent sent when fetching pages")
	flags.Duration("timeout", 0, "Timeout for each HTTP request (default 10s)")
	flags.Bool("frames", true, "Load the documents of iframes")
	flags.String("log-level", "warn", "Diagnostic log level (debug, info, warn, error)")

	for _, key := range []string{"output-dir", "overwrite", "archive", "user-agent", "timeout", "frames", "log-level"} {
		viper.BindPFlag(key, flags.Lookup(key))
	}

	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
	versionCmd.Flags().BoolP("short", "s", false, "Output short version only")
	versionCmd.Flags().BoolP("commit", "c", false, "Output version with commit hash")
	rootCmd.AddCommand(buildInfoCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		configPath := filepath.Join(home, ".tabdown")
		viper.AddConfigPath(configPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Create config file if it doesn't exist
		if err := os.MkdirAll(configPath, os.ModePerm); err != nil {
			fmt.Println("Error creating config directory:", err)
			os.Exit(1)
		}
		configFile := filepath.Join(configPath, "config.yaml")
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := viper.SafeWriteConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileAlreadyExistsError); !ok {
					fmt.Println("Error writing config file:", err)
					os.Exit(1)
				}
			}
		}
	}

	viper.SetEnvPrefix("TABDOWN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		newLogger().Debug("using config file", "path", viper.ConfigFileUsed())
	}
}
