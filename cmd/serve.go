package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/tabdown/internal/core"
	"github.com/tesh254/tabdown/internal/version"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Starts the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		transport := viper.GetString("transport")
		httpAddress := ""
		if transport == "http" {
			httpAddress = viper.GetString("http-address")
		}

		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.log.Info("starting MCP server", "transport", transport)
		return core.New(a.api, a.log, version.GetVersion()).StartServer(ctx, httpAddress)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("http-address", "localhost:9014", "HTTP address to listen on")
	serveCmd.Flags().String("transport", "stdio", "Transport type (stdio or http)")
	viper.BindPFlag("http-address", serveCmd.Flags().Lookup("http-address"))
	viper.BindPFlag("transport", serveCmd.Flags().Lookup("transport"))
}
