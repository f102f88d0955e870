package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("unexpected panic")
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "gemini",
		Short:        "Chat with Google Gemini models from the terminal",
		Long:         "Runs an interactive chat console by default. Use 'serve' for the HTTP API and 'remote' to talk to a running server.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.runConsole,
	}
	rootCmd.PersistentFlags().String("config", "", "configuration file (default $GEMINI_CONFIG_FILE or .env)")
	rootCmd.PersistentFlags().String("backend", "", "configuration backend: file, bolt or memory")
	rootCmd.PersistentFlags().Bool("adc", false, "authenticate with Application Default Credentials")
	rootCmd.PersistentFlags().String("log-level", "", "log level (default $LOG_LEVEL or info)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	serveCmd.Flags().StringP("port", "p", "", "port to listen on (default $PORT or 3000)")
	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(newRemoteCmd(a))

	return rootCmd
}
