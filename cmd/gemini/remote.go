package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kairi/gemini/internal/client"
	"github.com/Kairi/gemini/internal/config"
	"github.com/Kairi/gemini/internal/server"
)

var errNoAPIKey = errors.New("no API key: pass --api-key or set " + config.KeyAPIKey)

func newRemoteCmd(a *app) *cobra.Command {
	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to a running server",
	}
	remoteCmd.PersistentFlags().String("server", "", "server base URL (default $GEMINI_BASE_URL or http://localhost:3000)")
	remoteCmd.PersistentFlags().String("api-key", "", "Gemini API key (default $"+config.KeyAPIKey+")")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := remoteAPIKey(cmd)
			if err != nil {
				return err
			}
			models, err := a.client().Models(cmd.Context(), key)
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat MESSAGE...",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := remoteAPIKey(cmd)
			if err != nil {
				return err
			}
			model, _ := cmd.Flags().GetString("model")
			resp, err := a.client().Chat(cmd.Context(), server.ChatRequest{
				Message: strings.Join(args, " "),
				Model:   model,
			}, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Gemini (%s): %s\n", resp.Model, resp.Response)
			return nil
		},
	}
	chatCmd.Flags().StringP("model", "m", "", "model id (server default when empty)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the server's configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.client().Config(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API key:     %s\n", cfg.MaskedAPIKey())
			fmt.Fprintf(out, "Model:       %s\n", cfg.SelectedModel)
			fmt.Fprintf(out, "Temperature: %g\n", cfg.Temperature)
			fmt.Fprintf(out, "Max tokens:  %d\n", cfg.MaxTokens)
			return nil
		},
	}

	setKeyCmd := &cobra.Command{
		Use:   "set-key KEY",
		Short: "Store an API key in the server's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().UpdateAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key updated.")
			return nil
		},
	}

	remoteCmd.AddCommand(modelsCmd, chatCmd, configCmd, setKeyCmd)
	return remoteCmd
}

func (a *app) client() *client.Client {
	return client.New(a.settings.ServerURL)
}

func remoteAPIKey(cmd *cobra.Command) (string, error) {
	key, _ := cmd.Flags().GetString("api-key")
	if key == "" {
		key = os.Getenv(config.KeyAPIKey)
	}
	if key == "" {
		return "", errNoAPIKey
	}
	return key, nil
}
