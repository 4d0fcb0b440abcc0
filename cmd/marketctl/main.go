package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/router-for-me/ModelMarket/internal/app"
	"github.com/router-for-me/ModelMarket/internal/config"
	"github.com/router-for-me/ModelMarket/internal/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marketctl",
		Short: "Model Market CLI - browse, upload, and moderate marketplace models",
		Long: `marketctl talks to the Model Market backend using the same session store as the console.

Examples:
  marketctl init --api-base-url https://market.example.com
  marketctl login --email me@example.com
  marketctl models list --category vision --limit 20
  marketctl admin set-status 665f1c rejected --reason "missing license"`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logging.ApplyLevel(verbose)
		},
	}

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newAdminCmd())

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (or env CONFIG_PATH)")
	return rootCmd
}

// configPath resolves the --config flag, falling back to CONFIG_PATH.
func configPath(cmd *cobra.Command) (string, error) {
	flagPath, _ := cmd.Flags().GetString("config")
	if strings.TrimSpace(flagPath) != "" {
		return config.ResolveConfigPath(flagPath), nil
	}
	appCfg, err := config.LoadFromEnv()
	if err != nil {
		return "", err
	}
	return config.ResolveConfigPath(appCfg.ConfigPath), nil
}

// withServices opens the shared services for the duration of fn.
func withServices(cmd *cobra.Command, fn func(*app.Services) error) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	services, err := app.OpenServices(path, app.ServiceOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = services.Close() }()
	return fn(services)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
