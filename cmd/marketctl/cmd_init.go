package main

import (
	"github.com/router-for-me/ModelMarket/internal/app"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long:  `Validate the backend address and session database, then write a config file with a fresh session secret.`,
		RunE:  runInit,
	}
	cmd.Flags().String("api-base-url", "", "Backend base URL (required)")
	cmd.Flags().String("db-type", "sqlite", "Session database: sqlite or postgres")
	cmd.Flags().String("db-path", "", "SQLite file path")
	cmd.Flags().String("db-host", "", "Postgres host")
	cmd.Flags().Int("db-port", 5432, "Postgres port")
	cmd.Flags().String("db-user", "", "Postgres user")
	cmd.Flags().String("db-password", "", "Postgres password")
	cmd.Flags().String("db-name", "", "Postgres database name")
	cmd.Flags().String("db-sslmode", "disable", "Postgres sslmode")
	cmd.Flags().Int("port", 0, "Console port")
	_ = cmd.MarkFlagRequired("api-base-url")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	req := app.InitRequest{}
	req.APIBaseURL, _ = flags.GetString("api-base-url")
	req.DatabaseType, _ = flags.GetString("db-type")
	req.DatabasePath, _ = flags.GetString("db-path")
	req.DatabaseHost, _ = flags.GetString("db-host")
	req.DatabasePort, _ = flags.GetInt("db-port")
	req.DatabaseUser, _ = flags.GetString("db-user")
	req.DatabasePassword, _ = flags.GetString("db-password")
	req.DatabaseName, _ = flags.GetString("db-name")
	req.DatabaseSSLMode, _ = flags.GetString("db-sslmode")
	req.ConsolePort, _ = flags.GetInt("port")

	dsn, err := app.InitConfig(path, req)
	if err != nil {
		return err
	}
	info, err := app.DescribeSessionStore(dsn)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"config":        path,
		"session_store": info,
	})
}
