// migrate applies the embedded schema to DATABASE_URL.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nss-bloodbank/backend/internal/config"
	"nss-bloodbank/backend/internal/db/migrate"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply or roll back the blood bank schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runDirection(migrate.Up),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every applied migration",
	RunE:  runDirection(migrate.Down),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dsn, err := databaseURL()
		if err != nil {
			return err
		}
		v, dirty, err := migrate.Version(dsn)
		if err != nil {
			return err
		}
		if dirty {
			fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", v)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func runDirection(direction string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		dsn, err := databaseURL()
		if err != nil {
			return err
		}
		if err := migrate.Run(dsn, direction); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", direction)
		return nil
	}
}

func databaseURL() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	return cfg.DatabaseURL, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
