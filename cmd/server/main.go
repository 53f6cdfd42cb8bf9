package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pokemon-map/internal/shared/config"
	"pokemon-map/internal/shared/database"
	"pokemon-map/internal/shared/i18n"
	"pokemon-map/internal/shared/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pokemon-map",
	Short: "Map of Pokémon sightings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}
		logger.Init()

		if !i18n.SetDefault(config.GlobalConfig.I18n.DefaultLanguage) {
			slog.Warn("Unsupported default language, keeping built-in default",
				"component", "main",
				"language", config.GlobalConfig.I18n.DefaultLanguage,
				"default", i18n.Default().String(),
			)
		}
		return nil
	},
	// Running the binary without a subcommand serves the site
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase connects and applies pending migrations.
func openDatabase(ctx context.Context) (*database.DB, error) {
	logger := slog.With("component", "main", "operation", "open_database")

	db, err := database.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := db.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
