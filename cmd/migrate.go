package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/careerquest/internal/logger"
	"github.com/spigell/careerquest/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Run: func(_ *cobra.Command, _ []string) {
		migrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || strings.TrimSpace(config.DatabaseURL) == "" {
		logger.Fatal("database url is required",
			zap.String("hint", "set CAREERQUEST_DATABASE_URL or database-url in the configuration file"),
		)
	}

	db, err := storage.Connect(ctx, config.DatabaseURL, config.Database)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		logger.Fatal("applying migrations", zap.Error(err))
	}

	current, err := storage.MigrationVersion(ctx, db)
	if err != nil {
		logger.Fatal("reading schema version", zap.Error(err))
	}

	logger.Info("migrations applied", zap.Int64("version", current))
}
