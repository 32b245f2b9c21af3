package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskpulse/backend/internal/config"
	"github.com/taskpulse/backend/internal/infrastructure/db"
	"github.com/taskpulse/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "taskpulse",
		Short:        "Task lifecycle API and deadline reminder scheduler",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to config.yaml")

	root.AddCommand(
		newServeCommand(&configPath),
		newRemindCommand(&configPath),
		newMigrateCommand(&configPath),
		newKeygenCommand(),
		newSealCommand(),
	)
	return root
}

func defaultConfigPath() string {
	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "../config/config.yaml"
	}
	return configPath
}

// deps bundles what every command needs once config is loaded.
type deps struct {
	cfg *config.Config
	log *logger.Logger
	db  *gorm.DB
}

func bootstrap(configPath string) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	database, err := db.NewConnection(cfg.Database)
	if err != nil {
		log.Errorw("database_connect_failed", "driver", cfg.Database.Driver, "error", err)
		return nil, err
	}
	log.Infow("database connection established", "driver", cfg.Database.Driver)

	if err := db.RunMigrations(database); err != nil {
		log.Errorw("database_migrate_failed", "error", err)
		_ = db.Close(database)
		return nil, err
	}
	log.Info("database migrations completed")

	return &deps{cfg: cfg, log: log, db: database}, nil
}

func (d *deps) close() {
	if err := db.Close(d.db); err != nil {
		d.log.Errorf("failed to close database connection: %v", err)
	}
	_ = d.log.Sync()
}
