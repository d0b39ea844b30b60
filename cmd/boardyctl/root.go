package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/boardy-hostel/boardy-api/internal/config"
	"github.com/boardy-hostel/boardy-api/internal/db"
	"github.com/boardy-hostel/boardy-api/internal/logger"
)

type rootOptions struct {
	configPath string
	sqlitePath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "boardyctl",
		Short:        "Maintenance commands for the Boardy API database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init("cli"); err != nil {
				return fmt.Errorf("logger.Init -> %w", err)
			}
			logger.SetLevel(opts.logLevel)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "./cmd/app/config.yml", "path of the API config file")
	flags.StringVar(&opts.sqlitePath, "sqlite", "", "use this SQLite file instead of postgres")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newGamesCmd(opts),
		newCreateAdminCmd(opts),
		newVersionCmd(opts),
	)

	return cmd
}

// openDB picks SQLite when --sqlite is set, then DATABASE_URL, then the
// postgres section of the config file.
func (o *rootOptions) openDB() (*gorm.DB, error) {
	if o.sqlitePath != "" {
		return db.OpenSQLite(o.sqlitePath)
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	conf, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load -> %w", err)
	}
	return db.OpenPostgres(conf.Postgres)
}

// environment is the configured label, or "cli" when no config can be read.
func (o *rootOptions) environment() string {
	conf, err := config.Load(o.configPath)
	if err != nil {
		return "cli"
	}
	return conf.API.Environment
}
