package cmd

import (
	"context"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

const migrationsTable = "schema_migrations"

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply, roll back or inspect the goose migrations of the gearguard schema",
	}
	migrateRollback bool
	migrateStatus   bool
	migrateTarget   int64
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "roll back the latest applied migration")
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "print which migrations are applied and exit")
	migrateCmd.Flags().Int64Var(&migrateTarget, "to", 0, "migrate up to this version instead of the latest")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

// gooseCommand maps the flags onto a goose command and its arguments.
func gooseCommand() (string, []string) {
	switch {
	case migrateStatus:
		return "status", nil
	case migrateRollback:
		return "down", nil
	case migrateTarget > 0:
		return "up-to", []string{strconv.FormatInt(migrateTarget, 10)}
	default:
		return "up", nil
	}
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	// the sqlite schema comes from the row models, not from goose files
	if cfg.Database.DriverName() == "sqlite" {
		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		cmd.Println("sqlite schema is up to date")
		return sqlDB.Close()
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: open database: %w", err)
	}
	defer db.Close()
	goose.SetTableName(migrationsTable)

	command, args := gooseCommand()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := goose.RunContext(ctx, command, db, migrateDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
