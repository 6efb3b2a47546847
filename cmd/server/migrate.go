package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nationbuilder/nationbuilder/internal/db"
	"github.com/nationbuilder/nationbuilder/internal/services"
)

var (
	migrationsDir string
	purgeExpired  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and optionally purge expired temporary nations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "read migrations from this directory instead of the embedded set")
	migrateCmd.Flags().BoolVar(&purgeExpired, "purge-expired", false, "delete temporary nations whose TTL has elapsed")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if cfg.Database.Driver == "memory" {
		return errors.New("migrate needs a SQL database driver")
	}
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	applied, err := db.RunMigrations(conn, migrationsDir)
	if err != nil {
		return errors.Wrap(err, "run migrations")
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	}
	for _, name := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
	}

	if purgeExpired {
		store := db.NewSQLStore(conn, logger)
		nations := services.NewNationService(store, nil, services.WithNationLogger(logger))
		removed, err := nations.PurgeExpired(time.Now().UTC())
		if err != nil {
			return errors.Wrap(err, "purge expired nations")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired nations\n", removed)
	}
	return nil
}
