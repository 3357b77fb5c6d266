package main

import (
	"fmt"

	"globalupi/config"
	pgStorage "globalupi/internal/adapter/storage/postgres"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

func migrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the PostgreSQL schema",
	}
	cmd.AddCommand(migrateDirectionCommand(a, "up", "Apply pending migrations", migrate.Up))
	cmd.AddCommand(migrateDirectionCommand(a, "down", "Roll back applied migrations", migrate.Down))
	return cmd
}

func migrateDirectionCommand(a *app, use, short string, dir migrate.MigrationDirection) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Storage.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations need storage.driver=%s, got %q", config.DriverPostgres, a.cfg.Storage.Driver)
			}
			pool, err := pgStorage.NewPool(cmd.Context(), a.cfg.Database, a.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := pgStorage.Migrate(pool, dir, steps)
			if err != nil {
				return err
			}
			a.log.Info().Str("direction", use).Int("count", n).Msg("migrations done")
			return nil
		},
	}
	limitHelp := "number of migrations to apply (0 = all)"
	if dir == migrate.Down {
		limitHelp = "number of migrations to roll back (0 = all)"
	}
	cmd.Flags().IntVar(&steps, "steps", 0, limitHelp)
	return cmd
}
