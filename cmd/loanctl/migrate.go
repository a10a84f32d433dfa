package main

import (
	"fmt"
	"loan-eligibility/internal/infrastructure/database/postgres"

	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().String("source", "", "migration source URL (default: database.migrationsPath)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := postgres.RunMigrations(a.cfg.Database.URL, a.source(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if err := postgres.RollbackMigrations(a.cfg.Database.URL, a.source(cmd), steps); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations reverted.")
			return nil
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to revert, 0 reverts all")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, dirty, err := postgres.MigrationVersion(a.cfg.Database.URL, a.source(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func (a *app) source(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("source"); s != "" {
		return s
	}
	return a.cfg.Database.MigrationsPath
}
