package main

import (
	"github.com/2beens/hoosfit/internal/db"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Create every HoosFit table and index that does not exist yet.

Safe to run repeatedly, existing tables and data are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Migrate(cmd.Context(), dbPool); err != nil {
			return err
		}
		color.Green("schema applied to %s", cfg.PostgresDBName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
