/**
 * CONTEXT:   The `init-db` command - provisions a fresh SQLite database for the engine
 * INPUT:     A target database path
 * OUTPUT:    An empty, schema-migrated SQLite database ready to receive runs
 * BUSINESS:  Operators stand up a new database before their first scheduling run
 * CHANGE:    Initial implementation
 * RISK:      Low - delegates entirely to sqlite.NewSQLiteDB's embedded migration
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/gmbp/scheduler/internal/database/sqlite"
)

var initDBPath string

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create and migrate a fresh scheduler database",
	RunE:  executeInitDB,
}

func init() {
	initDBCmd.Flags().StringVar(&initDBPath, "db", "scheduler.db", "path to the database file to create")
}

func executeInitDB(cmd *cobra.Command, args []string) error {
	db, err := sqlite.NewSQLiteDB(sqlite.DefaultConnectionConfig(initDBPath))
	if err != nil {
		return err
	}
	defer db.Close()

	successColor.Printf("Initialized scheduler database at %s\n", initDBPath)
	return nil
}
