package main

import (
	"fmt"
	"os"

	"github.com/minmind/minmind/internal/config"
	"github.com/minmind/minmind/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// store bundles what every command needs: the loaded config, an open
// database handle, and the resolved database path.
type store struct {
	cfg  *config.Config
	db   *gorm.DB
	path string
}

// storeFlags registers the config and database flags shared by all
// data-touching commands.
func storeFlags(cmd *cobra.Command, configPath, database *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", config.DefaultPath(), "path to MinMind config file")
	cmd.Flags().StringVar(database, "database", "", "path to database file (overrides config and MINMIND_DB)")
}

// openStore loads config, opens the SQLite database, and runs
// migrations. Precedence for the database path: --database flag, then
// the MINMIND_DB environment variable, then the config file.
func openStore(configPath, databaseOverride string) (*store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	path := cfg.Database
	if env := os.Getenv("MINMIND_DB"); env != "" {
		path = env
	}
	if databaseOverride != "" {
		path = databaseOverride
	}
	path = config.ExpandPath(path)

	gdb, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate database %s: %w", path, err)
	}
	return &store{cfg: cfg, db: gdb, path: path}, nil
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance commands",
	}

	cmd.AddCommand(newDBMigrateCmd())
	cmd.AddCommand(newDBPathCmd())
	return cmd
}

func newDBMigrateCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", s.path)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}

func newDBPathCmd() *cobra.Command {
	var (
		configPath string
		database   string
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the resolved database path",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(configPath, database)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.path)
			return nil
		},
	}

	storeFlags(cmd, &configPath, &database)
	return cmd
}
