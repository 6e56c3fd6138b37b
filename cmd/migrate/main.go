package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MrJorgx/PracticasExt/internal/infrastructure/config"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/logger"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

type cli struct {
	migrationsPath string
	logLevel       string
	log            *zap.Logger
}

func main() {
	c := &cli{}
	root := c.rootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the ledger PostgreSQL schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(&logger.Config{
				Level:      c.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.log = log

			path, err := resolveMigrationsPath(c.migrationsPath)
			if err != nil {
				return err
			}
			c.migrationsPath = path
			log.Info("Migration CLI started",
				zap.String("command", cmd.Name()),
				zap.String("migrations_path", path),
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  c.withMigrator(func(m *migration.Migrator, _ []string) error { return m.Up() }),
		},
		&cobra.Command{
			Use:   "down [N]",
			Short: "Roll back N migrations, or all of them",
			Args:  cobra.MaximumNArgs(1),
			RunE: c.withMigrator(func(m *migration.Migrator, args []string) error {
				if len(args) == 0 {
					return m.Down()
				}
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(-n)
			}),
		},
		&cobra.Command{
			Use:   "steps N",
			Short: "Apply N migrations (negative N rolls back)",
			Args:  cobra.ExactArgs(1),
			RunE: c.withMigrator(func(m *migration.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q: %w", args[0], err)
				}
				return m.Steps(n)
			}),
		},
		&cobra.Command{
			Use:   "goto VERSION",
			Short: "Migrate up or down to VERSION",
			Args:  cobra.ExactArgs(1),
			RunE: c.withMigrator(func(m *migration.Migrator, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return m.GoTo(uint(version))
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: c.withMigrator(func(m *migration.Migrator, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				c.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: c.withMigrator(func(m *migration.Migrator, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return m.Force(version)
			}),
		},
		c.dropCommand(),
		&cobra.Command{
			Use:   "create NAME [DESCRIPTION]",
			Short: "Create an empty up/down migration pair",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				description := ""
				if len(args) > 1 {
					description = args[1]
				}
				mf, err := migration.CreateMigration(c.migrationsPath, args[0], description)
				if err != nil {
					return err
				}
				c.log.Info("Migration created successfully",
					zap.String("version", mf.Version),
					zap.String("up_file", mf.UpPath),
					zap.String("down_file", mf.DownPath),
				)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List migration files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				names, err := migration.ListMigrations(c.migrationsPath)
				if err != nil {
					return err
				}
				c.log.Info("Available migrations", zap.Int("count", len(names)))
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), "  -", name)
				}
				return nil
			},
		},
	)
	return root
}

func (c *cli) dropCommand() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every table, ledger data included",
		Args:  cobra.NoArgs,
		RunE: c.withMigrator(func(m *migration.Migrator, _ []string) error {
			if !confirm {
				return fmt.Errorf("drop deletes all data; rerun with --yes to confirm")
			}
			return m.Drop()
		}),
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm dropping the database")
	return cmd
}

// withMigrator opens the configured database and hands a Migrator to fn
func (c *cli) withMigrator(fn func(m *migration.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("migrations apply to postgres only, configured driver is %q", cfg.Database.Driver)
		}

		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.PingContext(cmd.Context()); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}

		// Closing the migrator closes db as well.
		m, err := migration.New(db, c.migrationsPath, c.log)
		if err != nil {
			_ = db.Close()
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				c.log.Warn("Error closing migrator", zap.Error(err))
			}
		}()
		return fn(m, args)
	}
}

// resolveMigrationsPath falls back to ./migrations, then to migrations two
// levels above the executable.
func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	return abs, nil
}
