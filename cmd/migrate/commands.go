package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/billbook/backend/internal/infrastructure/logger"
	"github.com/billbook/backend/internal/infrastructure/migration"
	"github.com/billbook/backend/internal/infrastructure/persistence"
	"github.com/billbook/backend/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultMigrationsDir = "migrations"

var errPostgresOnly = errors.New("this command needs database.driver postgres")

// cli carries the state shared by every subcommand
type cli struct {
	dir      string
	logLevel string

	log     *zap.Logger
	cleanup func()
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the billbook database schema",
		Long: `Apply, roll back and inspect schema migrations.

Configuration is read like the server does: config.toml, .env and
BILLBOOK_* environment variables (for example BILLBOOK_DATABASE_HOST).`,
		Example: `  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Scaffold a new migration pair under ./migrations
  migrate create add_invoice_remark_index "Index invoices by remark"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.cleanup != nil {
				c.cleanup()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.dir, "dir", "", "read migrations from this directory instead of the embedded set")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		c.upCmd(),
		c.downCmd(),
		c.stepCmd(),
		c.gotoCmd(),
		c.versionCmd(),
		c.forceCmd(),
		c.dropCmd(),
		c.createCmd(),
		c.listCmd(),
	)
	return root
}

func (c *cli) init() error {
	log, cleanup, err := logger.New(logger.Config{
		Level:   c.logLevel,
		Format:  "console",
		Output:  "stdout",
		Service: "billbook-migrate",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.log, c.cleanup = log, cleanup

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *cli) source() migration.Source {
	if c.dir == "" {
		return migration.Source{FS: migrations.FS}
	}
	abs, err := filepath.Abs(c.dir)
	if err != nil {
		abs = c.dir
	}
	return migration.Source{Dir: abs}
}

// withMigrator opens a PostgreSQL connection and runs fn with a migrator
func (c *cli) withMigrator(fn func(m *migration.Migrator) error) error {
	if c.cfg.Database.Driver != config.DriverPostgres {
		return errPostgresOnly
	}

	db, err := sql.Open("postgres", c.cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, c.source(), c.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			c.log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return fn(m)
}

func (c *cli) upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Database.Driver != config.DriverPostgres {
				return c.autoMigrate()
			}
			return c.withMigrator(func(m *migration.Migrator) error { return m.Up() })
		},
	}
}

// autoMigrate creates the schema of a SQLite or MySQL database from the models
func (c *cli) autoMigrate() error {
	c.log.Info("Creating schema from models", zap.String("driver", c.cfg.Database.Driver))

	db, err := persistence.NewDatabase(&c.cfg.Database, logger.NewGormLogger(c.log, gormlogger.Warn))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := persistence.AutoMigrate(db.DB); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	c.log.Info("Schema is up to date")
	return nil
}

func (c *cli) downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator(func(m *migration.Migrator) error { return m.Down() })
		},
	}
}

func (c *cli) stepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step <n>",
		Short: "Apply n migrations (positive = up, negative = down)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return c.withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
		},
	}
}

func (c *cli) gotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return c.withMigrator(func(m *migration.Migrator) error { return m.GoTo(uint(version)) })
		},
	}
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMigrator(func(m *migration.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					c.log.Info("No migrations applied")
					return nil
				}
				c.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			})
		},
	}
}

func (c *cli) forceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the recorded version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return c.withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
		},
	}
}

func (c *cli) dropCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every database object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("drop cancelled, pass --confirm to drop all data")
			}
			return c.withMigrator(func(m *migration.Migrator) error { return m.Drop() })
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm that all data will be lost")
	return cmd
}

func (c *cli) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Scaffold the next numbered migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.dir
			if dir == "" {
				dir = defaultMigrationsDir
			}
			description := ""
			if len(args) > 1 {
				description = args[1]
			}

			mf, err := migration.CreateMigration(dir, args[0], description)
			if err != nil {
				return err
			}
			c.log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := c.source()
			fsys := src.FS
			if src.Dir != "" {
				fsys = os.DirFS(src.Dir)
			}

			list, err := migration.ListMigrations(fsys)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				c.log.Info("No migrations found")
				return nil
			}
			for _, m := range list {
				rollback := ""
				if !m.HasDown {
					rollback = " (no rollback)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %06d %s%s\n", m.Version, m.Name, rollback)
			}
			return nil
		},
	}
}
