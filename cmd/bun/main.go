package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	moderationqueue "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/queue"
	"github.com/Black-And-White-Club/senshi-bot/config"
	"github.com/Black-And-White-Club/senshi-bot/db/bundb"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load configuration for database connection ONLY
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := bundb.Open(context.Background(), cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cliApp := &cli.App{
		Name:  "bun",
		Usage: "senshi-bot database migrations",
		Commands: []*cli.Command{
			newMultiModuleDBCommand(bundb.Migrators(db), cfg.Postgres.DSN),
		},
	}

	if err := cliApp.Run(append([]string{os.Args[0]}, flag.Args()...)); err != nil {
		log.Fatal(err)
	}
}

// eachModule runs fn for every module, or only the one named by --module.
func eachModule(c *cli.Context, migrators map[string]*migrate.Migrator, fn func(name string, m *migrate.Migrator) error) error {
	names := bundb.ModuleNames(migrators)
	if only := c.String("module"); only != "" {
		if _, ok := migrators[only]; !ok {
			return fmt.Errorf("invalid module name: %s (known: %s)", only, strings.Join(names, ", "))
		}
		names = []string{only}
	}
	for _, name := range names {
		if err := fn(name, migrators[name]); err != nil {
			return fmt.Errorf("module %s: %w", name, err)
		}
	}
	return nil
}

func newMultiModuleDBCommand(migrators map[string]*migrate.Migrator, dsn string) *cli.Command {
	moduleFlag := &cli.StringFlag{Name: "module", Aliases: []string{"m"}, Usage: "limit to one module"}

	return &cli.Command{
		Name:  "db",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Flags: []cli.Flag{moduleFlag},
				Action: func(c *cli.Context) error {
					return eachModule(c, migrators, func(name string, m *migrate.Migrator) error {
						fmt.Printf("Initializing migrations for module: %s\n", name)
						return m.Init(c.Context)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database, including the job queue tables",
				Flags: []cli.Flag{moduleFlag},
				Action: func(c *cli.Context) error {
					err := eachModule(c, migrators, func(name string, m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context) //nolint:errcheck

						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", name, group)
						}
						return nil
					})
					if err != nil || c.String("module") != "" {
						return err
					}
					fmt.Println("Migrating River job tables")
					return moderationqueue.Migrate(c.Context, dsn)
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Flags: []cli.Flag{moduleFlag},
				Action: func(c *cli.Context) error {
					return eachModule(c, migrators, func(name string, m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context) //nolint:errcheck

						group, err := m.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", name, group)
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					files, err := migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Flags: []cli.Flag{moduleFlag},
				Action: func(c *cli.Context) error {
					return eachModule(c, migrators, func(name string, m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", name)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
		},
	}
}
