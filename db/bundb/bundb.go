// Package bundb opens the Postgres handle shared by every module and owns the
// per-module migrators.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	guildmigrations "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories/migrations"
	levelingmigrations "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories/migrations"
	milestonemigrations "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories/migrations"
	moderationmigrations "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/repositories/migrations"
	reactionrolemigrations "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/senshi-bot/config"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

const pingTimeout = 10 * time.Second

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg config.PostgresConfig) (*bun.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// Migrators returns one migrator per module, keyed by module name.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"guild":        migrate.NewMigrator(db, guildmigrations.Migrations, migrate.WithTableName("bun_migrations_guild"), migrate.WithLocksTableName("bun_migration_locks_guild")),
		"leveling":     migrate.NewMigrator(db, levelingmigrations.Migrations, migrate.WithTableName("bun_migrations_leveling"), migrate.WithLocksTableName("bun_migration_locks_leveling")),
		"milestone":    migrate.NewMigrator(db, milestonemigrations.Migrations, migrate.WithTableName("bun_migrations_milestone"), migrate.WithLocksTableName("bun_migration_locks_milestone")),
		"reactionrole": migrate.NewMigrator(db, reactionrolemigrations.Migrations, migrate.WithTableName("bun_migrations_reactionrole"), migrate.WithLocksTableName("bun_migration_locks_reactionrole")),
		"moderation":   migrate.NewMigrator(db, moderationmigrations.Migrations, migrate.WithTableName("bun_migrations_moderation"), migrate.WithLocksTableName("bun_migration_locks_moderation")),
	}
}

// ModuleNames lists the migrator keys in a stable order.
func ModuleNames(migrators map[string]*migrate.Migrator) []string {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MigrateAll initializes and applies every module's pending migrations.
func MigrateAll(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrators := Migrators(db)
	for _, name := range ModuleNames(migrators) {
		m := migrators[name]
		if err := m.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", name, err)
		}
		if err := m.Lock(ctx); err != nil {
			return fmt.Errorf("failed to lock %s migrations: %w", name, err)
		}
		group, err := m.Migrate(ctx)
		_ = m.Unlock(ctx)
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", name, err)
		}
		if group.IsZero() {
			logger.DebugContext(ctx, "No new migrations", attr.String("module", name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module", attr.String("module", name), attr.String("group", group.String()))
	}
	return nil
}
