package guildmigrations

import (
	"context"
	"fmt"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating server_configs table...")
			if _, err := db.NewCreateTable().Model((*guilddb.ServerConfig)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create server_configs table: %w", err)
			}
			fmt.Println("server_configs table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping server_configs table...")
			if _, err := db.NewDropTable().Model((*guilddb.ServerConfig)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop server_configs table: %w", err)
			}
			fmt.Println("server_configs table dropped successfully!")
			return nil
		},
	)
}
