package levelingmigrations

import (
	"context"
	"fmt"

	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating user_progress table...")
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				if _, err := tx.NewCreateTable().Model((*levelingdb.UserProgress)(nil)).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create user_progress table: %w", err)
				}
				if _, err := tx.ExecContext(ctx, `
					CREATE INDEX IF NOT EXISTS idx_user_progress_rank ON user_progress (guild_id, level DESC, xp DESC);
				`); err != nil {
					return fmt.Errorf("failed to create user_progress rank index: %w", err)
				}
				fmt.Println("user_progress table created successfully!")
				return nil
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping user_progress table...")
			if _, err := db.NewDropTable().Model((*levelingdb.UserProgress)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop user_progress table: %w", err)
			}
			fmt.Println("user_progress table dropped successfully!")
			return nil
		},
	)
}
