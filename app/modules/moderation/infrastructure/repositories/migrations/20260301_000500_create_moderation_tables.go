package moderationmigrations

import (
	"context"
	"fmt"

	moderationdb "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				fmt.Println("Creating punishments and scheduled_actions tables...")
				if _, err := tx.NewCreateTable().Model((*moderationdb.Punishment)(nil)).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create punishments table: %w", err)
				}
				if _, err := tx.NewCreateTable().Model((*moderationdb.ScheduledAction)(nil)).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create scheduled_actions table: %w", err)
				}
				if _, err := tx.NewCreateIndex().
					Model((*moderationdb.ScheduledAction)(nil)).
					Index("idx_scheduled_actions_pending").
					Column("status", "fire_at").
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create scheduled_actions index: %w", err)
				}
				if _, err := tx.NewCreateIndex().
					Model((*moderationdb.Punishment)(nil)).
					Index("idx_punishments_member").
					Column("guild_id", "user_id").
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create punishments index: %w", err)
				}
				fmt.Println("Moderation tables created successfully!")
				return nil
			})
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping moderation tables...")
			for _, model := range []any{(*moderationdb.ScheduledAction)(nil), (*moderationdb.Punishment)(nil)} {
				if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop moderation table: %w", err)
				}
			}
			fmt.Println("Moderation tables dropped successfully!")
			return nil
		},
	)
}
