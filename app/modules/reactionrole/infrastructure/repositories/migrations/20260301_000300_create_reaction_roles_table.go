package reactionrolemigrations

import (
	"context"
	"fmt"

	reactionroledb "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating reaction_roles table...")
			if _, err := db.NewCreateTable().Model((*reactionroledb.ReactionRole)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create reaction_roles table: %w", err)
			}
			if _, err := db.NewCreateIndex().
				Model((*reactionroledb.ReactionRole)(nil)).
				Index("idx_reaction_roles_guild").
				Column("guild_id").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create reaction_roles index: %w", err)
			}
			fmt.Println("reaction_roles table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping reaction_roles table...")
			if _, err := db.NewDropTable().Model((*reactionroledb.ReactionRole)(nil)).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop reaction_roles table: %w", err)
			}
			fmt.Println("reaction_roles table dropped successfully!")
			return nil
		},
	)
}
