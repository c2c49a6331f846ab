package milestonemigrations

import (
	"context"
	"fmt"

	milestonedb "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating milestone_levels table...")
			if _, err := db.NewCreateTable().Model((*milestonedb.MilestoneLevel)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create milestone_levels table: %w", err)
			}
			fmt.Println("milestone_levels table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping milestone_levels table...")
			if _, err := db.NewDropTable().Model((*milestonedb.MilestoneLevel)(nil)).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop milestone_levels table: %w", err)
			}
			fmt.Println("milestone_levels table dropped successfully!")
			return nil
		},
	)
}
