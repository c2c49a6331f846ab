//go:build integration

package levelingdb_test

import (
	"context"
	"testing"

	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/integration_tests/containers"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressRepository(t *testing.T) {
	db, _ := containers.MigratedDB(t)
	repo := levelingdb.NewRepository(db)
	ctx := context.Background()
	guild := sharedtypes.GuildID("100")

	_, err := repo.GetProgress(ctx, nil, guild, "1")
	require.ErrorIs(t, err, levelingdb.ErrNotFound)

	members := []struct {
		id    sharedtypes.DiscordID
		level int
		xp    int
	}{
		{"1", 2, 40},
		{"2", 5, 10},
		{"3", 2, 90},
	}
	for _, m := range members {
		p, err := repo.CreateProgress(ctx, nil, guild, m.id, "member-"+string(m.id))
		require.NoError(t, err)
		assert.Zero(t, p.Level)

		p.Level, p.XP, p.TotalMessages = m.level, m.xp, 3
		require.NoError(t, repo.SaveProgress(ctx, nil, p))
	}

	again, err := repo.CreateProgress(ctx, nil, guild, "2", "renamed")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Level, "create must not reset an existing row")

	top, err := repo.TopProgress(ctx, nil, guild, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []sharedtypes.DiscordID{"2", "3", "1"}, []sharedtypes.DiscordID{top[0].UserID, top[1].UserID, top[2].UserID})

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	locked, err := repo.GetProgressForUpdate(ctx, tx, guild, "1")
	require.NoError(t, err)
	locked.XP += 5
	require.NoError(t, repo.SaveProgress(ctx, tx, locked))
	require.NoError(t, tx.Commit())

	got, err := repo.GetProgress(ctx, nil, guild, "1")
	require.NoError(t, err)
	assert.Equal(t, 45, got.XP)

	deleted, err := repo.DeleteGuild(ctx, nil, guild)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	top, err = repo.TopProgress(ctx, nil, guild, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
