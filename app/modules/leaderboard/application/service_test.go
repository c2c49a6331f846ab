package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	levelingdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/domain"
	levelingdb "github.com/Black-And-White-Club/senshi-bot/app/modules/leveling/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/metrics"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

const testGuild sharedtypes.GuildID = "guild-1"

func newService(progress ProgressSource) *LeaderboardService {
	return NewLeaderboardService(progress, slog.Default(), metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"))
}

func seededProgress() *FakeProgress {
	faker := gofakeit.New(7)
	return &FakeProgress{Rows: map[sharedtypes.GuildID][]levelingdb.UserProgress{
		testGuild: {
			{GuildID: testGuild, UserID: "1001", Username: faker.Username(), Level: 5, XP: 40, TotalMessages: 300},
			{GuildID: testGuild, UserID: "1002", Username: "", Level: 3, XP: 10, TotalMessages: 120},
			{GuildID: testGuild, UserID: "1003", Username: "a-very-long-display-name", Level: 0, XP: 7, TotalMessages: 2},
		},
	}}
}

func TestStandings(t *testing.T) {
	progress := seededProgress()
	entries, err := newService(progress).Standings(context.Background(), testGuild, 10)
	require.NoError(t, err)

	want := []Entry{
		{Rank: 1, UserID: "1001", Level: 5, XP: 40, NextLevelXP: levelingdomain.Gap(5), TotalXP: levelingdomain.ThresholdXP(5) + 40, TotalMessages: 300},
		{Rank: 2, UserID: "1002", Level: 3, XP: 10, NextLevelXP: levelingdomain.Gap(3), TotalXP: levelingdomain.ThresholdXP(3) + 10, TotalMessages: 120},
		{Rank: 3, UserID: "1003", Level: 0, XP: 7, NextLevelXP: levelingdomain.Gap(0), TotalXP: 7, TotalMessages: 2},
	}
	if diff := cmp.Diff(want, entries, cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Username"
	}, cmp.Ignore())); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "1002", entries[1].Label())
	assert.Equal(t, []string{"Leaderboard"}, progress.Trace())
}

func TestStandingsPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := newService(&FakeProgress{Err: boom}).Standings(context.Background(), testGuild, 10)
	assert.ErrorIs(t, err, boom)
}

func TestExportWorkbook(t *testing.T) {
	data, err := newService(seededProgress()).ExportWorkbook(context.Background(), testGuild, 10)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Rank", "User ID", "Username", "Level", "XP", "Next Level XP", "Total XP", "Messages"}, rows[0])
	assert.Equal(t, "1001", rows[1][1])
	assert.Equal(t, "5", rows[1][3])
	assert.Equal(t, "3", rows[3][0])
}

func TestCharts(t *testing.T) {
	svc := newService(seededProgress())
	ctx := context.Background()

	t.Run("standings", func(t *testing.T) {
		png, err := svc.StandingsChart(ctx, testGuild, 10)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("empty guild renders placeholder", func(t *testing.T) {
		png, err := svc.StandingsChart(ctx, "empty", 10)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, pngMagic))
	})

	t.Run("level curve", func(t *testing.T) {
		for _, maxLevel := range []int{0, 1, 30, 1000} {
			png, err := svc.LevelCurveChart(ctx, maxLevel)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngMagic))
		}
	})
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "usagi", shorten("usagi"))
	assert.Equal(t, "a-very-lo...", shorten("a-very-long-display-name"))
	assert.Len(t, []rune(shorten("月野うさぎ月野うさぎ月野うさぎ")), maxLabelRunes)
}
