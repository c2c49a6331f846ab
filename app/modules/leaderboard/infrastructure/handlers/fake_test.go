package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leaderboard/application"
	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// FakeLeaderboardService is a programmable leaderboardservice.Service.
type FakeLeaderboardService struct {
	trace []string

	Entries   []leaderboardservice.Entry
	Err       error
	LastLimit int
}

func (f *FakeLeaderboardService) record(step string) { f.trace = append(f.trace, step) }

// Trace returns the order of calls.
func (f *FakeLeaderboardService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardService) Standings(_ context.Context, _ sharedtypes.GuildID, limit int) ([]leaderboardservice.Entry, error) {
	f.record("Standings")
	f.LastLimit = limit
	return f.Entries, f.Err
}

func (f *FakeLeaderboardService) ExportWorkbook(_ context.Context, _ sharedtypes.GuildID, limit int) ([]byte, error) {
	f.record("ExportWorkbook")
	f.LastLimit = limit
	return []byte("xlsx"), f.Err
}

func (f *FakeLeaderboardService) StandingsChart(_ context.Context, _ sharedtypes.GuildID, limit int) ([]byte, error) {
	f.record("StandingsChart")
	f.LastLimit = limit
	return []byte("png"), f.Err
}

func (f *FakeLeaderboardService) LevelCurveChart(_ context.Context, maxLevel int) ([]byte, error) {
	f.record("LevelCurveChart")
	f.LastLimit = maxLevel
	return []byte("curve"), f.Err
}

// FakeImporter records uploaded workbooks.
type FakeImporter struct {
	Guild    sharedtypes.GuildID
	Workbook []byte
	Report   milestoneservice.ImportReport
	Err      error
}

func (f *FakeImporter) ImportMilestones(_ context.Context, guildID sharedtypes.GuildID, workbook []byte) (milestoneservice.ImportReport, error) {
	f.Guild = guildID
	f.Workbook = workbook
	return f.Report, f.Err
}

var _ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
