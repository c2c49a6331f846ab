package leaderboardhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	leaderboardservice "github.com/Black-And-White-Club/senshi-bot/app/modules/leaderboard/application"
	milestoneservice "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/application"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxUpload   = 5 << 20
	xlsxType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	uploadField = "file"
)

// MilestoneImporter loads milestone bindings from a workbook.
type MilestoneImporter interface {
	ImportMilestones(ctx context.Context, guildID sharedtypes.GuildID, workbook []byte) (milestoneservice.ImportReport, error)
}

// LeaderboardHandlers serves the dashboard API.
type LeaderboardHandlers struct {
	service    leaderboardservice.Service
	milestones MilestoneImporter
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers.
func NewLeaderboardHandlers(service leaderboardservice.Service, milestones MilestoneImporter, logger *slog.Logger, tracer trace.Tracer) *LeaderboardHandlers {
	return &LeaderboardHandlers{
		service:    service,
		milestones: milestones,
		logger:     logger,
		tracer:     tracer,
	}
}

func guildParam(r *http.Request) sharedtypes.GuildID {
	return sharedtypes.GuildID(chi.URLParam(r, "guildID"))
}

func intQuery(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, apperrors.Invalid("%s must be a positive number", key)
	}
	return n, nil
}

func (h *LeaderboardHandlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, apperrors.ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.ErrorContext(r.Context(), "Dashboard request failed",
		attr.String("operation", op),
		attr.String("guild_id", chi.URLParam(r, "guildID")),
		attr.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeBlob(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	_, _ = w.Write(data)
}

// HandleStandings returns the top members as JSON.
func (h *LeaderboardHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.fail(w, r, "Standings", err)
		return
	}
	entries, err := h.service.Standings(r.Context(), guildParam(r), limit)
	if err != nil {
		h.fail(w, r, "Standings", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"guild_id": guildParam(r),
		"entries":  entries,
	})
}

// HandleExport downloads the standings as an xlsx workbook.
func (h *LeaderboardHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.fail(w, r, "ExportWorkbook", err)
		return
	}
	data, err := h.service.ExportWorkbook(r.Context(), guildParam(r), limit)
	if err != nil {
		h.fail(w, r, "ExportWorkbook", err)
		return
	}
	writeBlob(w, xlsxType, fmt.Sprintf("leaderboard-%s.xlsx", guildParam(r)), data)
}

// HandleChart renders the standings as a PNG.
func (h *LeaderboardHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		h.fail(w, r, "StandingsChart", err)
		return
	}
	png, err := h.service.StandingsChart(r.Context(), guildParam(r), limit)
	if err != nil {
		h.fail(w, r, "StandingsChart", err)
		return
	}
	writeBlob(w, "image/png", "", png)
}

// HandleLevelCurve renders the XP curve as a PNG.
func (h *LeaderboardHandlers) HandleLevelCurve(w http.ResponseWriter, r *http.Request) {
	maxLevel, err := intQuery(r, "max")
	if err != nil {
		h.fail(w, r, "LevelCurveChart", err)
		return
	}
	png, err := h.service.LevelCurveChart(r.Context(), maxLevel)
	if err != nil {
		h.fail(w, r, "LevelCurveChart", err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeBlob(w, "image/png", "", png)
}

// HandleImportMilestones accepts a workbook either as a multipart "file"
// field or as the raw request body.
func (h *LeaderboardHandlers) HandleImportMilestones(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "leaderboard.HandleImportMilestones")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	data, err := readUpload(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "workbook too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.milestones.ImportMilestones(ctx, guildParam(r), data)
	if err != nil {
		span.RecordError(err)
		h.fail(w, r.WithContext(ctx), "ImportMilestones", err)
		return
	}
	h.logger.InfoContext(ctx, "Milestones imported",
		attr.GuildID(guildParam(r)),
		attr.Int("created", report.Created),
		attr.Int("duplicates", report.Duplicates),
		attr.Int("invalid", report.Invalid),
	)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUpload); err == nil {
		file, _, err := r.FormFile(uploadField)
		if err != nil {
			return nil, fmt.Errorf("missing %q upload", uploadField)
		}
		defer file.Close()
		return io.ReadAll(file)
	} else if !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty workbook")
	}
	return data, nil
}
