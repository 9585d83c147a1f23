package handlers

import (
	"math/rand"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/scheduler"
)

// DebugSchedule is one active schedule as seen by the scheduler right now.
type DebugSchedule struct {
	ID              int64                  `json:"id"`
	TargetRepo      string                 `json:"target_repo"`
	ContentStrategy models.ContentStrategy `json:"content_mode"`
	ScheduleTime    string                 `json:"schedule_time"`
	Timezone        string                 `json:"timezone"`
	LocalTime       string                 `json:"local_time"`
	Due             bool                   `json:"due"`
	LastRunAt       *time.Time             `json:"last_run_at"`
	CreatedAt       time.Time              `json:"created_at"`
	Username        string                 `json:"username"`
	HasToken        bool                   `json:"hasToken"`
}

// DebugHandler exposes scheduler state. Only mounted when debug endpoints are enabled.
type DebugHandler struct {
	Schedules database.ScheduleRepository
	now       func() time.Time
	roll      func() float64
	intN      func(int) int
}

// NewDebugHandler creates a new instance of DebugHandler.
func NewDebugHandler(schedules database.ScheduleRepository) *DebugHandler {
	return &DebugHandler{Schedules: schedules, now: time.Now, roll: rand.Float64, intN: rand.Intn}
}

// mockCalendarDays は今日を含む過去1年分
const mockCalendarDays = 366

// MockContributions GET /api/test-contributions
// GitHubに接続せずにダッシュボードのカレンダー表示を確認するための疑似データを返します。
func (h *DebugHandler) MockContributions(w http.ResponseWriter, r *http.Request) {
	log.Debug("Mock contributions requested")

	today := h.now().UTC()
	days := make([]models.ContributionDay, 0, mockCalendarDays)
	for i := mockCalendarDays - 1; i >= 0; i-- {
		count := 0
		switch roll := h.roll(); {
		case roll > 0.85:
			count = h.intN(10) + 5
		case roll > 0.5:
			count = h.intN(5) + 1
		}
		days = append(days, models.ContributionDay{
			Date:  today.AddDate(0, 0, -i).Format("2006-01-02"),
			Count: count,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"contributions": days,
		"mock":          true,
	})
}

// ListSchedules GET /api/debug/schedules
func (h *DebugHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Schedules.ListActiveWithCredentials(r.Context())
	if err != nil {
		log.WithError(err).Error("Debug schedules error")
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := h.now().UTC()
	rows := make([]DebugSchedule, 0, len(jobs))
	for _, job := range jobs {
		s := job.Schedule
		loc, _ := models.ResolveLocation(s.Timezone)
		rows = append(rows, DebugSchedule{
			ID:              s.ID,
			TargetRepo:      s.TargetRepo,
			ContentStrategy: s.ContentStrategy,
			ScheduleTime:    s.ScheduleTime,
			Timezone:        s.Timezone,
			LocalTime:       now.In(loc).Format("15:04"),
			Due:             scheduler.IsDue(now, s),
			LastRunAt:       s.LastRunAt,
			CreatedAt:       s.CreatedAt,
			Username:        job.Credential.Username,
			HasToken:        job.Credential.Token != "",
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"currentTime":          now.Format("15:04"),
		"totalActiveSchedules": len(rows),
		"schedules":            rows,
	})
}
