package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// ScheduleRequest is the body of POST /api/schedule.
type ScheduleRequest struct {
	RepoName     string `json:"repoName"`
	ScheduleTime string `json:"scheduleTime"`
	ContentMode  string `json:"contentMode"`
	Timezone     string `json:"timezone"`
}

// ScheduleHandler はスケジュールの取得と保存を処理します。
type ScheduleHandler struct {
	Schedules database.ScheduleRepository
}

// NewScheduleHandler はScheduleHandlerの新しいインスタンスを作成します。
func NewScheduleHandler(schedules database.ScheduleRepository) *ScheduleHandler {
	return &ScheduleHandler{Schedules: schedules}
}

// GetSchedule returns the caller's schedule, or null when none is saved.
// GET /api/schedule
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	schedule, err := h.Schedules.GetByUserID(r.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("スケジュールの取得に失敗しました")
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedule": schedule})
}

// SaveSchedule validates and upserts the caller's schedule. Saving always activates it.
// POST /api/schedule
func (h *ScheduleHandler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	repo, err := models.ParseRepoName(req.RepoName)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	scheduleTime, err := models.ParseScheduleTime(req.ScheduleTime)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	// 不明なタイムゾーンはUTCとして保存する
	_, timezone := models.ResolveLocation(req.Timezone)

	schedule := &models.Schedule{
		UserID:          userID,
		TargetRepo:      repo.String(),
		ScheduleTime:    scheduleTime,
		Timezone:        timezone,
		ContentStrategy: models.ParseContentStrategy(req.ContentMode),
		IsActive:        true,
	}
	if err := h.Schedules.Upsert(r.Context(), schedule); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("スケジュールの保存に失敗しました")
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.WithFields(log.Fields{
		"user_id":  userID,
		"repo":     schedule.TargetRepo,
		"time":     schedule.ScheduleTime,
		"timezone": schedule.Timezone,
		"strategy": schedule.ContentStrategy,
	}).Info("Schedule saved")
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Schedule active"})
}

// PauseSchedule deactivates the caller's schedule without deleting it.
// DELETE /api/schedule
func (h *ScheduleHandler) PauseSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := h.Schedules.Deactivate(r.Context(), userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("スケジュールの停止に失敗しました")
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.WithField("user_id", userID).Info("Schedule paused")
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Schedule paused"})
}
