package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// CommitExecutor runs a single commit job.
type CommitExecutor interface {
	Execute(ctx context.Context, job models.CommitJob) models.CommitResult
}

// CommitRequest is the body of POST /api/commit-now.
type CommitRequest struct {
	RepoName        string `json:"repoName"`
	Message         string `json:"message,omitempty"`
	ContentStrategy string `json:"contentStrategy,omitempty"`
}

// CommitHandler は手動コミットを処理します。
type CommitHandler struct {
	Schedules database.ScheduleRepository
	Users     database.UserRepository
	Executor  CommitExecutor
	now       func() time.Time
}

// NewCommitHandler はCommitHandlerの新しいインスタンスを作成します。
func NewCommitHandler(schedules database.ScheduleRepository, users database.UserRepository, executor CommitExecutor) *CommitHandler {
	return &CommitHandler{Schedules: schedules, Users: users, Executor: executor, now: time.Now}
}

// CommitNow appends today's entry to the requested repository immediately.
// POST /api/commit-now
func (h *CommitHandler) CommitNow(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// GitHubへのリクエスト前にリポジトリ名を検証する
	if strings.TrimSpace(req.RepoName) == "" {
		writeJSONError(w, http.StatusBadRequest, "Repository name is required")
		return
	}
	repo, err := models.ParseRepoName(req.RepoName)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("ユーザーの取得に失敗しました")
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	strategy := h.resolveStrategy(r.Context(), userID, req.ContentStrategy)
	logger := log.WithFields(log.Fields{"user_id": userID, "repo": repo.String(), "strategy": strategy})
	logger.Info("Manual commit requested")

	result := h.Executor.Execute(r.Context(), models.CommitJob{
		Credential:      user.Credential(),
		Repo:            repo,
		Strategy:        strategy,
		ActorUsername:   user.Username,
		MessageOverride: req.Message,
	})
	if !result.Success {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"message": result.Message(),
			"kind":    result.ErrorKind,
		})
		return
	}

	// 手動コミットでも最終実行時刻を更新する
	if err := h.Schedules.MarkRun(r.Context(), userID, h.now().UTC()); err != nil {
		logger.WithError(err).Warn("last_run_at の更新に失敗しました")
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"content":  result.AppendedText,
		"strategy": result.Strategy,
	})
}

// resolveStrategy picks the request's strategy, else the saved schedule's, else the default.
func (h *CommitHandler) resolveStrategy(ctx context.Context, userID, requested string) models.ContentStrategy {
	if strings.TrimSpace(requested) != "" {
		return models.ParseContentStrategy(requested)
	}
	schedule, err := h.Schedules.GetByUserID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("保存済みスケジュールの取得に失敗しました。デフォルト戦略を使用します")
		return models.DefaultStrategy
	}
	if schedule == nil {
		return models.DefaultStrategy
	}
	return models.ParseContentStrategy(string(schedule.ContentStrategy))
}
