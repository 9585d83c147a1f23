package handlers

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/streak"
)

// StreakSource computes a user's current streak.
type StreakSource interface {
	ForUser(ctx context.Context, user *models.User) streak.Status
}

// UserResponse is the body of GET /api/user.
type UserResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	GitHubID      string `json:"githubId,omitempty"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	Streak        int    `json:"streak"`
}

// UserHandler はログイン中ユーザーの情報を返します。
type UserHandler struct {
	Users   database.UserRepository
	Streaks StreakSource
}

// NewUserHandler はUserHandlerの新しいインスタンスを作成します。
func NewUserHandler(users database.UserRepository, streaks StreakSource) *UserHandler {
	return &UserHandler{Users: users, Streaks: streaks}
}

// GetUser reports the session's user and streak. Anonymous callers get {authenticated:false}.
// GET /api/user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// セッションは有効だがユーザーが削除済み
			writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("ユーザーの取得に失敗しました")
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := h.Streaks.ForUser(r.Context(), user)
	writeJSON(w, http.StatusOK, UserResponse{
		Authenticated: true,
		Username:      user.Username,
		GitHubID:      user.GitHubID,
		AvatarURL:     user.AvatarURL,
		Streak:        status.Streak,
	})
}
