package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/cache"
)

// ContributionsResponse is the body of GET /api/contributions.
type ContributionsResponse struct {
	Contributions []models.ContributionDay `json:"contributions"`
	RateLimited   bool                     `json:"rateLimited,omitempty"`
	Error         string                   `json:"error,omitempty"`
}

// ContributionHandler handles HTTP requests related to GitHub contributions.
type ContributionHandler struct {
	Users    database.UserRepository
	Provider github.Provider
	Cache    cache.Store[[]models.ContributionDay]
}

// NewContributionHandler creates a new instance of ContributionHandler.
func NewContributionHandler(users database.UserRepository, provider github.Provider, store cache.Store[[]models.ContributionDay]) *ContributionHandler {
	return &ContributionHandler{Users: users, Provider: provider, Cache: store}
}

// GetContributions returns the caller's contribution calendar. Fresh cache entries are
// served without calling GitHub, and upstream failures fall back to stale entries.
// The endpoint answers 200 even when GitHub fails so the dashboard can render a fallback.
// GET /api/contributions
func (h *ContributionHandler) GetContributions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
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

	key := "contributions_" + user.GitHubID
	cached, fresh, hit := h.Cache.Get(key)
	if hit && fresh {
		writeJSON(w, http.StatusOK, ContributionsResponse{Contributions: cached})
		return
	}

	days, err := h.Provider.ForToken(user.AccessToken).ContributionCalendar(r.Context(), user.Username)
	if err != nil {
		ghErr := github.Classify(err)
		logger := log.WithFields(log.Fields{"user_id": userID, "kind": ghErr.Kind})
		resp := ContributionsResponse{Contributions: []models.ContributionDay{}}
		if hit {
			resp.Contributions = cached
		}
		if ghErr.Kind == models.ErrorKindRateLimited {
			logger.Warn("GitHub rate limit hit while fetching contributions")
			resp.RateLimited = true
		} else {
			logger.WithError(err).Error("GitHub貢献データの取得に失敗しました")
			resp.Error = ghErr.Error()
			if hit {
				resp.Error = "Served stale due to error"
			}
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if days == nil {
		days = []models.ContributionDay{}
	}
	h.Cache.Set(key, days)
	log.WithFields(log.Fields{"user_id": userID, "days": len(days)}).Debug("contributions cached")
	writeJSON(w, http.StatusOK, ContributionsResponse{Contributions: days})
}
