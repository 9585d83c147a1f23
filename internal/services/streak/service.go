package streak

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/cache"
)

// Status is a Result plus how it was obtained.
type Status struct {
	Result
	RateLimited bool `json:"rateLimited,omitempty"`
	Error       bool `json:"error,omitempty"`
	Stale       bool `json:"stale,omitempty"`
}

// Service computes per-user streaks from the GitHub contribution calendar and caches them.
type Service struct {
	provider github.Provider
	cache    cache.Store[Result]
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(provider github.Provider, store cache.Store[Result]) *Service {
	return &Service{provider: provider, cache: store, now: time.Now}
}

// ForUser returns the user's current streak. Fresh cache entries are served without
// calling GitHub; on upstream failure a stale entry is preferred over a zero streak.
func (s *Service) ForUser(ctx context.Context, user *models.User) Status {
	cached, fresh, ok := s.cache.Get(user.ID)
	if ok && fresh {
		return Status{Result: cached}
	}

	days, err := s.provider.ForToken(user.AccessToken).ContributionCalendar(ctx, "")
	if err != nil {
		kind := github.Classify(err).Kind
		logger := log.WithFields(log.Fields{"user_id": user.ID, "kind": kind})
		if ok {
			logger.Warn("streak: upstream failed, serving stale value")
			return Status{Result: cached, Stale: true, RateLimited: kind == models.ErrorKindRateLimited}
		}
		logger.WithError(err).Error("streak: failed to fetch contribution calendar")
		if kind == models.ErrorKindRateLimited {
			return Status{RateLimited: true}
		}
		return Status{Error: true}
	}

	res := Calculate(days, s.now().UTC().Format("2006-01-02"))
	s.cache.Set(user.ID, res)
	log.WithFields(log.Fields{"user_id": user.ID, "streak": res.Streak}).Debug("streak: calculated")
	return Status{Result: res}
}
