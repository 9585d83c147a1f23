package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/middleware"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/database"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/services/streak"
)

const testUserID = "0b7e3f0c-6a43-4c1a-9d55-5c3a8f2b9e10"

var testUser = &models.User{
	ID:          testUserID,
	GitHubID:    "583231",
	Username:    "octocat",
	AvatarURL:   "https://avatars.githubusercontent.com/u/583231",
	AccessToken: "gho_token",
}

type fakeSchedules struct {
	mu       sync.Mutex
	byUser   map[string]*models.Schedule
	jobs     []models.ScheduledJob
	getErr   error
	storeErr error
	marked   []string
	paused   []string
}

func newFakeSchedules() *fakeSchedules {
	return &fakeSchedules{byUser: map[string]*models.Schedule{}}
}

func (f *fakeSchedules) GetByUserID(_ context.Context, userID string) (*models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byUser[userID], nil
}

func (f *fakeSchedules) Upsert(_ context.Context, s *models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return f.storeErr
	}
	cp := *s
	f.byUser[s.UserID] = &cp
	return nil
}

func (f *fakeSchedules) ListActiveWithCredentials(context.Context) ([]models.ScheduledJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.jobs, nil
}

func (f *fakeSchedules) MarkRun(_ context.Context, userID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, userID)
	return f.storeErr
}

func (f *fakeSchedules) Deactivate(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return f.storeErr
	}
	f.paused = append(f.paused, userID)
	return nil
}

var _ database.ScheduleRepository = (*fakeSchedules)(nil)

type fakeUsers struct {
	mu       sync.Mutex
	byID     map[string]*models.User
	upserted []*models.User
	err      error
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) UpsertGitHubUser(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *u
	cp.ID = "11111111-2222-3333-4444-555555555555"
	f.byID[cp.ID] = &cp
	f.upserted = append(f.upserted, &cp)
	return &cp, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

var _ database.UserRepository = (*fakeUsers)(nil)

// spyExecutor records jobs and echoes success unless result is set.
type spyExecutor struct {
	mu     sync.Mutex
	jobs   []models.CommitJob
	result *models.CommitResult
}

func (s *spyExecutor) Execute(_ context.Context, job models.CommitJob) models.CommitResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	if s.result != nil {
		return *s.result
	}
	return models.CommitResult{Success: true, AppendedText: "entry for " + string(job.Strategy), Strategy: job.Strategy}
}

func (s *spyExecutor) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

type stubStreaks struct{ status streak.Status }

func (s stubStreaks) ForUser(context.Context, *models.User) streak.Status { return s.status }

type mockProvider struct{ mock.Mock }

func (m *mockProvider) ForToken(token string) github.API {
	return m.Called(token).Get(0).(github.API)
}

type mockAPI struct {
	github.API
	mock.Mock
}

func (m *mockAPI) ContributionCalendar(ctx context.Context, login string) ([]models.ContributionDay, error) {
	args := m.Called(ctx, login)
	days, _ := args.Get(0).([]models.ContributionDay)
	return days, args.Error(1)
}

func (m *mockAPI) Viewer(ctx context.Context) (*github.Profile, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(*github.Profile)
	return p, args.Error(1)
}

// fakeCache is a Store with explicit freshness.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]models.ContributionDay
	fresh   bool
}

func (c *fakeCache) Get(key string) ([]models.ContributionDay, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok && c.fresh, ok
}

func (c *fakeCache) Set(key string, value []models.ContributionDay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string][]models.ContributionDay{}
	}
	c.entries[key] = value
	c.fresh = true
}

// authedRequest builds a request as if the auth middleware had accepted it.
func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), testUserID))
}
