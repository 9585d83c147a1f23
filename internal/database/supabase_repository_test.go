package database

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

func newSupabaseTest(t *testing.T, respond func(r recordedRequest) (int, string)) (*SupabaseRepository, *[]recordedRequest) {
	t.Helper()
	var recorded []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		q := map[string]string{}
		for k, v := range r.URL.Query() {
			q[k] = v[0]
		}
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: q, Body: string(body)}
		recorded = append(recorded, rec)

		status, resp := respond(rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	repo, err := NewSupabaseRepository(srv.URL, "service-key")
	require.NoError(t, err)
	repo.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return repo, &recorded
}

func TestSupabase_ListActiveWithCredentials(t *testing.T) {
	repo, recorded := newSupabaseTest(t, func(r recordedRequest) (int, string) {
		return http.StatusOK, `[
			{"id": 1, "user_id": "u1", "target_repo": "octo/log", "schedule_time": "09:00",
			 "timezone": "Asia/Tokyo", "content_mode": "dev-tip", "is_active": true, "last_run_at": null,
			 "users": {"username": "octo", "access_token": "tok"}},
			{"id": 2, "user_id": "u2", "target_repo": "cat/log", "schedule_time": "21:30",
			 "timezone": "UTC", "content_mode": "stats", "is_active": true, "last_run_at": "2025-01-01T21:30:00+00:00",
			 "users": {"username": "cat", "access_token": ""}}
		]`
	})

	jobs, err := repo.ListActiveWithCredentials(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "octo/log", jobs[0].Schedule.TargetRepo)
	assert.Equal(t, models.StrategyDevTip, jobs[0].Schedule.ContentStrategy)
	assert.Nil(t, jobs[0].Schedule.LastRunAt)
	assert.Equal(t, models.Credential{Token: "tok", Username: "octo"}, jobs[0].Credential)

	require.NotNil(t, jobs[1].Schedule.LastRunAt)
	assert.Empty(t, jobs[1].Credential.Token)

	req := (*recorded)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.True(t, strings.HasSuffix(req.Path, "/schedules"))
	assert.Equal(t, "eq.true", req.Query["is_active"])
	assert.Contains(t, req.Query["select"], "users!inner")
}

func TestSupabase_GetByUserID_None(t *testing.T) {
	repo, _ := newSupabaseTest(t, func(recordedRequest) (int, string) { return http.StatusOK, `[]` })

	s, err := repo.GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSupabase_MarkRun(t *testing.T) {
	repo, recorded := newSupabaseTest(t, func(recordedRequest) (int, string) { return http.StatusNoContent, `` })

	at := time.Date(2025, 1, 2, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))
	require.NoError(t, repo.MarkRun(context.Background(), "u1", at))

	req := (*recorded)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "eq.u1", req.Query["user_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.Equal(t, "2025-01-02T00:00:00Z", body["last_run_at"])
}

func TestSupabase_GetByID_NotFound(t *testing.T) {
	repo, _ := newSupabaseTest(t, func(recordedRequest) (int, string) { return http.StatusOK, `[]` })

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSupabase_ContextCancelled(t *testing.T) {
	repo, recorded := newSupabaseTest(t, func(recordedRequest) (int, string) { return http.StatusOK, `[]` })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListActiveWithCredentials(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *recorded)
}
