//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// setupTestDatabase starts a PostgreSQL container, migrates it and returns a connected service.
func setupTestDatabase(t *testing.T) (*DatabaseService, string) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dailydiff_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{"test": "dailydiff-repository", "test-name": t.Name()}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate test container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, MigrateUp(url))

	svc, err := NewDatabaseService(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc, url
}

func TestRepositories_Postgres(t *testing.T) {
	svc, url := setupTestDatabase(t)
	ctx := context.Background()
	users := NewUserRepository(svc.DB)
	schedules := NewScheduleRepository(svc.DB)

	u, err := users.UpsertGitHubUser(ctx, &models.User{GitHubID: "42", Username: "octo", AccessToken: "tok-1"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	again, err := users.UpsertGitHubUser(ctx, &models.User{GitHubID: "42", Username: "octo", AccessToken: "tok-2"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID, "github_id is the upsert key")

	fetched, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", fetched.AccessToken)

	_, err = users.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	none, err := schedules.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	s := &models.Schedule{UserID: u.ID, TargetRepo: "octo/log", ScheduleTime: "09:00", Timezone: "Asia/Tokyo", ContentStrategy: models.StrategyDevTip}
	require.NoError(t, schedules.Upsert(ctx, s))
	assert.NotZero(t, s.ID)

	at := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, schedules.MarkRun(ctx, u.ID, at))

	// a second upsert overwrites settings but keeps one row per user
	s2 := &models.Schedule{UserID: u.ID, TargetRepo: "octo/other", ScheduleTime: "21:30", Timezone: "UTC", ContentStrategy: models.StrategyCodeQuality}
	require.NoError(t, schedules.Upsert(ctx, s2))
	assert.Equal(t, s.ID, s2.ID)

	jobs, err := schedules.ListActiveWithCredentials(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "octo/other", jobs[0].Schedule.TargetRepo)
	assert.Equal(t, models.Credential{Token: "tok-2", Username: "octo"}, jobs[0].Credential)
	require.NotNil(t, jobs[0].Schedule.LastRunAt)
	assert.True(t, at.Equal(*jobs[0].Schedule.LastRunAt))

	require.NoError(t, schedules.Deactivate(ctx, u.ID))
	jobs, err = schedules.ListActiveWithCredentials(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	version, dirty, applied, err := MigrationStatus(url)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}
