package database

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// SupabaseRepository implements ScheduleRepository and UserRepository on top of the
// Supabase PostgREST API, for deployments without direct database access.
// postgrest-go is not context aware, so ctx is only checked before each request.
type SupabaseRepository struct {
	client *supabase.Client
	now    func() time.Time
}

// NewSupabaseRepository creates a repository using a service-role key.
func NewSupabaseRepository(url, serviceKey string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{Schema: "public"})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseRepository{client: client, now: time.Now}, nil
}

type supabaseScheduleWrite struct {
	UserID       string                 `json:"user_id"`
	TargetRepo   string                 `json:"target_repo"`
	ScheduleTime string                 `json:"schedule_time"`
	Timezone     string                 `json:"timezone"`
	ContentMode  models.ContentStrategy `json:"content_mode"`
	IsActive     bool                   `json:"is_active"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type supabaseScheduleRow struct {
	models.Schedule
	Users *struct {
		Username    string `json:"username"`
		AccessToken string `json:"access_token"`
	} `json:"users"`
}

// supabaseUserRow carries access_token, which models.User never serializes.
type supabaseUserRow struct {
	ID          string     `json:"id,omitempty"`
	GitHubID    string     `json:"github_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	AvatarURL   string     `json:"avatar_url"`
	AccessToken string     `json:"access_token"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (r supabaseUserRow) toModel() *models.User {
	u := &models.User{
		ID:          r.ID,
		GitHubID:    r.GitHubID,
		Username:    r.Username,
		Email:       r.Email,
		AvatarURL:   r.AvatarURL,
		AccessToken: r.AccessToken,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.CreatedAt != nil {
		u.CreatedAt = *r.CreatedAt
	}
	return u
}

func (r *SupabaseRepository) schedules() *postgrest.QueryBuilder { return r.client.From("schedules") }
func (r *SupabaseRepository) users() *postgrest.QueryBuilder     { return r.client.From("users") }

func (r *SupabaseRepository) GetByUserID(ctx context.Context, userID string) (*models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.Schedule
	if _, err := r.schedules().Select("*", "", false).Eq("user_id", userID).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("supabase: failed to fetch schedule: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *SupabaseRepository) Upsert(ctx context.Context, s *models.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := supabaseScheduleWrite{
		UserID:       s.UserID,
		TargetRepo:   s.TargetRepo,
		ScheduleTime: s.ScheduleTime,
		Timezone:     s.Timezone,
		ContentMode:  s.ContentStrategy,
		IsActive:     true,
		UpdatedAt:    r.now().UTC(),
	}
	var out []models.Schedule
	if _, err := r.schedules().Upsert(row, "user_id", "representation", "").ExecuteTo(&out); err != nil {
		return fmt.Errorf("supabase: failed to upsert schedule: %w", err)
	}
	if len(out) > 0 {
		s.ID, s.CreatedAt, s.UpdatedAt = out[0].ID, out[0].CreatedAt, out[0].UpdatedAt
	}
	s.IsActive = true
	return nil
}

func (r *SupabaseRepository) ListActiveWithCredentials(ctx context.Context) ([]models.ScheduledJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []supabaseScheduleRow
	_, err := r.schedules().
		Select("*, users!inner(username, access_token)", "", false).
		Eq("is_active", "true").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("supabase: failed to list active schedules: %w", err)
	}

	jobs := make([]models.ScheduledJob, 0, len(rows))
	for _, row := range rows {
		job := models.ScheduledJob{Schedule: row.Schedule}
		if row.Users != nil {
			job.Credential = models.Credential{Token: row.Users.AccessToken, Username: row.Users.Username}
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *SupabaseRepository) MarkRun(ctx context.Context, userID string, at time.Time) error {
	return r.updateSchedule(ctx, userID, map[string]any{"last_run_at": at.UTC()})
}

func (r *SupabaseRepository) Deactivate(ctx context.Context, userID string) error {
	return r.updateSchedule(ctx, userID, map[string]any{"is_active": false})
}

func (r *SupabaseRepository) updateSchedule(ctx context.Context, userID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fields["updated_at"] = r.now().UTC()
	if _, _, err := r.schedules().Update(fields, "minimal", "").Eq("user_id", userID).Execute(); err != nil {
		return fmt.Errorf("supabase: failed to update schedule: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) UpsertGitHubUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := supabaseUserRow{
		GitHubID:    u.GitHubID,
		Username:    u.Username,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		AccessToken: u.AccessToken,
		UpdatedAt:   r.now().UTC(),
	}
	var out []supabaseUserRow
	if _, err := r.users().Upsert(row, "github_id", "representation", "").ExecuteTo(&out); err != nil {
		return nil, fmt.Errorf("supabase: failed to upsert user: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("supabase: upsert returned no user row")
	}
	return out[0].toModel(), nil
}

func (r *SupabaseRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []supabaseUserRow
	if _, err := r.users().Select("*", "", false).Eq("id", id).ExecuteTo(&out); err != nil {
		return nil, fmt.Errorf("supabase: failed to fetch user: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out[0].toModel(), nil
}
