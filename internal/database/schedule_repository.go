package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// ScheduleRepository はスケジュール関連のデータベース操作を定義するインターフェースです。
type ScheduleRepository interface {
	// GetByUserID returns (nil, nil) when the user has no schedule.
	GetByUserID(ctx context.Context, userID string) (*models.Schedule, error)
	// Upsert replaces the user's schedule wholesale and activates it.
	Upsert(ctx context.Context, s *models.Schedule) error
	// ListActiveWithCredentials joins active schedules with their owner's credential.
	ListActiveWithCredentials(ctx context.Context) ([]models.ScheduledJob, error)
	MarkRun(ctx context.Context, userID string, at time.Time) error
	Deactivate(ctx context.Context, userID string) error
}

// scheduleRepositoryImpl はScheduleRepositoryインターフェースのPostgreSQL実装です。
type scheduleRepositoryImpl struct {
	db *sql.DB
}

// NewScheduleRepository はScheduleRepositoryの新しいインスタンスを作成します。
func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

const scheduleColumns = `s.id, s.user_id, s.target_repo, s.schedule_time, s.timezone, s.content_mode,
	s.is_active, s.last_run_at, s.created_at, s.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner, extra ...any) (*models.Schedule, error) {
	var s models.Schedule
	var lastRun sql.NullTime
	dest := append([]any{
		&s.ID, &s.UserID, &s.TargetRepo, &s.ScheduleTime, &s.Timezone, &s.ContentStrategy,
		&s.IsActive, &lastRun, &s.CreatedAt, &s.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if lastRun.Valid {
		t := lastRun.Time
		s.LastRunAt = &t
	}
	return &s, nil
}

func (r *scheduleRepositoryImpl) GetByUserID(ctx context.Context, userID string) (*models.Schedule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM schedules s WHERE s.user_id = $1`, userID)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // スケジュール未設定
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーIDでスケジュールを取得できませんでした: %w", err)
	}
	return s, nil
}

func (r *scheduleRepositoryImpl) Upsert(ctx context.Context, s *models.Schedule) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO schedules (user_id, target_repo, schedule_time, timezone, content_mode, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (user_id) DO UPDATE SET
			target_repo   = EXCLUDED.target_repo,
			schedule_time = EXCLUDED.schedule_time,
			timezone      = EXCLUDED.timezone,
			content_mode  = EXCLUDED.content_mode,
			is_active     = TRUE,
			updated_at    = NOW()
		RETURNING id, created_at, updated_at`,
		s.UserID, s.TargetRepo, s.ScheduleTime, s.Timezone, s.ContentStrategy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("スケジュールの保存に失敗しました: %w", err)
	}
	s.IsActive = true
	return nil
}

func (r *scheduleRepositoryImpl) ListActiveWithCredentials(ctx context.Context) ([]models.ScheduledJob, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+scheduleColumns+`, u.username, u.access_token
		FROM schedules s
		JOIN users u ON u.id = s.user_id
		WHERE s.is_active
		ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("有効なスケジュールのクエリに失敗しました: %w", err)
	}
	defer rows.Close()

	jobs := []models.ScheduledJob{}
	for rows.Next() {
		var cred models.Credential
		s, err := scanSchedule(rows, &cred.Username, &cred.Token)
		if err != nil {
			return nil, fmt.Errorf("スケジュールのスキャンに失敗しました: %w", err)
		}
		jobs = append(jobs, models.ScheduledJob{Schedule: *s, Credential: cred})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スケジュールの行イテレーション中にエラーが発生しました: %w", err)
	}
	return jobs, nil
}

func (r *scheduleRepositoryImpl) MarkRun(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE schedules SET last_run_at = $1, updated_at = NOW() WHERE user_id = $2`, at.UTC(), userID)
	if err != nil {
		return fmt.Errorf("最終実行時刻の更新に失敗しました: %w", err)
	}
	return nil
}

func (r *scheduleRepositoryImpl) Deactivate(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE schedules SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("スケジュールの無効化に失敗しました: %w", err)
	}
	return nil
}
