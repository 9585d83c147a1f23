package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// UserRepository はユーザー関連のデータベース操作を定義するインターフェースです。
type UserRepository interface {
	// UpsertGitHubUser inserts or refreshes the user identified by GitHubID and returns the stored row.
	UpsertGitHubUser(ctx context.Context, u *models.User) (*models.User, error)
	// GetByID returns ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userRepositoryImpl struct {
	db *sql.DB
}

// NewUserRepository はUserRepositoryの新しいインスタンスを作成します。
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) UpsertGitHubUser(ctx context.Context, u *models.User) (*models.User, error) {
	out := *u
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, github_id, username, email, avatar_url, access_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (github_id) DO UPDATE SET
			username     = EXCLUDED.username,
			email        = EXCLUDED.email,
			avatar_url   = EXCLUDED.avatar_url,
			access_token = EXCLUDED.access_token,
			updated_at   = NOW()
		RETURNING id, created_at, updated_at`,
		uuid.New().String(), u.GitHubID, u.Username, u.Email, u.AvatarURL, u.AccessToken,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの保存に失敗しました: %w", err)
	}
	return &out, nil
}

func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var u models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, github_id, username, email, avatar_url, access_token, created_at, updated_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.GitHubID, &u.Username, &u.Email, &u.AvatarURL, &u.AccessToken, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return &u, nil
}
