package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQLドライバー
	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DatabaseService owns the PostgreSQL connection pool.
type DatabaseService struct {
	DB *sql.DB
}

// NewDatabaseService opens a connection pool and verifies it with a ping.
func NewDatabaseService(ctx context.Context, databaseURL string) (*DatabaseService, error) {
	log.Debugf("データベース接続を試行中: %s...", redact(databaseURL))

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("データベースへの接続オブジェクト作成に失敗しました: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("データベースのPingに失敗しました。接続情報やネットワークを確認してください: %w", err)
	}

	log.Info("データベースに正常に接続しました。")
	return &DatabaseService{DB: db}, nil
}

// Ping checks connectivity and returns the server version string.
func (s *DatabaseService) Ping(ctx context.Context) (string, error) {
	if err := s.DB.PingContext(ctx); err != nil {
		return "", fmt.Errorf("ping failed: %w", err)
	}
	var version string
	if err := s.DB.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("SELECT version() failed: %w", err)
	}
	return version, nil
}

// Close closes the pool.
func (s *DatabaseService) Close() error {
	return s.DB.Close()
}

// redact keeps only the scheme and host portion of a connection string for logs.
func redact(databaseURL string) string {
	const keep = 24
	if len(databaseURL) <= keep {
		return databaseURL
	}
	return databaseURL[:keep]
}
