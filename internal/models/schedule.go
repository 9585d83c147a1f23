package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is used when a schedule has no timezone or an unresolvable one.
const DefaultTimezone = "UTC"

var (
	ErrInvalidRepoName     = errors.New("repository name must be in format: username/repository-name")
	ErrInvalidScheduleTime = errors.New("schedule time must be in HH:MM format (00:00-23:59)")
)

// Schedule はschedulesテーブルのレコードに対応する構造体です。
// ユーザーごとに1行 (user_id がユニーク)。
type Schedule struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id"`
	TargetRepo      string          `json:"target_repo"`
	ScheduleTime    string          `json:"schedule_time"` // ローカル時刻 "HH:MM"
	Timezone        string          `json:"timezone"`      // IANA名
	ContentStrategy ContentStrategy `json:"content_mode"`
	IsActive        bool            `json:"is_active"`
	LastRunAt       *time.Time      `json:"last_run_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ScheduledJob is an active schedule joined with its owner's credential.
type ScheduledJob struct {
	Schedule   Schedule
	Credential Credential
}

// RepoName is a validated "owner/name" pair.
type RepoName struct {
	Owner string
	Name  string
}

func (r RepoName) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoName validates s as "owner/name": exactly one slash with non-empty sides.
func ParseRepoName(s string) (RepoName, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return RepoName{}, ErrInvalidRepoName
	}
	owner := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if owner == "" || name == "" {
		return RepoName{}, ErrInvalidRepoName
	}
	return RepoName{Owner: owner, Name: name}, nil
}

// ParseScheduleTime validates a local wall-clock time and returns it zero-padded as HH:MM.
func ParseScheduleTime(s string) (string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return "", ErrInvalidScheduleTime
	}
	if !allDigits(parts[0]) || !allDigits(parts[1]) {
		return "", ErrInvalidScheduleTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return "", ErrInvalidScheduleTime
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return "", ErrInvalidScheduleTime
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// Atoi は符号を受け付けるため数字のみを許可する
func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveLocation loads an IANA zone, falling back to UTC.
// The returned name is the zone actually used.
func ResolveLocation(tz string) (*time.Location, string) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC, DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, DefaultTimezone
	}
	return loc, tz
}
