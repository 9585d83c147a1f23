package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoName(t *testing.T) {
	repo, err := ParseRepoName("owner/repo")
	require.NoError(t, err)
	assert.Equal(t, RepoName{Owner: "owner", Name: "repo"}, repo)
	assert.Equal(t, "owner/repo", repo.String())

	repo, err = ParseRepoName("  octocat/daily-log ")
	require.NoError(t, err)
	assert.Equal(t, "octocat/daily-log", repo.String())

	for _, bad := range []string{"owner", "owner/repo/extra", "", "/repo", "owner/", " / ", "/"} {
		_, err := ParseRepoName(bad)
		assert.ErrorIs(t, err, ErrInvalidRepoName, "input %q", bad)
	}
}

func TestParseScheduleTime(t *testing.T) {
	cases := map[string]string{
		"00:00":   "00:00",
		"09:05":   "09:05",
		"9:05":    "09:05",
		"23:59":   "23:59",
		" 14:30 ": "14:30",
	}
	for in, want := range cases {
		got, err := ParseScheduleTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "24:00", "12:60", "12", "12:5", "ab:cd", "-1:30", "+9:05", "09:+5", "1 :30", "123:00", "12:30:00"} {
		_, err := ParseScheduleTime(bad)
		assert.ErrorIs(t, err, ErrInvalidScheduleTime, "input %q", bad)
	}
}

func TestResolveLocation(t *testing.T) {
	loc, name := ResolveLocation("Asia/Tokyo")
	assert.Equal(t, "Asia/Tokyo", name)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	loc, name = ResolveLocation("")
	assert.Equal(t, time.UTC, loc)
	assert.Equal(t, DefaultTimezone, name)

	loc, name = ResolveLocation("Mars/Olympus_Mons")
	assert.Equal(t, time.UTC, loc)
	assert.Equal(t, DefaultTimezone, name)
}

func TestParseContentStrategy(t *testing.T) {
	for _, s := range AllStrategies {
		assert.Equal(t, s, ParseContentStrategy(string(s)))
		assert.True(t, s.Known())
	}
	assert.Equal(t, StrategyLearningLog, ParseContentStrategy("haiku"))
	assert.Equal(t, StrategyLearningLog, ParseContentStrategy(""))
	assert.False(t, ContentStrategy("haiku").Known())
}

func TestCommitResultMessage(t *testing.T) {
	assert.Empty(t, CommitResult{Success: true}.Message())
	assert.Contains(t, CommitResult{ErrorKind: ErrorKindNotFound}.Message(), "Repository not found")
	assert.Contains(t, CommitResult{ErrorKind: ErrorKindPermissionDenied}.Message(), "Permission denied")
	assert.Contains(t, CommitResult{ErrorKind: ErrorKindAuthExpired}.Message(), "re-login")
	assert.Equal(t, "boom", CommitResult{ErrorKind: ErrorKindUnknown, ErrorDetail: "boom"}.Message())
	assert.Equal(t, "Unknown error occurred", CommitResult{ErrorKind: ErrorKindUnknown}.Message())
}
