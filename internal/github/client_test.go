package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

var testRepo = models.RepoName{Owner: "octo", Name: "daily-log"}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewFactory(Options{
		BaseURL:       srv.URL,
		GraphQLURL:    srv.URL + "/graphql",
		RetryInterval: time.Millisecond,
		MaxRetries:    2,
	}).Client("test-token")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestGetFile(t *testing.T) {
	t.Run("decodes content and sha", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/octo/daily-log/contents/README.md", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"type":     "file",
				"encoding": "base64",
				"content":  base64.StdEncoding.EncodeToString([]byte("# Log")),
				"sha":      "abc123",
			})
		}))

		file, err := client.GetFile(context.Background(), testRepo, "README.md")
		require.NoError(t, err)
		require.NotNil(t, file)
		assert.Equal(t, "# Log", file.Content)
		assert.Equal(t, "abc123", file.SHA)
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		}))

		file, err := client.GetFile(context.Background(), testRepo, "README.md")
		require.NoError(t, err)
		assert.Nil(t, file)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				writeJSON(w, http.StatusBadGateway, map[string]string{"message": "bad gateway"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"type":     "file",
				"encoding": "base64",
				"content":  base64.StdEncoding.EncodeToString([]byte("ok")),
				"sha":      "s",
			})
		}))

		file, err := client.GetFile(context.Background(), testRepo, "README.md")
		require.NoError(t, err)
		assert.Equal(t, "ok", file.Content)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		}))

		_, err := client.GetFile(context.Background(), testRepo, "README.md")
		require.Error(t, err)
		assert.Equal(t, models.ErrorKindAuthExpired, Classify(err).Kind)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		}))

		_, err := client.GetFile(context.Background(), testRepo, "README.md")
		require.Error(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})
}

func TestPutFile(t *testing.T) {
	type putBody struct {
		Message string `json:"message"`
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}

	t.Run("update sends sha", func(t *testing.T) {
		var got putBody
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &got))
			writeJSON(w, http.StatusOK, map[string]any{})
		}))

		err := client.PutFile(context.Background(), testRepo, "README.md", "DailyDiff: Log update for 2025-01-02", "hello", "abc123")
		require.NoError(t, err)
		assert.Equal(t, "DailyDiff: Log update for 2025-01-02", got.Message)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("hello")), got.Content)
		assert.Equal(t, "abc123", got.SHA)
	})

	t.Run("create omits sha", func(t *testing.T) {
		var raw map[string]any
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &raw))
			writeJSON(w, http.StatusCreated, map[string]any{})
		}))

		require.NoError(t, client.PutFile(context.Background(), testRepo, "README.md", "msg", "x", ""))
		_, hasSHA := raw["sha"]
		assert.False(t, hasSHA)
	})

	t.Run("writes are not retried", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		}))

		err := client.PutFile(context.Background(), testRepo, "README.md", "msg", "x", "")
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestPutFile_ErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   models.ErrorKind
	}{
		{http.StatusNotFound, models.ErrorKindNotFound},
		{http.StatusForbidden, models.ErrorKindPermissionDenied},
		{http.StatusUnauthorized, models.ErrorKindAuthExpired},
		{http.StatusTooManyRequests, models.ErrorKindRateLimited},
		{http.StatusInternalServerError, models.ErrorKindUnknown},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, map[string]string{"message": "upstream says no"})
			}))

			err := client.PutFile(context.Background(), testRepo, "README.md", "msg", "x", "")
			require.Error(t, err)

			var ghErr *Error
			require.True(t, errors.As(err, &ghErr))
			assert.Equal(t, tc.want, ghErr.Kind)
			assert.Equal(t, tc.status, ghErr.Status)
			assert.Equal(t, "upstream says no", ghErr.Message)
		})
	}
}

func TestContributionCalendar(t *testing.T) {
	calendar := map[string]any{
		"contributionsCollection": map[string]any{
			"contributionCalendar": map[string]any{
				"weeks": []any{
					map[string]any{"contributionDays": []any{
						map[string]any{"date": "2025-01-01", "contributionCount": 0},
						map[string]any{"date": "2025-01-02", "contributionCount": 3},
					}},
					map[string]any{"contributionDays": []any{
						map[string]any{"date": "2025-01-03", "contributionCount": 1},
					}},
				},
			},
		},
	}

	t.Run("user login", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/graphql", r.URL.Path)
			var req struct {
				Query     string         `json:"query"`
				Variables map[string]any `json:"variables"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.Query, "user(login: $login)")
			assert.Equal(t, "octo", req.Variables["login"])
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"user": calendar}})
		}))

		days, err := client.ContributionCalendar(context.Background(), "octo")
		require.NoError(t, err)
		assert.Equal(t, []models.ContributionDay{
			{Date: "2025-01-01", Count: 0},
			{Date: "2025-01-02", Count: 3},
			{Date: "2025-01-03", Count: 1},
		}, days)
	})

	t.Run("viewer when login is empty", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"viewer": calendar}})
		}))

		days, err := client.ContributionCalendar(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, days, 3)
	})

	t.Run("unknown user", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"user": nil}})
		}))

		_, err := client.ContributionCalendar(context.Background(), "ghost")
		require.Error(t, err)
		assert.Equal(t, models.ErrorKindNotFound, Classify(err).Kind)
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Bad credentials", http.StatusUnauthorized)
		}))

		_, err := client.ContributionCalendar(context.Background(), "octo")
		require.Error(t, err)
		assert.Equal(t, models.ErrorKindAuthExpired, Classify(err).Kind)
	})
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	assert.Equal(t, models.ErrorKindTimeout, Classify(context.DeadlineExceeded).Kind)
	assert.True(t, Classify(context.DeadlineExceeded).Transient())

	rl := Classify(errors.New("API rate limit exceeded for user ID 1"))
	assert.Equal(t, models.ErrorKindRateLimited, rl.Kind)
	assert.False(t, rl.Transient())

	status := Classify(errors.New("non-200 OK status code: 403 Forbidden body: \"\""))
	assert.Equal(t, models.ErrorKindPermissionDenied, status.Kind)
	assert.Equal(t, 403, status.Status)

	other := Classify(errors.New("something odd"))
	assert.Equal(t, models.ErrorKindUnknown, other.Kind)
	assert.Equal(t, "something odd", other.Message)

	already := &Error{Kind: models.ErrorKindNotFound}
	assert.Same(t, already, Classify(already))
}

func TestActivitySummary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "octo", "public_repos": 12, "public_gists": 2, "followers": 40})
	})
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"name": "a"}, {"name": "b"}, {"name": "c"}, {"name": "d"},
		})
	})
	mux.HandleFunc("/users/octo/events/public", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"type": "PushEvent", "created_at": "2025-01-02T10:00:00Z"},
			{"type": "PushEvent", "created_at": "2025-01-02T12:00:00Z"},
			{"type": "PushEvent", "created_at": "2025-01-01T09:00:00Z"},
			{"type": "WatchEvent", "created_at": "2024-12-30T09:00:00Z"},
		})
	})
	client := newTestClient(t, mux)

	summary, err := client.ActivitySummary(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, "octo", summary.Username)
	assert.Equal(t, 12, summary.PublicRepos)
	assert.Equal(t, 2, summary.PublicGists)
	assert.Equal(t, 40, summary.Followers)
	assert.Equal(t, []string{"a", "b", "c"}, summary.RecentRepos)
	assert.Equal(t, 3, summary.PushEvents)
	assert.Equal(t, 2, summary.RecentCommits)
	assert.Equal(t, 3, summary.ActiveDays)
}

func TestViewer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 583231, "login": "octocat", "email": "octo@example.com",
			"avatar_url": "https://avatars.githubusercontent.com/u/583231",
		})
	})
	client := newTestClient(t, mux)

	profile, err := client.Viewer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "583231", profile.ID)
	assert.Equal(t, "octocat", profile.Login)
	assert.Equal(t, "octo@example.com", profile.Email)
	assert.Equal(t, "https://avatars.githubusercontent.com/u/583231", profile.AvatarURL)
}

func TestProber(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodHead, r.Method)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		assert.NoError(t, NewProber(srv.URL, time.Second).Probe(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		assert.Error(t, NewProber(srv.URL, time.Second).Probe(context.Background()))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		assert.Error(t, NewProber(srv.URL, 20*time.Millisecond).Probe(context.Background()))
	})
}
