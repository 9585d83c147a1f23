// Package commit appends a dated entry to a repository's README on behalf of a user.
package commit

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// LogPath is the file every entry is appended to.
const LogPath = "README.md"

// ContentGenerator resolves the text for a strategy.
type ContentGenerator interface {
	Generate(ctx context.Context, strategy models.ContentStrategy, cred models.Credential) string
}

// Executor performs one read-append-write cycle per job.
type Executor struct {
	provider github.Provider
	content  ContentGenerator
	now      func() time.Time
}

// NewExecutor creates a new Executor.
func NewExecutor(provider github.Provider, content ContentGenerator) *Executor {
	return &Executor{provider: provider, content: content, now: time.Now}
}

// AppendEntry returns existing followed by a blank line and a bolded, dated bullet.
func AppendEntry(existing, isoDate, text string) string {
	return existing + "\n\n- **" + isoDate + "**: " + text
}

// CommitMessage is the fixed commit message for date.
func CommitMessage(isoDate string) string {
	return "DailyDiff: Log update for " + isoDate
}

// Execute runs job and reports the outcome. It never returns an error or panics;
// failures are described by the result's ErrorKind. Nothing is retried here.
func (e *Executor) Execute(ctx context.Context, job models.CommitJob) (result models.CommitResult) {
	logger := log.WithFields(log.Fields{
		"repo":     job.Repo.String(),
		"strategy": job.Strategy,
		"user":     job.ActorUsername,
	})

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("commit: panic during execution: %v", rec)
			result = models.CommitResult{
				Strategy:    job.Strategy,
				ErrorKind:   models.ErrorKindUnknown,
				ErrorDetail: fmt.Sprintf("internal error: %v", rec),
			}
		}
	}()

	api := e.provider.ForToken(job.Credential.Token)

	existing, err := api.GetFile(ctx, job.Repo, LogPath)
	if err != nil {
		return failure(logger, job, err)
	}

	text := job.MessageOverride
	if text == "" {
		text = e.content.Generate(ctx, job.Strategy, job.Credential)
	}

	isoDate := e.now().UTC().Format("2006-01-02")
	var previous, sha string
	if existing != nil {
		previous, sha = existing.Content, existing.SHA
	}

	if err := api.PutFile(ctx, job.Repo, LogPath, CommitMessage(isoDate), AppendEntry(previous, isoDate, text), sha); err != nil {
		return failure(logger, job, err)
	}

	logger.WithField("created", existing == nil).Info("commit: entry pushed")
	return models.CommitResult{Success: true, AppendedText: text, Strategy: job.Strategy}
}

func failure(logger *log.Entry, job models.CommitJob, err error) models.CommitResult {
	classified := github.Classify(err)
	logger.WithFields(log.Fields{
		"kind":   classified.Kind,
		"status": classified.Status,
	}).Warn("commit: failed to push entry")

	res := models.CommitResult{Strategy: job.Strategy, ErrorKind: classified.Kind}
	if classified.Kind == models.ErrorKindUnknown {
		res.ErrorDetail = classified.Message
	}
	return res
}
