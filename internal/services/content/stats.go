package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/github"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

var errNoCredential = errors.New("no GitHub credential for stats")

// githubStats summarizes the user's recent public activity. Lookup failures and
// timeouts produce one of the canned statsFallbacks instead of an error.
func (r *Registry) githubStats(ctx context.Context, cred models.Credential, d dates) (string, error) {
	summary, err := r.fetchSummary(ctx, cred)
	if err != nil {
		log.WithFields(log.Fields{
			"username": cred.Username,
			"kind":     github.Classify(err).Kind,
		}).Warn("content: GitHub stats unavailable, using fallback")
		return fmt.Sprintf("%s [Day %d/365]", r.choose(statsFallbacks), d.dayOfYear), nil
	}

	mostActive := "various projects"
	if len(summary.RecentRepos) > 0 {
		mostActive = summary.RecentRepos[0]
	}
	latest := summary.RecentRepos
	if len(latest) > 2 {
		latest = latest[:2]
	}

	templates := []string{
		fmt.Sprintf("📊 GitHub Activity: %d recent commits across %d repositories | Active streak: %d days",
			summary.RecentCommits, len(summary.RecentRepos), summary.ActiveDays),
		fmt.Sprintf("🔥 Contribution Update: %d public repos, %d followers | Recent work on: %s",
			summary.PublicRepos, summary.Followers, strings.Join(summary.RecentRepos, ", ")),
		fmt.Sprintf("⚡ Development Stats: %d recent pushes | Most active in: %s",
			summary.PushEvents, mostActive),
		fmt.Sprintf("📈 Progress Tracking: %d gists shared | Latest commits in %s",
			summary.PublicGists, strings.Join(latest, " & ")),
		fmt.Sprintf("🚀 Coding Journey: Day %d of %d | Recent activity: %d active days this period",
			d.dayOfYear, d.year, summary.ActiveDays),
	}
	return fmt.Sprintf("%s [%s]", r.choose(templates), d.readable), nil
}

func (r *Registry) fetchSummary(ctx context.Context, cred models.Credential) (*github.ActivitySummary, error) {
	if r.provider == nil || cred.Token == "" || cred.Username == "" {
		return nil, errNoCredential
	}
	ctx, cancel := context.WithTimeout(ctx, r.statsTimeout)
	defer cancel()
	return r.provider.ForToken(cred.Token).ActivitySummary(ctx, cred.Username)
}
