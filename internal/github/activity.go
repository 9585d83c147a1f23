package github

import (
	"context"

	gh "github.com/google/go-github/v59/github"
)

// ActivitySummary is the public activity snapshot used by the stats content strategy.
type ActivitySummary struct {
	Username      string
	PublicRepos   int
	PublicGists   int
	Followers     int
	RecentRepos   []string // names of the most recently updated repositories, newest first
	PushEvents    int
	RecentCommits int
	ActiveDays    int // distinct UTC days among recent public events
}

const (
	recentRepoLimit   = 3
	recentCommitLimit = 2
)

// ActivitySummary collects profile, recently updated repositories and recent public events for username.
func (c *Client) ActivitySummary(ctx context.Context, username string) (*ActivitySummary, error) {
	var user *gh.User
	err := c.retryRead(ctx, "get_user", func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RESTTimeout)
		defer cancel()
		var err error
		user, _, err = c.rest.Users.Get(reqCtx, username)
		return err
	})
	if err != nil {
		return nil, err
	}

	var repos []*gh.Repository
	err = c.retryRead(ctx, "list_repos", func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RESTTimeout)
		defer cancel()
		var err error
		repos, _, err = c.rest.Repositories.ListByUser(reqCtx, username, &gh.RepositoryListByUserOptions{
			Sort:        "updated",
			ListOptions: gh.ListOptions{PerPage: 5},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var events []*gh.Event
	err = c.retryRead(ctx, "list_events", func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RESTTimeout)
		defer cancel()
		var err error
		events, _, err = c.rest.Activity.ListEventsPerformedByUser(reqCtx, username, true, &gh.ListOptions{PerPage: 10})
		return err
	})
	if err != nil {
		return nil, err
	}

	return summarize(user, repos, events), nil
}

func summarize(user *gh.User, repos []*gh.Repository, events []*gh.Event) *ActivitySummary {
	s := &ActivitySummary{
		Username:    user.GetLogin(),
		PublicRepos: user.GetPublicRepos(),
		PublicGists: user.GetPublicGists(),
		Followers:   user.GetFollowers(),
	}

	for _, r := range repos {
		if len(s.RecentRepos) == recentRepoLimit {
			break
		}
		s.RecentRepos = append(s.RecentRepos, r.GetName())
	}

	activeDays := map[string]struct{}{}
	for _, e := range events {
		if e.GetType() == "PushEvent" {
			s.PushEvents++
		}
		if e.CreatedAt != nil {
			activeDays[e.GetCreatedAt().UTC().Format("2006-01-02")] = struct{}{}
		}
	}
	s.RecentCommits = min(s.PushEvents, recentCommitLimit)
	s.ActiveDays = len(activeDays)
	return s
}
