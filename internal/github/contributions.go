package github

import (
	"context"

	"github.com/shurcooL/githubv4"
	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// contributionCalendar は weeks -> contributionDays の入れ子構造をそのまま表します。
type contributionCalendar struct {
	Weeks []struct {
		ContributionDays []struct {
			Date              string
			ContributionCount int
		}
	}
}

type viewerCalendarQuery struct {
	Viewer struct {
		ContributionsCollection struct {
			ContributionCalendar contributionCalendar
		}
	}
}

type userCalendarQuery struct {
	User *struct { // 存在しないユーザーの場合は null
		ContributionsCollection struct {
			ContributionCalendar contributionCalendar
		}
	} `graphql:"user(login: $login)"`
}

// ContributionCalendar fetches roughly the last year of daily contribution counts.
// An empty login queries the token's own account (viewer).
func (c *Client) ContributionCalendar(ctx context.Context, login string) ([]models.ContributionDay, error) {
	var cal contributionCalendar
	err := c.retryRead(ctx, "contribution_calendar", func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, c.opts.GraphQLTimeout)
		defer cancel()

		if login == "" {
			var q viewerCalendarQuery
			if err := c.gql.Query(reqCtx, &q, nil); err != nil {
				return err
			}
			cal = q.Viewer.ContributionsCollection.ContributionCalendar
			return nil
		}

		var q userCalendarQuery
		if err := c.gql.Query(reqCtx, &q, map[string]interface{}{"login": githubv4.String(login)}); err != nil {
			return err
		}
		if q.User == nil {
			return &Error{Kind: models.ErrorKindNotFound, Message: "user " + login + " not found"}
		}
		cal = q.User.ContributionsCollection.ContributionCalendar
		return nil
	})
	if err != nil {
		return nil, err
	}

	days := flattenCalendar(cal)
	log.WithFields(log.Fields{"login": login, "days": len(days)}).Debug("github: contribution calendar fetched")
	return days, nil
}

func flattenCalendar(cal contributionCalendar) []models.ContributionDay {
	days := make([]models.ContributionDay, 0, len(cal.Weeks)*7)
	for _, week := range cal.Weeks {
		for _, day := range week.ContributionDays {
			days = append(days, models.ContributionDay{Date: day.Date, Count: day.ContributionCount})
		}
	}
	return days
}
