// Package streak computes consecutive-day contribution streaks.
package streak

import (
	"sort"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/models"
)

// Result is the computed streak for a contribution calendar.
type Result struct {
	Streak               int     `json:"streak"`
	LastContributionDate *string `json:"lastContributionDate"`
}

// Calculate walks the calendar from newest to oldest and counts consecutive days
// with contributions. today is a YYYY-MM-DD date; days after it are ignored and a
// zero on today itself does not end the streak.
func Calculate(days []models.ContributionDay, today string) Result {
	sorted := make([]models.ContributionDay, len(days))
	copy(sorted, days)
	// ISO dates sort lexicographically.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	var res Result
	counting := true
	for _, day := range sorted {
		if day.Date > today {
			continue
		}
		if day.Count > 0 && res.LastContributionDate == nil {
			date := day.Date
			res.LastContributionDate = &date
		}
		if !counting {
			if res.LastContributionDate != nil {
				break
			}
			continue
		}
		switch {
		case day.Count > 0:
			res.Streak++
		case day.Date == today:
			// today may still get a contribution
		default:
			counting = false
		}
	}
	return res
}
