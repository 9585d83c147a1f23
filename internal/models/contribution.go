package models

// ContributionDay is one cell of the GitHub contribution calendar.
type ContributionDay struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
