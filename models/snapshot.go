package models

import "time"

// ExternalSnapshot is the provider-reported state for one fixture. It is
// consumed and discarded within a single reconciliation pass, never persisted.
type ExternalSnapshot struct {
	ExternalID    int64
	StatusCode    string
	HomeTeamName  string
	AwayTeamName  string
	HomeScore     *int
	AwayScore     *int
	ElapsedMinute *int
	KickoffAt     time.Time
}

// HasBothScores reports whether the provider supplied a complete scoreline.
// A terminal status code without both scores must not finalize a match.
func (s *ExternalSnapshot) HasBothScores() bool {
	return s.HomeScore != nil && s.AwayScore != nil
}
