package models

import "time"

// MatchStatus represents match lifecycle states, matching the ENUM in the DB.
type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// allowedTransitions encodes the monotonic match lifecycle. Finished and
// cancelled are absorbing; leaving them requires an explicit manual reset
// outside this engine.
var allowedTransitions = map[MatchStatus][]MatchStatus{
	MatchStatusUpcoming: {MatchStatusLive, MatchStatusCancelled},
	MatchStatusLive:     {MatchStatusFinished, MatchStatusCancelled},
}

// CanTransition reports whether a match may move from one status to another.
// A no-op transition (from == to) is always allowed.
func CanTransition(from, to MatchStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is an absorbing state.
func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusFinished || s == MatchStatusCancelled
}

// Match is the internal record of a scheduled fixture.
type Match struct {
	ID            int         `json:"id" db:"id"`
	CompetitionID int         `json:"competition_id" db:"competition_id"`
	SportID       int         `json:"sport_id" db:"sport_id"`
	HomeTeamID    int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID    int         `json:"away_team_id" db:"away_team_id"`
	KickoffAt     time.Time   `json:"kickoff_at" db:"kickoff_at"`
	Status        MatchStatus `json:"status" db:"status"`

	// Provider binding. ExternalID, once set, permanently ties the match to
	// one provider fixture.
	ExternalID     *int64  `json:"external_id,omitempty" db:"external_id"`
	ExternalStatus *string `json:"external_status,omitempty" db:"external_status"`

	ElapsedMinute  *int       `json:"elapsed_minute,omitempty" db:"elapsed_minute"`
	HomeScoreLive  *int       `json:"home_score_live,omitempty" db:"home_score_live"`
	AwayScoreLive  *int       `json:"away_score_live,omitempty" db:"away_score_live"`
	HomeScoreFinal *int       `json:"home_score_final,omitempty" db:"home_score_final"`
	AwayScoreFinal *int       `json:"away_score_final,omitempty" db:"away_score_final"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty" db:"last_sync_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty" db:"finished_at"`

	// Joined team names, used for name-based provider matching.
	HomeTeamName string `json:"home_team_name,omitempty" db:"-"`
	AwayTeamName string `json:"away_team_name,omitempty" db:"-"`
}
