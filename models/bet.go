package models

import "time"

// Bet is a user's predicted final score for one match. Points are written
// exclusively by the scoring engine when the match finalizes; recomputation
// from the same final score always yields the same value.
type Bet struct {
	ID            int       `json:"id" db:"id"`
	UserID        int       `json:"user_id" db:"user_id"`
	MatchID       int       `json:"match_id" db:"match_id"`
	PredictedHome int       `json:"predicted_home" db:"predicted_home"`
	PredictedAway int       `json:"predicted_away" db:"predicted_away"`
	Points        int       `json:"points" db:"points"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
