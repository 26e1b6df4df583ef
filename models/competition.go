package models

import "time"

// CompetitionStatus represents competition lifecycle states, matching the ENUM in the DB.
type CompetitionStatus string

const (
	CompetitionStatusUpcoming  CompetitionStatus = "upcoming"
	CompetitionStatusActive    CompetitionStatus = "active"
	CompetitionStatusCompleted CompetitionStatus = "completed"
)

// Competition groups matches. It is promoted to active automatically once
// any of its matches goes live or finishes.
type Competition struct {
	ID        int               `json:"id" db:"id"`
	SportID   int               `json:"sport_id" db:"sport_id"`
	Name      string            `json:"name" db:"name"`
	Status    CompetitionStatus `json:"status" db:"status"`
	StartDate time.Time         `json:"start_date" db:"start_date"`
	EndDate   time.Time         `json:"end_date" db:"end_date"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
