package models

// Sport describes a discipline. DurationMinutes is the regulation playing
// time and bounds the elapsed minute reported by the provider.
type Sport struct {
	ID              int    `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
}
