package services

import (
	"testing"

	"github.com/Dosada05/prediction-league/models"
)

func TestMapExternalStatus(t *testing.T) {
	tests := []struct {
		code  string
		want  models.MatchStatus
		known bool
	}{
		{"NS", models.MatchStatusUpcoming, true},
		{"TBD", models.MatchStatusUpcoming, true},
		{"PST", models.MatchStatusUpcoming, true},
		{"1H", models.MatchStatusLive, true},
		{"HT", models.MatchStatusLive, true},
		{"2H", models.MatchStatusLive, true},
		{"ET", models.MatchStatusLive, true},
		{"BT", models.MatchStatusLive, true},
		{"P", models.MatchStatusLive, true},
		{"LIVE", models.MatchStatusLive, true},
		{"FT", models.MatchStatusFinished, true},
		{"AET", models.MatchStatusFinished, true},
		{"PEN", models.MatchStatusFinished, true},
		{"CANC", models.MatchStatusCancelled, true},
		{"ABD", models.MatchStatusCancelled, true},
		{"AWD", models.MatchStatusCancelled, true},
		{"WO", models.MatchStatusCancelled, true},
		{"SUSP", models.MatchStatusCancelled, true},
		{"INT", models.MatchStatusCancelled, true},
		{"XYZ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, known := mapExternalStatus(tt.code)
		if known != tt.known {
			t.Errorf("mapExternalStatus(%q) known = %v, want %v", tt.code, known, tt.known)
			continue
		}
		if known && got != tt.want {
			t.Errorf("mapExternalStatus(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}
