package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/prediction-league/services"
)

func TestParseWindowDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/sync/reconcile?sport=1", nil)

	window, err := parseWindow(r)
	if err != nil {
		t.Fatalf("parseWindow returned error: %v", err)
	}

	now := time.Now().UTC()
	if d := now.Add(-24 * time.Hour).Sub(window.From); d < -time.Minute || d > time.Minute {
		t.Errorf("default From = %v, want roughly 24h ago", window.From)
	}
	if d := now.Add(24 * time.Hour).Sub(window.To); d < -time.Minute || d > time.Minute {
		t.Errorf("default To = %v, want roughly 24h ahead", window.To)
	}
}

func TestParseWindowExplicitDates(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/sync/reconcile?sport=1&from=2026-03-13&to=2026-03-15", nil)

	window, err := parseWindow(r)
	if err != nil {
		t.Fatalf("parseWindow returned error: %v", err)
	}

	wantFrom := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	if !window.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", window.From, wantFrom)
	}
	// The end date is inclusive: a kickoff late on the 15th is in scope.
	lateKickoff := time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC)
	if window.To.Before(lateKickoff) {
		t.Errorf("To = %v, must cover the whole end day", window.To)
	}
	if window.To.After(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("To = %v, must not spill into the next day", window.To)
	}
}

func TestParseWindowRejectsMalformedDates(t *testing.T) {
	for _, target := range []string{
		"/sync/reconcile?from=13-03-2026",
		"/sync/reconcile?to=tomorrow",
	} {
		r := httptest.NewRequest(http.MethodPost, target, nil)
		if _, err := parseWindow(r); err == nil {
			t.Errorf("parseWindow accepted %q", target)
		}
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown sport", services.ErrSportNotFound, http.StatusNotFound},
		{"unknown competition", services.ErrCompetitionNotFound, http.StatusNotFound},
		{"inverted window", services.ErrInvalidSyncWindow, http.StatusBadRequest},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
