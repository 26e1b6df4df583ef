package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFixtureByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/42" {
			t.Errorf("path = %q, want /fixtures/42", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 42,
			"status": "FT",
			"home_name": "Arsenal",
			"away_name": "Chelsea",
			"home_score": 2,
			"away_score": 1,
			"kickoff_at": "2026-03-14T15:00:00Z"
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL, APIKey: "secret"})
	snapshot, err := client.FixtureByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("FixtureByID returned error: %v", err)
	}
	if snapshot.ExternalID != 42 {
		t.Errorf("ExternalID = %d, want 42", snapshot.ExternalID)
	}
	if snapshot.StatusCode != "FT" {
		t.Errorf("StatusCode = %q, want FT", snapshot.StatusCode)
	}
	if snapshot.HomeScore == nil || *snapshot.HomeScore != 2 || snapshot.AwayScore == nil || *snapshot.AwayScore != 1 {
		t.Errorf("scores = %v:%v, want 2:1", snapshot.HomeScore, snapshot.AwayScore)
	}
	if !snapshot.HasBothScores() {
		t.Error("HasBothScores = false with both scores present")
	}
	want := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	if !snapshot.KickoffAt.Equal(want) {
		t.Errorf("KickoffAt = %v, want %v", snapshot.KickoffAt, want)
	}
}

func TestFixturesByDateRangeQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sport") != "football" {
			t.Errorf("sport = %q, want football", q.Get("sport"))
		}
		if q.Get("from") != "2026-03-13" || q.Get("to") != "2026-03-15" {
			t.Errorf("window = %q..%q, want 2026-03-13..2026-03-15", q.Get("from"), q.Get("to"))
		}
		_, _ = w.Write([]byte(`{"fixtures": [{"id": 1, "status": "NS", "kickoff_at": "2026-03-14T15:00:00Z"}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	from := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	snapshots, err := client.FixturesByDateRange(context.Background(), "football", from, to)
	if err != nil {
		t.Fatalf("FixturesByDateRange returned error: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].ExternalID != 1 {
		t.Errorf("snapshots = %+v, want one fixture with id 1", snapshots)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		transient bool
	}{
		{"missing fixture", http.StatusNotFound, ErrFixtureNotFound, false},
		{"rate limited", http.StatusTooManyRequests, ErrProviderUnavailable, true},
		{"upstream outage", http.StatusBadGateway, ErrProviderUnavailable, true},
		{"internal error", http.StatusInternalServerError, ErrProviderUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
			_, err := client.FixtureByID(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if IsTransient(err) != tt.transient {
				t.Errorf("IsTransient(%v) = %v, want %v", err, IsTransient(err), tt.transient)
			}
		})
	}
}

func TestUnexpectedStatusIsNotTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no tea", http.StatusTeapot)
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := client.FixtureByID(context.Background(), 1)
	if err == nil {
		t.Fatal("expected an error for an unexpected status")
	}
	if IsTransient(err) {
		t.Error("a 4xx outside the retry set must not be treated as transient")
	}
	if errors.Is(err, ErrFixtureNotFound) {
		t.Error("a teapot is not a missing fixture")
	}
}

func TestConnectionRefusedIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client := NewHTTPClient(HTTPClientConfig{BaseURL: server.URL})
	_, err := client.FixtureByID(context.Background(), 1)
	if !IsTransient(err) {
		t.Errorf("connection failure should be transient, got %v", err)
	}
}
