package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/prediction-league/broadcast"
	"github.com/Dosada05/prediction-league/services"
)

const dateLayout = "2006-01-02"

// SyncHandler exposes the cron-facing reconciliation triggers, the manual
// broadcast trigger and the missed-prediction aggregate.
type SyncHandler struct {
	syncService    services.SyncService
	scoringService services.ScoringService
	hub            *broadcast.Hub
}

func NewSyncHandler(syncService services.SyncService, scoringService services.ScoringService, hub *broadcast.Hub) *SyncHandler {
	return &SyncHandler{
		syncService:    syncService,
		scoringService: scoringService,
		hub:            hub,
	}
}

// Reconcile triggers one pass for one sport.
// POST /sync/reconcile?sport={id}&from={date}&to={date}
func (h *SyncHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	sportID, err := strconv.Atoi(r.URL.Query().Get("sport"))
	if err != nil {
		badRequestResponse(w, fmt.Errorf("invalid or missing sport query parameter"))
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	report, err := h.syncService.ReconcileSport(r.Context(), sportID, window)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, report); err != nil {
		serverErrorResponse(w, err)
	}
}

// ReconcileAll triggers one pass per sport.
// POST /sync/reconcile-all?from={date}&to={date}
func (h *SyncHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	reports, err := h.syncService.ReconcileAllSports(r.Context(), window)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, reports); err != nil {
		serverErrorResponse(w, err)
	}
}

// NotifyChange triggers one broadcast. Used by the kickoff worker process.
// POST /sync/notify
func (h *SyncHandler) NotifyChange(w http.ResponseWriter, r *http.Request) {
	delivered := h.hub.NotifyChange()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"subscribers": delivered}); err != nil {
		serverErrorResponse(w, err)
	}
}

// MissedPredictions reports the derived missed-prediction count.
// GET /competitions/{competitionID}/users/{userID}/missed-predictions
func (h *SyncHandler) MissedPredictions(w http.ResponseWriter, r *http.Request) {
	competitionID, err := strconv.Atoi(chi.URLParam(r, "competitionID"))
	if err != nil {
		badRequestResponse(w, fmt.Errorf("invalid competitionID"))
		return
	}
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		badRequestResponse(w, fmt.Errorf("invalid userID"))
		return
	}

	missed, err := h.scoringService.MissedPredictionCount(r.Context(), userID, competitionID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"missed": missed}); err != nil {
		serverErrorResponse(w, err)
	}
}

// parseWindow reads optional from/to date parameters, defaulting to
// yesterday through tomorrow.
func parseWindow(r *http.Request) (services.SyncWindow, error) {
	window := services.DefaultSyncWindow(time.Now().UTC())

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return services.SyncWindow{}, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
		}
		window.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return services.SyncWindow{}, fmt.Errorf("invalid to date, expected YYYY-MM-DD")
		}
		// Include the whole end day.
		window.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	return window, nil
}
