// Package metrics exposes prometheus counters for the sync engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_matches_reconciled_total",
		Help: "Matches updated from an external snapshot.",
	})

	MatchesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_matches_skipped_total",
		Help: "Matches skipped during reconciliation (unmatched, ambiguous or failed).",
	})

	PassesAbandoned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_passes_abandoned_total",
		Help: "Reconciliation passes abandoned due to provider unavailability.",
	})

	BetsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sync_bets_settled_total",
		Help: "Bets whose points were written by the scoring engine.",
	})

	KickoffFlips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_kickoff_flips_total",
		Help: "Matches flipped from upcoming to live by the kickoff worker.",
	})

	CompetitionsActivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_competitions_activated_total",
		Help: "Competitions promoted to active by the kickoff worker.",
	})

	BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadcast_signals_total",
		Help: "Change signals fanned out to subscribers.",
	})
)
