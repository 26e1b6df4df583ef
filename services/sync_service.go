package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/prediction-league/metrics"
	"github.com/Dosada05/prediction-league/models"
	"github.com/Dosada05/prediction-league/namematch"
	"github.com/Dosada05/prediction-league/provider"
	"github.com/Dosada05/prediction-league/repositories"
	"github.com/Dosada05/prediction-league/scoring"
)

// Allowance over regulation time for the reported elapsed minute, covering
// stoppage and extra time.
const elapsedOvertimeAllowance = 30

// maxConcurrentSportPasses bounds the all-sports fan-out.
const maxConcurrentSportPasses = 4

// SyncWindow is the date range one reconciliation pass covers.
type SyncWindow struct {
	From time.Time
	To   time.Time
}

// DefaultSyncWindow covers yesterday through tomorrow around now, which is
// what the cron trigger uses when no explicit window is given.
func DefaultSyncWindow(now time.Time) SyncWindow {
	return SyncWindow{From: now.Add(-24 * time.Hour), To: now.Add(24 * time.Hour)}
}

// SyncReport summarizes one reconciliation pass.
type SyncReport struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Notifier is the broadcaster cue. It reports how many subscribers the
// signal reached.
type Notifier interface {
	NotifyChange() int
}

// SyncPolicy holds the matching tunables (see config.SyncPolicy).
type SyncPolicy struct {
	NameMatchThreshold float64
	IDBoundSlop        time.Duration
	NameMatchSlop      time.Duration
}

type SyncService interface {
	// ReconcileSport runs one reconciliation pass for a sport. Transient
	// provider failures abandon the pass and are not returned as errors:
	// the next scheduled invocation is the retry mechanism.
	ReconcileSport(ctx context.Context, sportID int, window SyncWindow) (SyncReport, error)

	// ReconcileAllSports fans one pass out per sport. One sport's failure
	// does not abort the others.
	ReconcileAllSports(ctx context.Context, window SyncWindow) (map[string]SyncReport, error)
}

type syncService struct {
	matchRepo  repositories.MatchRepository
	sportRepo  repositories.SportRepository
	txManager  repositories.TxManager
	provider   provider.FixtureProvider
	scoringSvc ScoringService
	notifier   Notifier
	policy     SyncPolicy
	logger     *slog.Logger
	now        func() time.Time
}

func NewSyncService(
	matchRepo repositories.MatchRepository,
	sportRepo repositories.SportRepository,
	txManager repositories.TxManager,
	fixtureProvider provider.FixtureProvider,
	scoringSvc ScoringService,
	notifier Notifier,
	policy SyncPolicy,
	logger *slog.Logger,
) SyncService {
	return &syncService{
		matchRepo:  matchRepo,
		sportRepo:  sportRepo,
		txManager:  txManager,
		provider:   fixtureProvider,
		scoringSvc: scoringSvc,
		notifier:   notifier,
		policy:     policy,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *syncService) ReconcileSport(ctx context.Context, sportID int, window SyncWindow) (SyncReport, error) {
	var report SyncReport

	if window.To.Before(window.From) {
		return report, ErrInvalidSyncWindow
	}

	sport, err := s.sportRepo.GetByID(ctx, sportID)
	if err != nil {
		if errors.Is(err, repositories.ErrSportNotFound) {
			return report, ErrSportNotFound
		}
		return report, fmt.Errorf("failed to load sport %d: %w", sportID, err)
	}

	// Candidates load from a window padded by the name-match slop: a
	// postponed fixture whose stored kickoff drifted outside the requested
	// window must still be claimable by name when the provider reports it
	// inside the window. The per-pair kickoff delta checks below remain the
	// real gates.
	candidates, err := s.matchRepo.ListSyncCandidates(ctx, sportID,
		window.From.Add(-s.policy.NameMatchSlop), window.To.Add(s.policy.NameMatchSlop))
	if err != nil {
		return report, fmt.Errorf("failed to list sync candidates for sport %d: %w", sportID, err)
	}
	if len(candidates) == 0 {
		return report, nil
	}

	// Phase 1: trusted id-bound lookups. boundExternalIDs also seeds the
	// name-match phase so a snapshot never binds twice.
	boundExternalIDs := make(map[int64]bool)
	unbound := make([]*models.Match, 0)
	updatedAny := false

	for _, match := range candidates {
		if match.ExternalID == nil {
			unbound = append(unbound, match)
			continue
		}
		boundExternalIDs[*match.ExternalID] = true

		snapshot, err := s.provider.FixtureByID(ctx, *match.ExternalID)
		if err != nil {
			if provider.IsTransient(err) {
				s.abandonPass(sport.Name, err)
				return report, nil
			}
			s.logger.Warn("fixture lookup failed, skipping match",
				slog.Int("match_id", match.ID),
				slog.Int64("external_id", *match.ExternalID),
				slog.Any("error", err))
			report.Skipped++
			metrics.MatchesSkipped.Inc()
			continue
		}

		if kickoffDelta(snapshot.KickoffAt, match.KickoffAt) > s.policy.IDBoundSlop {
			s.logger.Warn("id-bound snapshot kickoff too far from stored kickoff, skipping",
				slog.Int("match_id", match.ID),
				slog.Time("internal_kickoff", match.KickoffAt),
				slog.Time("external_kickoff", snapshot.KickoffAt))
			report.Skipped++
			metrics.MatchesSkipped.Inc()
			continue
		}

		updated, err := s.applySnapshot(ctx, sport, match, snapshot)
		if err != nil {
			report.Skipped++
			metrics.MatchesSkipped.Inc()
			continue
		}
		if updated {
			report.Updated++
			updatedAny = true
		}
	}

	// Phase 2: name-based matching for matches with no provider binding yet.
	if len(unbound) > 0 {
		snapshots, err := s.provider.FixturesByDateRange(ctx, sport.Name, window.From, window.To)
		if err != nil {
			if provider.IsTransient(err) {
				s.abandonPass(sport.Name, err)
				return report, nil
			}
			return report, fmt.Errorf("failed to list fixtures for sport %q: %w", sport.Name, err)
		}

		claimed := make(map[int]bool, len(unbound))
		for i := range snapshots {
			snapshot := &snapshots[i]
			if boundExternalIDs[snapshot.ExternalID] {
				continue
			}
			match, ok := s.bestCandidate(snapshot, unbound, claimed)
			if !ok {
				continue
			}
			claimed[match.ID] = true
			boundExternalIDs[snapshot.ExternalID] = true

			updated, err := s.applySnapshot(ctx, sport, match, snapshot)
			if err != nil {
				report.Skipped++
				metrics.MatchesSkipped.Inc()
				continue
			}
			if updated {
				report.Updated++
				updatedAny = true
			}
		}

		for _, match := range unbound {
			if !claimed[match.ID] {
				report.Skipped++
				metrics.MatchesSkipped.Inc()
			}
		}
	}

	if updatedAny && s.notifier != nil {
		s.notifier.NotifyChange()
	}
	return report, nil
}

func (s *syncService) ReconcileAllSports(ctx context.Context, window SyncWindow) (map[string]SyncReport, error) {
	sports, err := s.sportRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sports: %w", err)
	}

	var mu sync.Mutex
	reports := make(map[string]SyncReport, len(sports))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSportPasses)
	for _, sport := range sports {
		sport := sport
		g.Go(func() error {
			report, err := s.ReconcileSport(gctx, sport.ID, window)
			if err != nil {
				// One sport's pass failing must not abort its siblings.
				s.logger.Error("reconciliation pass failed",
					slog.String("sport", sport.Name),
					slog.Any("error", err))
			}
			mu.Lock()
			reports[sport.Name] = report
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return reports, nil
}

// bestCandidate picks the unclaimed internal match most similar to the
// snapshot. It requires the best score to clear the acceptance threshold
// and to be strictly better than the runner-up: ambiguous fixtures are
// rejected rather than guessed.
func (s *syncService) bestCandidate(snapshot *models.ExternalSnapshot, unbound []*models.Match, claimed map[int]bool) (*models.Match, bool) {
	var best *models.Match
	bestScore := 0.0
	runnerUpScore := 0.0

	for _, match := range unbound {
		if claimed[match.ID] {
			continue
		}
		if kickoffDelta(snapshot.KickoffAt, match.KickoffAt) > s.policy.NameMatchSlop {
			continue
		}
		score := namematch.PairScore(
			snapshot.HomeTeamName, snapshot.AwayTeamName,
			match.HomeTeamName, match.AwayTeamName,
		)
		switch {
		case score > bestScore:
			runnerUpScore = bestScore
			bestScore = score
			best = match
		case score > runnerUpScore:
			runnerUpScore = score
		}
	}

	if best == nil || bestScore < s.policy.NameMatchThreshold {
		return nil, false
	}
	if bestScore == runnerUpScore {
		s.logger.Warn("ambiguous name match, rejecting",
			slog.Int64("external_id", snapshot.ExternalID),
			slog.String("home", snapshot.HomeTeamName),
			slog.String("away", snapshot.AwayTeamName),
			slog.Float64("score", bestScore))
		return nil, false
	}
	return best, true
}

// applySnapshot merges one snapshot into one match inside a transaction.
// When the snapshot changes nothing, only last_sync_at is advanced and
// settlement is not re-triggered.
func (s *syncService) applySnapshot(ctx context.Context, sport *models.Sport, match *models.Match, snapshot *models.ExternalSnapshot) (bool, error) {
	now := s.now().UTC()

	nextStatus := match.Status
	if mapped, known := mapExternalStatus(snapshot.StatusCode); !known {
		s.logger.Warn("unknown provider status code, leaving status unchanged",
			slog.Int("match_id", match.ID),
			slog.String("code", snapshot.StatusCode))
	} else if mapped == models.MatchStatusFinished && !snapshot.HasBothScores() {
		s.logger.Warn("terminal provider status without both scores, not finalizing",
			slog.Int("match_id", match.ID),
			slog.String("code", snapshot.StatusCode))
	} else if !models.CanTransition(match.Status, mapped) {
		s.logger.Warn("ignoring status regression from provider",
			slog.Int("match_id", match.ID),
			slog.String("from", string(match.Status)),
			slog.String("to", string(mapped)))
	} else {
		nextStatus = mapped
	}

	desired := *match
	desired.Status = nextStatus
	if desired.ExternalID == nil {
		externalID := snapshot.ExternalID
		desired.ExternalID = &externalID
	}
	code := snapshot.StatusCode
	desired.ExternalStatus = &code

	if nextStatus == models.MatchStatusLive {
		desired.HomeScoreLive = snapshot.HomeScore
		desired.AwayScoreLive = snapshot.AwayScore
		desired.ElapsedMinute = clampElapsed(snapshot.ElapsedMinute, sport)
	} else {
		desired.HomeScoreLive = nil
		desired.AwayScoreLive = nil
		desired.ElapsedMinute = nil
	}

	if nextStatus == models.MatchStatusFinished {
		desired.HomeScoreFinal = snapshot.HomeScore
		desired.AwayScoreFinal = snapshot.AwayScore
		if desired.FinishedAt == nil {
			desired.FinishedAt = &now
		}
	}

	if !syncFieldsChanged(match, &desired) {
		if err := s.matchRepo.TouchLastSync(ctx, nil, match.ID, now); err != nil {
			s.logger.Error("failed to touch last_sync_at",
				slog.Int("match_id", match.ID),
				slog.Any("error", err))
			return false, err
		}
		match.LastSyncAt = &now
		return false, nil
	}

	becameFinished := match.Status != models.MatchStatusFinished && desired.Status == models.MatchStatusFinished
	finalScoreChanged := desired.Status == models.MatchStatusFinished &&
		(!intPtrEqual(match.HomeScoreFinal, desired.HomeScoreFinal) ||
			!intPtrEqual(match.AwayScoreFinal, desired.AwayScoreFinal))

	desired.LastSyncAt = &now

	err := s.txManager.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.ApplySync(ctx, exec, &desired); err != nil {
			return err
		}
		if becameFinished || finalScoreChanged {
			if _, err := s.scoringSvc.SettleMatchBets(ctx, exec, &desired, scoring.RuleSetFor(sport.Name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// No retry at this layer: the next scheduled pass observes the
		// still-unchanged row and tries again.
		s.logger.Error("failed to persist reconciled match",
			slog.Int("match_id", match.ID),
			slog.Any("error", err))
		return false, err
	}

	*match = desired
	metrics.MatchesReconciled.Inc()
	s.logger.Info("match reconciled",
		slog.Int("match_id", match.ID),
		slog.Int64("external_id", *desired.ExternalID),
		slog.String("status", string(desired.Status)))
	return true, nil
}

func (s *syncService) abandonPass(sport string, err error) {
	metrics.PassesAbandoned.Inc()
	s.logger.Warn("provider unavailable, abandoning pass for this cycle",
		slog.String("sport", sport),
		slog.Any("error", err))
}

// syncFieldsChanged compares everything ApplySync writes except last_sync_at.
func syncFieldsChanged(current, desired *models.Match) bool {
	return current.Status != desired.Status ||
		!int64PtrEqual(current.ExternalID, desired.ExternalID) ||
		!strPtrEqual(current.ExternalStatus, desired.ExternalStatus) ||
		!intPtrEqual(current.ElapsedMinute, desired.ElapsedMinute) ||
		!intPtrEqual(current.HomeScoreLive, desired.HomeScoreLive) ||
		!intPtrEqual(current.AwayScoreLive, desired.AwayScoreLive) ||
		!intPtrEqual(current.HomeScoreFinal, desired.HomeScoreFinal) ||
		!intPtrEqual(current.AwayScoreFinal, desired.AwayScoreFinal)
}

func clampElapsed(elapsed *int, sport *models.Sport) *int {
	if elapsed == nil {
		return nil
	}
	maxElapsed := sport.DurationMinutes + elapsedOvertimeAllowance
	v := *elapsed
	if v < 0 {
		v = 0
	}
	if v > maxElapsed {
		v = maxElapsed
	}
	return &v
}

func kickoffDelta(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
