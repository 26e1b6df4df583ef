// Package scheduler runs the leader-elected kickoff worker: one process
// among N flips due matches to live and promotes their competitions, gated
// by a cross-process advisory lock.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dosada05/prediction-league/metrics"
)

// ErrNotLeader is returned when another process already holds the lock.
// The worker main treats it as a clean exit, not a failure.
var ErrNotLeader = errors.New("another scheduler instance holds the leader lock")

// minWakeup floors the sleep so a kickoff landing "now" cannot spin the loop.
const minWakeup = time.Second

// MatchFlipper is the bulk kickoff-transition surface of the match store.
type MatchFlipper interface {
	FlipDueToLive(ctx context.Context, cutoff time.Time) (int64, error)
	NextKickoffAfter(ctx context.Context, after time.Time) (*time.Time, error)
}

// CompetitionActivator promotes competitions containing started matches.
type CompetitionActivator interface {
	ActivateWithStartedMatches(ctx context.Context) (int64, error)
}

// LeaderLock is the acquire-or-exit mutual-exclusion primitive.
type LeaderLock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Notifier cues connected consumers that state changed. Best effort.
type Notifier interface {
	NotifyChange() int
}

// Config holds the worker tunables.
type Config struct {
	// GracePeriod delays the flip past kickoff to absorb clock skew and
	// last-minute kickoff edits.
	GracePeriod time.Duration
	// SafetyWakeup bounds every sleep so late inserts and edited kickoff
	// times are noticed even when no kickoff is known.
	SafetyWakeup time.Duration
}

// Worker advances upcoming matches to live at kickoff and derives
// competition activation. Lock ownership is checked once at startup, not
// per iteration: a lock lost mid-run is tolerated because both bulk
// statements are idempotent no-ops on already-flipped rows.
type Worker struct {
	matches      MatchFlipper
	competitions CompetitionActivator
	lock         LeaderLock
	notifier     Notifier
	logger       *slog.Logger
	grace        time.Duration
	safetyWakeup time.Duration
	now          func() time.Time
}

func NewWorker(
	matches MatchFlipper,
	competitions CompetitionActivator,
	lock LeaderLock,
	notifier Notifier,
	cfg Config,
	logger *slog.Logger,
) *Worker {
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = 90 * time.Second
	}
	safetyWakeup := cfg.SafetyWakeup
	if safetyWakeup <= 0 {
		safetyWakeup = 60 * time.Second
	}
	return &Worker{
		matches:      matches,
		competitions: competitions,
		lock:         lock,
		notifier:     notifier,
		logger:       logger,
		grace:        grace,
		safetyWakeup: safetyWakeup,
		now:          time.Now,
	}
}

// Run acquires the leader lock and loops until the context is cancelled.
// It returns ErrNotLeader immediately when another instance is the leader.
func (w *Worker) Run(ctx context.Context) error {
	acquired, err := w.lock.TryAcquire(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrNotLeader
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.lock.Release(releaseCtx); err != nil {
			w.logger.Error("failed to release leader lock", slog.Any("error", err))
		}
	}()

	w.logger.Info("kickoff scheduler running as leader",
		slog.Duration("grace_period", w.grace),
		slog.Duration("safety_wakeup", w.safetyWakeup))

	for {
		w.sweep(ctx)

		timer := time.NewTimer(w.nextWakeup(ctx))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("kickoff scheduler stopping")
			return nil
		case <-timer.C:
		}
	}
}

// sweep flips due matches, then promotes competitions. Flips always fully
// complete before activation, since activation depends on flipped status.
// Errors are logged and the sweep continues: the next wakeup retries.
func (w *Worker) sweep(ctx context.Context) {
	cutoff := w.now().UTC().Add(-w.grace)

	flipped, err := w.matches.FlipDueToLive(ctx, cutoff)
	if err != nil {
		w.logger.Error("failed to flip due matches", slog.Any("error", err))
		return
	}
	if flipped > 0 {
		metrics.KickoffFlips.Add(float64(flipped))
		w.logger.Info("flipped due matches to live", slog.Int64("count", flipped))
	}

	activated, err := w.competitions.ActivateWithStartedMatches(ctx)
	if err != nil {
		w.logger.Error("failed to activate competitions", slog.Any("error", err))
	} else if activated > 0 {
		metrics.CompetitionsActivated.Add(float64(activated))
		w.logger.Info("activated competitions", slog.Int64("count", activated))
	}

	if flipped > 0 || activated > 0 {
		if w.notifier != nil {
			w.notifier.NotifyChange()
		}
	}
}

// nextWakeup sleeps until the next pending kickoff plus grace, never longer
// than the safety interval and never shorter than minWakeup.
func (w *Worker) nextWakeup(ctx context.Context) time.Duration {
	wakeup := w.safetyWakeup

	next, err := w.matches.NextKickoffAfter(ctx, w.now().UTC())
	if err != nil {
		w.logger.Error("failed to query next kickoff", slog.Any("error", err))
		return wakeup
	}
	if next != nil {
		if untilFlip := next.Sub(w.now().UTC()) + w.grace; untilFlip < wakeup {
			wakeup = untilFlip
		}
	}
	if wakeup < minWakeup {
		wakeup = minWakeup
	}
	return wakeup
}
