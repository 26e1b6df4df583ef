// Package provider defines the contract for the external sports-data feed
// consumed by the reconciler. The default implementation is an HTTP JSON
// client; the reconciler depends only on the interface.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/Dosada05/prediction-league/models"
)

var (
	// ErrFixtureNotFound is returned when a lookup by external id matches nothing.
	ErrFixtureNotFound = errors.New("fixture not found in provider")

	// ErrProviderUnavailable covers timeouts, rate limits and upstream 5xx
	// responses. The reconciler treats it as transient: the pass for the
	// sport is abandoned and retried on the next scheduled invocation.
	ErrProviderUnavailable = errors.New("sports data provider unavailable")
)

// IsTransient reports whether the error should abandon the current
// reconciliation pass rather than fail a single fixture.
func IsTransient(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// FixtureProvider exposes the two queries the reconciler needs: a trusted
// lookup by provider id and a date-window listing for name-based matching.
type FixtureProvider interface {
	FixtureByID(ctx context.Context, externalID int64) (*models.ExternalSnapshot, error)
	FixturesByDateRange(ctx context.Context, sport string, from, to time.Time) ([]models.ExternalSnapshot, error)
}
