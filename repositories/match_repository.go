package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/prediction-league/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
)

const matchSyncColumns = `
		m.id, m.competition_id, m.sport_id, m.home_team_id, m.away_team_id,
		m.kickoff_at, m.status, m.external_id, m.external_status,
		m.elapsed_minute, m.home_score_live, m.away_score_live,
		m.home_score_final, m.away_score_final, m.last_sync_at, m.finished_at,
		ht.name, at.name`

type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListSyncCandidates returns upcoming and live matches of a sport whose
	// kickoff falls inside the window, with team names joined in.
	ListSyncCandidates(ctx context.Context, sportID int, from, to time.Time) ([]*models.Match, error)
	// ApplySync persists the reconciled state of one match. The external id
	// binds once: an already-set value is never overwritten.
	ApplySync(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// TouchLastSync advances last_sync_at without changing anything else.
	// It never moves the timestamp backwards.
	TouchLastSync(ctx context.Context, exec SQLExecutor, id int, at time.Time) error
	// FlipDueToLive transitions every upcoming match with kickoff_at at or
	// before the cutoff to live, in one idempotent statement.
	FlipDueToLive(ctx context.Context, cutoff time.Time) (int64, error)
	// NextKickoffAfter returns the earliest upcoming kickoff strictly after
	// the given instant, or nil when none is scheduled.
	NextKickoffAfter(ctx context.Context, after time.Time) (*time.Time, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT` + matchSyncColumns + `
		FROM matches m
		JOIN teams ht ON ht.id = m.home_team_id
		JOIN teams at ON at.id = m.away_team_id
		WHERE m.id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListSyncCandidates(ctx context.Context, sportID int, from, to time.Time) ([]*models.Match, error) {
	query := `
		SELECT` + matchSyncColumns + `
		FROM matches m
		JOIN teams ht ON ht.id = m.home_team_id
		JOIN teams at ON at.id = m.away_team_id
		WHERE m.sport_id = $1
		  AND m.status IN ($2, $3)
		  AND m.kickoff_at BETWEEN $4 AND $5
		ORDER BY m.kickoff_at ASC, m.id ASC`

	rows, err := r.db.QueryContext(ctx, query,
		sportID, models.MatchStatusUpcoming, models.MatchStatusLive, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync candidates for sport %d: %w", sportID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan sync candidate row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during sync candidate rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ApplySync(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET external_id      = COALESCE(external_id, $1),
		    external_status  = $2,
		    status           = $3,
		    elapsed_minute   = $4,
		    home_score_live  = $5,
		    away_score_live  = $6,
		    home_score_final = $7,
		    away_score_final = $8,
		    finished_at      = COALESCE(finished_at, $9),
		    last_sync_at     = GREATEST(COALESCE(last_sync_at, $10), $10)
		WHERE id = $11`

	result, err := exec.ExecContext(ctx, query,
		match.ExternalID,
		match.ExternalStatus,
		match.Status,
		match.ElapsedMinute,
		match.HomeScoreLive,
		match.AwayScoreLive,
		match.HomeScoreFinal,
		match.AwayScoreFinal,
		match.FinishedAt,
		match.LastSyncAt,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("ApplySync: failed to execute query for match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) TouchLastSync(ctx context.Context, exec SQLExecutor, id int, at time.Time) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET last_sync_at = GREATEST(COALESCE(last_sync_at, $1), $1)
		WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("TouchLastSync: failed to execute query for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) FlipDueToLive(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE matches
		SET status = $1
		WHERE status = $2 AND kickoff_at <= $3`

	result, err := r.db.ExecContext(ctx, query,
		models.MatchStatusLive, models.MatchStatusUpcoming, cutoff)
	if err != nil {
		return 0, fmt.Errorf("FlipDueToLive: failed to execute query: %w", err)
	}
	flipped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("FlipDueToLive: failed to check affected rows: %w", err)
	}
	return flipped, nil
}

func (r *postgresMatchRepository) NextKickoffAfter(ctx context.Context, after time.Time) (*time.Time, error) {
	query := `
		SELECT MIN(kickoff_at)
		FROM matches
		WHERE status = $1 AND kickoff_at > $2`

	var next sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, models.MatchStatusUpcoming, after).Scan(&next); err != nil {
		return nil, fmt.Errorf("NextKickoffAfter: failed to query next kickoff: %w", err)
	}
	if !next.Valid {
		return nil, nil
	}
	kickoff := next.Time.UTC()
	return &kickoff, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID,
		&match.CompetitionID,
		&match.SportID,
		&match.HomeTeamID,
		&match.AwayTeamID,
		&match.KickoffAt,
		&match.Status,
		&match.ExternalID,
		&match.ExternalStatus,
		&match.ElapsedMinute,
		&match.HomeScoreLive,
		&match.AwayScoreLive,
		&match.HomeScoreFinal,
		&match.AwayScoreFinal,
		&match.LastSyncAt,
		&match.FinishedAt,
		&match.HomeTeamName,
		&match.AwayTeamName,
	)
	if err != nil {
		return nil, err
	}
	match.KickoffAt = match.KickoffAt.UTC()
	return match, nil
}
