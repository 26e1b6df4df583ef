package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/prediction-league/models"
)

var (
	ErrCompetitionNotFound = errors.New("competition not found")
)

type CompetitionRepository interface {
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	// ActivateWithStartedMatches promotes every upcoming competition that
	// contains a live or finished match to active, in one idempotent
	// statement. Returns the number of promoted competitions.
	ActivateWithStartedMatches(ctx context.Context) (int64, error)
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `
		SELECT id, sport_id, name, status, start_date, end_date, created_at
		FROM competitions
		WHERE id = $1`

	competition := &models.Competition{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&competition.ID,
		&competition.SportID,
		&competition.Name,
		&competition.Status,
		&competition.StartDate,
		&competition.EndDate,
		&competition.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to scan competition by id %d: %w", id, err)
	}
	return competition, nil
}

func (r *postgresCompetitionRepository) ActivateWithStartedMatches(ctx context.Context) (int64, error) {
	query := `
		UPDATE competitions c
		SET status = $1
		WHERE c.status = $2
		  AND EXISTS (
			SELECT 1 FROM matches m
			WHERE m.competition_id = c.id AND m.status IN ($3, $4)
		  )`

	result, err := r.db.ExecContext(ctx, query,
		models.CompetitionStatusActive,
		models.CompetitionStatusUpcoming,
		models.MatchStatusLive,
		models.MatchStatusFinished,
	)
	if err != nil {
		return 0, fmt.Errorf("ActivateWithStartedMatches: failed to execute query: %w", err)
	}
	activated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ActivateWithStartedMatches: failed to check affected rows: %w", err)
	}
	return activated, nil
}
