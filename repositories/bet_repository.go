package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/prediction-league/models"
)

var (
	ErrBetNotFound = errors.New("bet not found")
)

type BetRepository interface {
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Bet, error)
	UpdatePoints(ctx context.Context, exec SQLExecutor, betID int, points int) error
	// CountMissedPredictions derives, for one user in one competition, how
	// many live or finished matches the user placed no bet on.
	CountMissedPredictions(ctx context.Context, userID, competitionID int) (int, error)
}

type postgresBetRepository struct {
	db *sql.DB
}

func NewPostgresBetRepository(db *sql.DB) BetRepository {
	return &postgresBetRepository{db: db}
}

func (r *postgresBetRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Bet, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, user_id, match_id, predicted_home, predicted_away, points, created_at
		FROM bets
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets for match %d: %w", matchID, err)
	}
	defer rows.Close()

	bets := make([]*models.Bet, 0)
	for rows.Next() {
		var bet models.Bet
		if scanErr := rows.Scan(
			&bet.ID,
			&bet.UserID,
			&bet.MatchID,
			&bet.PredictedHome,
			&bet.PredictedAway,
			&bet.Points,
			&bet.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan bet row: %w", scanErr)
		}
		bets = append(bets, &bet)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bet rows iteration: %w", err)
	}
	return bets, nil
}

func (r *postgresBetRepository) UpdatePoints(ctx context.Context, exec SQLExecutor, betID int, points int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE bets SET points = $1 WHERE id = $2`

	result, err := exec.ExecContext(ctx, query, points, betID)
	if err != nil {
		return fmt.Errorf("UpdatePoints: failed to execute query for bet %d: %w", betID, err)
	}
	return checkAffectedRows(result, ErrBetNotFound)
}

func (r *postgresBetRepository) CountMissedPredictions(ctx context.Context, userID, competitionID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM matches m
		WHERE m.competition_id = $1
		  AND m.status IN ($2, $3)
		  AND NOT EXISTS (
			SELECT 1 FROM bets b
			WHERE b.match_id = m.id AND b.user_id = $4
		  )`

	var missed int
	err := r.db.QueryRowContext(ctx, query,
		competitionID, models.MatchStatusLive, models.MatchStatusFinished, userID,
	).Scan(&missed)
	if err != nil {
		return 0, fmt.Errorf("CountMissedPredictions: failed to query for user %d in competition %d: %w", userID, competitionID, err)
	}
	return missed, nil
}
