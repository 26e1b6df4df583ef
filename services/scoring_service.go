package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/prediction-league/metrics"
	"github.com/Dosada05/prediction-league/models"
	"github.com/Dosada05/prediction-league/repositories"
	"github.com/Dosada05/prediction-league/scoring"
)

// ScoringService settles bet points when a match finalizes and exposes the
// derived missed-prediction aggregate.
type ScoringService interface {
	// SettleMatchBets recomputes points for every bet on a finished match.
	// It only writes rows whose stored points differ from the recomputed
	// value, so repeated invocation is a no-op in effect.
	SettleMatchBets(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, rules scoring.RuleSet) (int, error)

	// MissedPredictionCount is a pure derivation: live/finished matches of
	// the competition the user placed no bet on.
	MissedPredictionCount(ctx context.Context, userID, competitionID int) (int, error)
}

type scoringService struct {
	betRepo         repositories.BetRepository
	competitionRepo repositories.CompetitionRepository
	logger          *slog.Logger
}

func NewScoringService(
	betRepo repositories.BetRepository,
	competitionRepo repositories.CompetitionRepository,
	logger *slog.Logger,
) ScoringService {
	return &scoringService{
		betRepo:         betRepo,
		competitionRepo: competitionRepo,
		logger:          logger,
	}
}

func (s *scoringService) SettleMatchBets(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, rules scoring.RuleSet) (int, error) {
	if match.Status != models.MatchStatusFinished {
		return 0, fmt.Errorf("cannot settle bets: match %d is not finished", match.ID)
	}
	if match.HomeScoreFinal == nil || match.AwayScoreFinal == nil {
		return 0, fmt.Errorf("cannot settle bets: match %d has no final score", match.ID)
	}

	bets, err := s.betRepo.ListByMatch(ctx, exec, match.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list bets for match %d: %w", match.ID, err)
	}

	actual := scoring.Scoreline{Home: *match.HomeScoreFinal, Away: *match.AwayScoreFinal}

	settled := 0
	for _, bet := range bets {
		points := scoring.ComputePoints(
			scoring.Scoreline{Home: bet.PredictedHome, Away: bet.PredictedAway},
			actual,
			rules,
		)
		if points == bet.Points {
			continue
		}
		if err := s.betRepo.UpdatePoints(ctx, exec, bet.ID, points); err != nil {
			return settled, fmt.Errorf("failed to update points for bet %d: %w", bet.ID, err)
		}
		settled++
	}

	if settled > 0 {
		metrics.BetsSettled.Add(float64(settled))
		s.logger.Info("bets settled",
			slog.Int("match_id", match.ID),
			slog.Int("settled", settled),
			slog.Int("total", len(bets)))
	}
	return settled, nil
}

func (s *scoringService) MissedPredictionCount(ctx context.Context, userID, competitionID int) (int, error) {
	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		if errors.Is(err, repositories.ErrCompetitionNotFound) {
			return 0, ErrCompetitionNotFound
		}
		return 0, fmt.Errorf("failed to load competition %d: %w", competitionID, err)
	}

	missed, err := s.betRepo.CountMissedPredictions(ctx, userID, competitionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count missed predictions: %w", err)
	}
	return missed, nil
}
