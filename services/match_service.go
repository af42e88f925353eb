package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/repositories"
	"github.com/khelodev/khelo-server/scoring"
)

type MatchService interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, roundSeq *int, status *models.MatchStatus) ([]*models.Match, error)
	// SubmitScore resolves a raw score payload with the tournament's sport
	// rules and persists the outcome. Resubmitting replaces the previous
	// result wholesale, so corrections are just another submission.
	SubmitScore(ctx context.Context, matchID int, raw scoring.RawScore) (*models.Match, error)
	// ResolveTie overrides a drawn match with an explicit winner. Scores
	// stay untouched; only the winner designation changes.
	ResolveTie(ctx context.Context, matchID, winnerID int) (*models.Match, error)
	Reschedule(ctx context.Context, matchID int, venue string, scheduledAt time.Time) (*models.Match, error)
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, roundSeq *int, status *models.MatchStatus) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID, roundSeq, status)
}

func (s *matchService) SubmitScore(ctx context.Context, matchID int, raw scoring.RawScore) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasBothSlots() {
		return nil, fmt.Errorf("%w: match %d", ErrInvalidMatchStructure, matchID)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status == models.TournamentCompleted {
		return nil, ErrTournamentCompleted
	}

	result, err := scoring.RulesFor(tournament.Sport).Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	var winnerID *int
	switch result.Winner {
	case scoring.SideA:
		winnerID = &match.P1.ID
	case scoring.SideB:
		winnerID = &match.P2.ID
	}

	if err := s.matchRepo.UpdateResult(ctx, matchID, result.A, result.B, models.MatchCompleted, winnerID); err != nil {
		return nil, fmt.Errorf("failed to record result for match %d: %w", matchID, err)
	}

	match.P1Score = result.A
	match.P2Score = result.B
	match.Status = models.MatchCompleted
	match.WinnerID = winnerID
	match.SyncWinnerFlags()

	s.logger.InfoContext(ctx, "score recorded",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", match.TournamentID),
		slog.Bool("draw", winnerID == nil))
	return match, nil
}

func (s *matchService) ResolveTie(ctx context.Context, matchID, winnerID int) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.P1.ID != winnerID && match.P2.ID != winnerID {
		return nil, fmt.Errorf("%w: %d", ErrWinnerNotParticipant, winnerID)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status == models.TournamentCompleted {
		return nil, ErrTournamentCompleted
	}

	if err := s.matchRepo.UpdateWinner(ctx, matchID, winnerID); err != nil {
		return nil, fmt.Errorf("failed to resolve tie for match %d: %w", matchID, err)
	}

	match.WinnerID = &winnerID
	match.SyncWinnerFlags()

	s.logger.InfoContext(ctx, "tie resolved",
		slog.Int("match_id", matchID), slog.Int("winner_id", winnerID))
	return match, nil
}

func (s *matchService) Reschedule(ctx context.Context, matchID int, venue string, scheduledAt time.Time) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchCompleted {
		return nil, fmt.Errorf("%w: match %d is already completed", ErrValidationFailed, matchID)
	}
	if venue == "" {
		venue = match.Venue
	}

	if err := s.matchRepo.UpdateSchedule(ctx, matchID, scheduledAt, venue, models.MatchRescheduled); err != nil {
		return nil, err
	}
	match.Venue = venue
	match.ScheduledAt = scheduledAt
	match.Status = models.MatchRescheduled
	return match, nil
}
