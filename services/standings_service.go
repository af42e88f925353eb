package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/repositories"
	"github.com/khelodev/khelo-server/standings"
)

type StandingsService interface {
	// GetStandings folds completed matches into the sport's points table.
	// It works at any point of the tournament; unfinished matches simply
	// contribute nothing yet.
	GetStandings(ctx context.Context, tournamentID int) (*models.StandingsTable, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) (*models.StandingsTable, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	stored, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	matches := make([]models.Match, len(stored))
	for i, m := range stored {
		matches[i] = *m
	}

	return standings.Compute(tournament, matches), nil
}
