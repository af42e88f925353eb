package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/repositories"
)

type CreateTournamentInput struct {
	Name             string   `json:"name"`
	Sport            string   `json:"sport"`
	Format           string   `json:"format"`
	ParticipantsType string   `json:"participants_type"`
	MaxParticipants  int      `json:"max_participants"`
	PlayersPerTeam   int      `json:"players_per_team"`
	Venues           []string `json:"venues"`
}

type TournamentService interface {
	Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// GetWithMatches loads the tournament and its matches in parallel.
	GetWithMatches(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error)
	// End marks the tournament completed and records the winner name. The
	// transition is one-directional; ending twice is a conflict.
	End(ctx context.Context, id int, winner string) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	sport, err := models.ParseSport(input.Sport)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	format, err := models.ParseTournamentFormat(input.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	participantsType, err := models.ParseParticipantsType(input.ParticipantsType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if input.MaxParticipants < 2 {
		return nil, fmt.Errorf("%w: max participants must be at least 2, got %d", ErrValidationFailed, input.MaxParticipants)
	}
	playersPerTeam := input.PlayersPerTeam
	if participantsType == models.ParticipantsTeam {
		if playersPerTeam < 1 {
			return nil, fmt.Errorf("%w: players per team must be at least 1, got %d", ErrValidationFailed, playersPerTeam)
		}
	} else {
		playersPerTeam = 0
	}

	tournament := &models.Tournament{
		Name:             input.Name,
		Sport:            sport,
		Format:           format,
		ParticipantsType: participantsType,
		MaxParticipants:  input.MaxParticipants,
		PlayersPerTeam:   playersPerTeam,
		Status:           models.TournamentPending,
		Venues:           models.StringList(input.Venues),
		Registered:       models.ParticipantRefList{},
		CreatorID:        creatorID,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("sport", string(tournament.Sport)),
		slog.String("format", string(tournament.Format)))
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) GetWithMatches(ctx context.Context, id int) (*models.Tournament, error) {
	var (
		tournament *models.Tournament
		matches    []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, nil, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		list, err := s.matchRepo.ListByTournament(gCtx, nil, id, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches for tournament %d: %w", id, err)
		}
		matches = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tournament.Matches = make([]models.Match, len(matches))
	for i, m := range matches {
		tournament.Matches[i] = *m
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) End(ctx context.Context, id int, winner string) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.TournamentCompleted {
		return nil, ErrTournamentCompleted
	}
	if winner == "" {
		return nil, fmt.Errorf("%w: winner name is required to end a tournament", ErrValidationFailed)
	}

	if err := s.tournamentRepo.UpdateStatusIfCurrent(ctx, nil, id, tournament.Status, models.TournamentCompleted); err != nil {
		if errors.Is(err, repositories.ErrTournamentStatusStale) {
			return nil, ErrTournamentCompleted
		}
		return nil, err
	}
	if err := s.tournamentRepo.SetWinner(ctx, nil, id, winner); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament ended",
		slog.Int("tournament_id", id), slog.String("winner", winner))

	tournament.Status = models.TournamentCompleted
	tournament.Winner = &winner
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	err := s.tournamentRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}
