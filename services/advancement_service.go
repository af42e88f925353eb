package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/khelodev/khelo-server/brackets"
	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/repositories"
)

// AdvanceOutcome reports what an advancement step produced: the matches of a
// freshly created round, or the champion when the bracket is decided.
type AdvanceOutcome struct {
	Matches  []*models.Match        `json:"matches,omitempty"`
	Champion *models.ParticipantRef `json:"champion,omitempty"`
	Round    string                 `json:"round,omitempty"`
	Finished bool                   `json:"finished"`
}

type AdvancementService interface {
	// AdvanceRound inspects the latest round of a single-elimination
	// tournament and either creates the next round or crowns the champion.
	// Every match of the current round must be completed and decided first.
	AdvanceRound(ctx context.Context, tournamentID int) (*AdvanceOutcome, error)
}

type advancementService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewAdvancementService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) AdvancementService {
	return &advancementService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *advancementService) AdvanceRound(ctx context.Context, tournamentID int) (*AdvanceOutcome, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Format != models.FormatSingleElimination {
		return nil, ErrNotSingleElimination
	}
	if tournament.Status == models.TournamentCompleted {
		return nil, ErrTournamentCompleted
	}

	stored, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	matches := make([]models.Match, len(stored))
	for i, m := range stored {
		matches[i] = *m
	}

	current, ok := brackets.CurrentRound(matches)
	if !ok {
		return nil, fmt.Errorf("%w: no rounds have been generated", ErrEmptySchedule)
	}
	if !current.Complete {
		return nil, fmt.Errorf("%w: round %q", ErrRoundNotComplete, current.Name)
	}
	if len(current.Unresolved) > 0 {
		return nil, &UnresolvedTiesError{Matches: current.Unresolved}
	}

	pool := brackets.AdvancementPool(tournament.Registered, matches, current)
	plan := brackets.PlanNextRound(pool, current.Seq)

	if plan.Champion != nil {
		return s.crownChampion(ctx, tournament, plan.Champion)
	}
	if len(plan.Pairings) == 0 {
		return nil, fmt.Errorf("%w: advancement pool is empty", ErrEmptySchedule)
	}
	return s.createNextRound(ctx, tournament, plan)
}

func (s *advancementService) crownChampion(ctx context.Context, tournament *models.Tournament, champion *models.ParticipantRef) (*AdvanceOutcome, error) {
	if err := s.tournamentRepo.UpdateStatusIfCurrent(ctx, nil, tournament.ID, tournament.Status, models.TournamentCompleted); err != nil {
		if errors.Is(err, repositories.ErrTournamentStatusStale) {
			return nil, ErrTournamentCompleted
		}
		return nil, err
	}
	if err := s.tournamentRepo.SetWinner(ctx, nil, tournament.ID, champion.Name); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament decided",
		slog.Int("tournament_id", tournament.ID),
		slog.String("champion", champion.Name))
	return &AdvanceOutcome{Champion: champion, Finished: true}, nil
}

func (s *advancementService) createNextRound(ctx context.Context, tournament *models.Tournament, plan brackets.NextRoundPlan) (*AdvanceOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "rollback failed",
					slog.Int("tournament_id", tournament.ID), slog.Any("error", rbErr))
			}
		}
	}()

	created := make([]*models.Match, 0, len(plan.Pairings))
	venue := tournament.PrimaryVenue()
	scheduledAt := time.Now().Add(defaultMatchLeadTime)
	for _, p := range plan.Pairings {
		match := &models.Match{
			TournamentID: tournament.ID,
			P1:           p.P1,
			P2:           p.P2,
			Round:        p.RoundName,
			RoundSeq:     p.Round,
			OrderInRound: p.OrderInRound,
			Status:       models.MatchScheduled,
			Venue:        venue,
			ScheduledAt:  scheduledAt,
		}
		if txErr = s.matchRepo.Create(ctx, tx, match); txErr != nil {
			return nil, fmt.Errorf("failed to create match: %w", txErr)
		}
		created = append(created, match)
	}
	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit round: %w", txErr)
	}

	s.logger.InfoContext(ctx, "round advanced",
		slog.Int("tournament_id", tournament.ID),
		slog.String("round", plan.Name),
		slog.Int("matches", len(created)))
	return &AdvanceOutcome{Matches: created, Round: plan.Name}, nil
}
