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

const defaultMatchLeadTime = 15 * time.Minute

type ScheduleService interface {
	// Generate builds the full schedule (round robin) or the opening round
	// (single elimination) and flips the tournament to ongoing. The whole
	// operation is transactional: either every match lands and the status
	// flips, or nothing is written.
	Generate(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type scheduleService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	logger         *slog.Logger
}

func NewScheduleService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) ScheduleService {
	return &scheduleService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		logger:         logger,
	}
}

func (s *scheduleService) Generate(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if tournament.Status != models.TournamentPending {
		return nil, ErrTournamentNotPending
	}
	if !tournament.RegistrationClosed() {
		return nil, fmt.Errorf("%w: only %d/%d participants registered",
			ErrNotEnoughParticipants, len(tournament.Registered), tournament.MaxParticipants)
	}
	if err := s.checkTeamsReady(ctx, tournament); err != nil {
		return nil, err
	}

	generator, err := brackets.ForFormat(tournament.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, tournament.Format)
	}
	pairings, err := generator.Generate(tournament.Registered)
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughParticipants) {
			return nil, fmt.Errorf("%w: %v", ErrNotEnoughParticipants, err)
		}
		return nil, err
	}
	// Unreachable given the round-robin/elimination arithmetic for n >= 2,
	// kept as an explicit invariant assertion.
	if len(pairings) == 0 {
		return nil, fmt.Errorf("%w: %d participants", ErrEmptySchedule, len(tournament.Registered))
	}

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
					slog.Int("tournament_id", tournamentID), slog.Any("error", rbErr))
			}
		}
	}()

	matches := make([]*models.Match, 0, len(pairings))
	venue := tournament.PrimaryVenue()
	scheduledAt := time.Now().Add(defaultMatchLeadTime)
	for _, p := range pairings {
		match := &models.Match{
			TournamentID: tournamentID,
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
		matches = append(matches, match)
	}

	// Conditional flip pending -> ongoing. A concurrent generation that got
	// here first already flipped it, in which case this update matches zero
	// rows and the transaction rolls back without writing a single match.
	if txErr = s.tournamentRepo.UpdateStatusIfCurrent(ctx, tx, tournamentID, models.TournamentPending, models.TournamentOngoing); txErr != nil {
		if errors.Is(txErr, repositories.ErrTournamentStatusStale) {
			return nil, ErrTournamentNotPending
		}
		return nil, txErr
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("failed to commit schedule: %w", txErr)
	}

	s.logger.InfoContext(ctx, "schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", string(tournament.Format)),
		slog.Int("matches", len(matches)))
	return matches, nil
}

// checkTeamsReady enforces the readiness gate for team tournaments: every
// registered team must have been marked ready before the schedule exists.
func (s *scheduleService) checkTeamsReady(ctx context.Context, tournament *models.Tournament) error {
	if tournament.ParticipantsType != models.ParticipantsTeam {
		return nil
	}
	var notReady []string
	for _, ref := range tournament.Registered {
		team, err := s.teamRepo.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return fmt.Errorf("%w: registered team %d", ErrTeamNotFound, ref.ID)
			}
			return err
		}
		if !team.IsReady {
			notReady = append(notReady, team.Name)
		}
	}
	if len(notReady) > 0 {
		return fmt.Errorf("%w: %v", ErrParticipantsNotReady, notReady)
	}
	return nil
}
