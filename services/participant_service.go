package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/repositories"
)

// RegistrationEntry is one slot of a registration request. Team tournaments
// require a manager reference; player tournaments ignore it.
type RegistrationEntry struct {
	Name      string `json:"name"`
	ManagerID *int   `json:"manager_id,omitempty"`
}

type ParticipantService interface {
	// Register fills all tournament slots at once. The input order is
	// persisted verbatim and becomes the seeding order.
	Register(ctx context.Context, tournamentID int, entries []RegistrationEntry) (models.ParticipantRefList, error)
	// SetTeamReady toggles the readiness gate for a registered team;
	// marking ready requires a full roster for the tournament.
	SetTeamReady(ctx context.Context, tournamentID, teamID int, ready bool) (*models.Team, error)
	AddPlayerToRoster(ctx context.Context, teamID int, playerName string) (*models.Player, error)
	// AssignPlayerToRoster moves an existing free agent onto a roster.
	AssignPlayerToRoster(ctx context.Context, teamID, playerID int) (*models.Player, error)
	RemovePlayerFromRoster(ctx context.Context, teamID, playerID int) error
	ListRoster(ctx context.Context, teamID int) ([]*models.Player, error)
}

type participantService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	logger         *slog.Logger
}

func NewParticipantService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		logger:         logger,
	}
}

func (s *participantService) Register(ctx context.Context, tournamentID int, entries []RegistrationEntry) (models.ParticipantRefList, error) {
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
	if len(entries) != tournament.MaxParticipants {
		return nil, fmt.Errorf("%w: got %d entries, tournament has %d slots",
			ErrInvalidSlotCount, len(entries), tournament.MaxParticipants)
	}

	refs := make(models.ParticipantRefList, 0, len(entries))
	for i, entry := range entries {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrValidationFailed, i)
		}

		var ref models.ParticipantRef
		switch tournament.ParticipantsType {
		case models.ParticipantsTeam:
			ref, err = s.resolveTeamEntry(ctx, entry)
		default:
			ref, err = s.resolvePlayerEntry(ctx, entry)
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if err := s.tournamentRepo.UpdateRegistered(ctx, tournamentID, refs); err != nil {
		return nil, fmt.Errorf("failed to persist registrations: %w", err)
	}

	s.logger.InfoContext(ctx, "participants registered",
		slog.Int("tournament_id", tournamentID), slog.Int("count", len(refs)))
	return refs, nil
}

// resolveTeamEntry binds an entry to an existing team (the manager must
// match) or creates a new team owned by the given manager.
func (s *participantService) resolveTeamEntry(ctx context.Context, entry RegistrationEntry) (models.ParticipantRef, error) {
	if entry.ManagerID == nil || *entry.ManagerID <= 0 {
		return models.ParticipantRef{}, fmt.Errorf("%w: team %q", ErrManagerNotFound, entry.Name)
	}

	existing, err := s.teamRepo.GetByName(ctx, entry.Name)
	switch {
	case err == nil:
		if existing.ManagerID != *entry.ManagerID {
			return models.ParticipantRef{}, fmt.Errorf("%w: %q", ErrTeamConflict, entry.Name)
		}
		return existing.Ref(), nil
	case errors.Is(err, repositories.ErrTeamNotFound):
		team := &models.Team{Name: entry.Name, ManagerID: *entry.ManagerID}
		if err := s.teamRepo.Create(ctx, team); err != nil {
			if errors.Is(err, repositories.ErrTeamNameConflict) {
				return models.ParticipantRef{}, fmt.Errorf("%w: %q", ErrTeamConflict, entry.Name)
			}
			return models.ParticipantRef{}, fmt.Errorf("failed to create team %q: %w", entry.Name, err)
		}
		return team.Ref(), nil
	default:
		return models.ParticipantRef{}, err
	}
}

func (s *participantService) resolvePlayerEntry(ctx context.Context, entry RegistrationEntry) (models.ParticipantRef, error) {
	player := &models.Player{Name: entry.Name}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return models.ParticipantRef{}, fmt.Errorf("failed to create player %q: %w", entry.Name, err)
	}
	return player.Ref(), nil
}

func (s *participantService) SetTeamReady(ctx context.Context, tournamentID, teamID int, ready bool) (*models.Team, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if !tournament.Registered.Contains(teamID) {
		return nil, fmt.Errorf("%w: team %d is not registered for tournament %d", ErrTeamNotFound, teamID, tournamentID)
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if ready {
		rosterSize, err := s.playerRepo.CountByTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to count roster for team %d: %w", teamID, err)
		}
		if rosterSize < tournament.PlayersPerTeam {
			return nil, fmt.Errorf("%w: %d/%d players rostered",
				ErrRosterIncomplete, rosterSize, tournament.PlayersPerTeam)
		}
	}

	if err := s.teamRepo.SetReady(ctx, teamID, ready); err != nil {
		return nil, err
	}
	team.IsReady = ready
	return team, nil
}

func (s *participantService) AddPlayerToRoster(ctx context.Context, teamID int, playerName string) (*models.Player, error) {
	if playerName == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrValidationFailed)
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	player := &models.Player{Name: playerName, TeamID: &teamID}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to add player to roster: %w", err)
	}
	return player, nil
}

func (s *participantService) AssignPlayerToRoster(ctx context.Context, teamID, playerID int) (*models.Player, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if player.TeamID != nil {
		return nil, fmt.Errorf("%w: player %d is on team %d", ErrPlayerAlreadyRostered, playerID, *player.TeamID)
	}

	if err := s.playerRepo.AssignTeam(ctx, playerID, &teamID); err != nil {
		return nil, err
	}
	player.TeamID = &teamID
	return player, nil
}

func (s *participantService) RemovePlayerFromRoster(ctx context.Context, teamID, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	if player.TeamID == nil || *player.TeamID != teamID {
		return fmt.Errorf("%w: player %d is not on team %d", ErrPlayerNotFound, playerID, teamID)
	}
	return s.playerRepo.AssignTeam(ctx, playerID, nil)
}

func (s *participantService) ListRoster(ctx context.Context, teamID int) ([]*models.Player, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return s.playerRepo.ListByTeam(ctx, teamID)
}
