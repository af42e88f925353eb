package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khelodev/khelo-server/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func newParticipantFixture() (*fakeTournamentRepo, *fakeTeamRepo, *fakePlayerRepo, ParticipantService) {
	tournamentRepo := newFakeTournamentRepo()
	teamRepo := newFakeTeamRepo()
	playerRepo := newFakePlayerRepo()
	svc := NewParticipantService(tournamentRepo, teamRepo, playerRepo, testLogger())
	return tournamentRepo, teamRepo, playerRepo, svc
}

func pendingTournament(participantsType models.ParticipantsType, slots int) *models.Tournament {
	return &models.Tournament{
		Name:             "Summer Open",
		Sport:            models.SportFootball,
		Format:           models.FormatRoundRobin,
		ParticipantsType: participantsType,
		MaxParticipants:  slots,
		PlayersPerTeam:   2,
		Status:           models.TournamentPending,
		Registered:       models.ParticipantRefList{},
	}
}

func TestRegisterPlayersKeepsInputOrder(t *testing.T) {
	tournamentRepo, _, _, svc := newParticipantFixture()
	tournament := tournamentRepo.add(pendingTournament(models.ParticipantsPlayer, 3))

	refs, err := svc.Register(context.Background(), tournament.ID, []RegistrationEntry{
		{Name: "Asha"}, {Name: "Bilal"}, {Name: "Chitra"},
	})
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "Asha", refs[0].Name)
	assert.Equal(t, "Bilal", refs[1].Name)
	assert.Equal(t, "Chitra", refs[2].Name)

	stored, err := tournamentRepo.GetByID(context.Background(), nil, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, refs, stored.Registered)
}

func TestRegisterRejectsWrongSlotCount(t *testing.T) {
	tournamentRepo, _, _, svc := newParticipantFixture()
	tournament := tournamentRepo.add(pendingTournament(models.ParticipantsPlayer, 4))

	_, err := svc.Register(context.Background(), tournament.ID, []RegistrationEntry{
		{Name: "Asha"}, {Name: "Bilal"},
	})
	assert.ErrorIs(t, err, ErrInvalidSlotCount)
}

func TestRegisterRejectsStartedTournament(t *testing.T) {
	tournamentRepo, _, _, svc := newParticipantFixture()
	tournament := pendingTournament(models.ParticipantsPlayer, 2)
	tournament.Status = models.TournamentOngoing
	tournamentRepo.add(tournament)

	_, err := svc.Register(context.Background(), tournament.ID, []RegistrationEntry{
		{Name: "Asha"}, {Name: "Bilal"},
	})
	assert.ErrorIs(t, err, ErrTournamentNotPending)
}

func TestRegisterTeamRequiresManager(t *testing.T) {
	tournamentRepo, _, _, svc := newParticipantFixture()
	tournament := tournamentRepo.add(pendingTournament(models.ParticipantsTeam, 2))

	_, err := svc.Register(context.Background(), tournament.ID, []RegistrationEntry{
		{Name: "Lions", ManagerID: intPtr(7)},
		{Name: "Tigers"},
	})
	assert.ErrorIs(t, err, ErrManagerNotFound)
}

func TestRegisterTeamManagerMismatchConflicts(t *testing.T) {
	tournamentRepo, teamRepo, _, svc := newParticipantFixture()
	tournament := tournamentRepo.add(pendingTournament(models.ParticipantsTeam, 2))
	teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})

	_, err := svc.Register(context.Background(), tournament.ID, []RegistrationEntry{
		{Name: "Lions", ManagerID: intPtr(8)},
		{Name: "Tigers", ManagerID: intPtr(9)},
	})
	assert.ErrorIs(t, err, ErrTeamConflict)
}

func TestRegisterTeamReusesExistingTeamForSameManager(t *testing.T) {
	tournamentRepo, teamRepo, _, svc := newParticipantFixture()
	tournament := tournamentRepo.add(pendingTournament(models.ParticipantsTeam, 2))
	existing := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})

	refs, err := svc.Register(context.Background(), tournament.ID, []RegistrationEntry{
		{Name: "Lions", ManagerID: intPtr(7)},
		{Name: "Tigers", ManagerID: intPtr(9)},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, refs[0].ID)
}

func TestSetTeamReadyRequiresFullRoster(t *testing.T) {
	tournamentRepo, teamRepo, playerRepo, svc := newParticipantFixture()
	team := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})
	tournament := pendingTournament(models.ParticipantsTeam, 2)
	tournament.Registered = models.ParticipantRefList{team.Ref()}
	tournament.MaxParticipants = 1
	tournamentRepo.add(tournament)

	playerRepo.add(&models.Player{Name: "Asha", TeamID: &team.ID})

	_, err := svc.SetTeamReady(context.Background(), tournament.ID, team.ID, true)
	assert.ErrorIs(t, err, ErrRosterIncomplete)

	playerRepo.add(&models.Player{Name: "Bilal", TeamID: &team.ID})

	updated, err := svc.SetTeamReady(context.Background(), tournament.ID, team.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsReady)
}

func TestSetTeamReadyRejectsUnregisteredTeam(t *testing.T) {
	tournamentRepo, teamRepo, _, svc := newParticipantFixture()
	team := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})
	tournament := tournamentRepo.add(pendingTournament(models.ParticipantsTeam, 2))

	_, err := svc.SetTeamReady(context.Background(), tournament.ID, team.ID, true)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestAssignPlayerRejectsRosteredPlayer(t *testing.T) {
	_, teamRepo, playerRepo, svc := newParticipantFixture()
	lions := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})
	tigers := teamRepo.add(&models.Team{Name: "Tigers", ManagerID: 8})
	player := playerRepo.add(&models.Player{Name: "Asha", TeamID: &lions.ID})

	_, err := svc.AssignPlayerToRoster(context.Background(), tigers.ID, player.ID)
	assert.ErrorIs(t, err, ErrPlayerAlreadyRostered)
}

func TestAssignFreeAgentJoinsRoster(t *testing.T) {
	_, teamRepo, playerRepo, svc := newParticipantFixture()
	team := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})
	player := playerRepo.add(&models.Player{Name: "Asha"})

	assigned, err := svc.AssignPlayerToRoster(context.Background(), team.ID, player.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.TeamID)
	assert.Equal(t, team.ID, *assigned.TeamID)
}

func TestRemovePlayerFromOtherRosterFails(t *testing.T) {
	_, teamRepo, playerRepo, svc := newParticipantFixture()
	lions := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})
	tigers := teamRepo.add(&models.Team{Name: "Tigers", ManagerID: 8})
	player := playerRepo.add(&models.Player{Name: "Asha", TeamID: &lions.ID})

	err := svc.RemovePlayerFromRoster(context.Background(), tigers.ID, player.ID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	require.NoError(t, svc.RemovePlayerFromRoster(context.Background(), lions.ID, player.ID))
	freed, err := playerRepo.GetByID(context.Background(), player.ID)
	require.NoError(t, err)
	assert.Nil(t, freed.TeamID)
}
