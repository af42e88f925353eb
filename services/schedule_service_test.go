package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khelodev/khelo-server/models"
)

func newScheduleFixture() (*fakeTournamentRepo, *fakeTeamRepo, ScheduleService) {
	tournamentRepo := newFakeTournamentRepo()
	teamRepo := newFakeTeamRepo()
	matchRepo := newFakeMatchRepo()
	svc := NewScheduleService(nil, tournamentRepo, matchRepo, teamRepo, testLogger())
	return tournamentRepo, teamRepo, svc
}

func TestGenerateUnknownTournament(t *testing.T) {
	_, _, svc := newScheduleFixture()

	_, err := svc.Generate(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGenerateRejectsStartedTournament(t *testing.T) {
	tournamentRepo, _, svc := newScheduleFixture()
	tournament := pendingTournament(models.ParticipantsPlayer, 2)
	tournament.Status = models.TournamentOngoing
	tournamentRepo.add(tournament)

	_, err := svc.Generate(context.Background(), tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentNotPending)
}

func TestGenerateRequiresFullRegistration(t *testing.T) {
	tournamentRepo, _, svc := newScheduleFixture()
	tournament := pendingTournament(models.ParticipantsPlayer, 4)
	tournament.Registered = models.ParticipantRefList{
		{ID: 1, Name: "Asha"}, {ID: 2, Name: "Bilal"},
	}
	tournamentRepo.add(tournament)

	_, err := svc.Generate(context.Background(), tournament.ID)
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
	assert.Contains(t, err.Error(), "2/4")
}

func TestGenerateRequiresReadyTeams(t *testing.T) {
	tournamentRepo, teamRepo, svc := newScheduleFixture()
	lions := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7, IsReady: true})
	tigers := teamRepo.add(&models.Team{Name: "Tigers", ManagerID: 8})
	tournament := pendingTournament(models.ParticipantsTeam, 2)
	tournament.Registered = models.ParticipantRefList{lions.Ref(), tigers.Ref()}
	tournamentRepo.add(tournament)

	_, err := svc.Generate(context.Background(), tournament.ID)
	assert.ErrorIs(t, err, ErrParticipantsNotReady)
	assert.Contains(t, err.Error(), "Tigers")
}

func TestGenerateRejectsGroupStage(t *testing.T) {
	tournamentRepo, _, svc := newScheduleFixture()
	tournament := pendingTournament(models.ParticipantsPlayer, 2)
	tournament.Format = models.FormatGroupStage
	tournament.Registered = models.ParticipantRefList{
		{ID: 1, Name: "Asha"}, {ID: 2, Name: "Bilal"},
	}
	tournamentRepo.add(tournament)

	_, err := svc.Generate(context.Background(), tournament.ID)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
