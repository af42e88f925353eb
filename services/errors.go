package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khelodev/khelo-server/models"
)

// Shared sentinel errors, mapped to HTTP statuses in the handlers layer.
// The core never retries or swallows any of these: every rule violation
// surfaces to the caller as a distinct, named condition.
var (
	// Referential errors.
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrManagerNotFound    = errors.New("team entry requires a valid manager reference")

	// Validation errors.
	ErrValidationFailed      = errors.New("validation failed")
	ErrInvalidSlotCount      = errors.New("participant list does not match the tournament slot count")
	ErrInvalidMatchStructure = errors.New("match does not have exactly two participants")
	ErrWinnerNotParticipant  = errors.New("chosen winner is not a participant of this match")
	ErrRosterIncomplete      = errors.New("team roster is incomplete")
	ErrPlayerAlreadyRostered = errors.New("player already belongs to a team roster")

	// Conflicts.
	ErrTeamConflict           = errors.New("team name is already bound to a different manager")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// State conflicts.
	ErrTournamentNotPending  = errors.New("tournament schedule has already been generated")
	ErrTournamentCompleted   = errors.New("tournament is already completed")
	ErrNotEnoughParticipants = errors.New("not enough participants registered")
	ErrParticipantsNotReady  = errors.New("not all teams are marked ready")
	ErrUnsupportedFormat     = errors.New("unsupported tournament format")
	ErrNotSingleElimination  = errors.New("round advancement applies to single elimination tournaments only")
	ErrRoundNotComplete      = errors.New("current round still has unfinished matches")
	ErrEmptySchedule         = errors.New("schedule generation produced no matches")

	// ErrStorageUnavailable is returned when object storage was not
	// configured at startup; logo uploads are disabled in that case.
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// UnresolvedTiesError blocks round advancement: the listed matches completed
// without a winner and each needs an explicit winner override.
type UnresolvedTiesError struct {
	Matches []models.Match
}

func (e *UnresolvedTiesError) Error() string {
	ids := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		ids[i] = fmt.Sprintf("%d (%s vs %s)", m.ID, m.P1.Name, m.P2.Name)
	}
	return fmt.Sprintf("cannot advance round, unresolved ties in matches: %s", strings.Join(ids, ", "))
}
