package models

import (
	"fmt"
	"time"
)

// TournamentStatus is one-directional: pending -> ongoing -> completed.
type TournamentStatus string

const (
	TournamentPending   TournamentStatus = "pending"
	TournamentOngoing   TournamentStatus = "ongoing"
	TournamentCompleted TournamentStatus = "completed"
)

func ParseTournamentStatus(raw string) (TournamentStatus, error) {
	switch s := TournamentStatus(raw); s {
	case TournamentPending, TournamentOngoing, TournamentCompleted:
		return s, nil
	default:
		return "", fmt.Errorf("unknown tournament status %q", raw)
	}
}

type TournamentFormat string

const (
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatGroupStage        TournamentFormat = "group_stage"
)

func ParseTournamentFormat(raw string) (TournamentFormat, error) {
	switch f := TournamentFormat(raw); f {
	case FormatSingleElimination, FormatRoundRobin, FormatGroupStage:
		return f, nil
	default:
		return "", fmt.Errorf("unknown tournament format %q", raw)
	}
}

type ParticipantsType string

const (
	ParticipantsTeam   ParticipantsType = "team"
	ParticipantsPlayer ParticipantsType = "player"
)

func ParseParticipantsType(raw string) (ParticipantsType, error) {
	switch p := ParticipantsType(raw); p {
	case ParticipantsTeam, ParticipantsPlayer:
		return p, nil
	default:
		return "", fmt.Errorf("unknown participants type %q", raw)
	}
}

type Tournament struct {
	ID               int                `json:"id" db:"id"`
	Name             string             `json:"name" db:"name"`
	Sport            Sport              `json:"sport" db:"sport"`
	Format           TournamentFormat   `json:"format" db:"format"`
	ParticipantsType ParticipantsType   `json:"participants_type" db:"participants_type"`
	MaxParticipants  int                `json:"max_participants" db:"max_participants"`
	PlayersPerTeam   int                `json:"players_per_team" db:"players_per_team"`
	Status           TournamentStatus   `json:"status" db:"status"`
	Venues           StringList         `json:"venues" db:"venues"`
	Registered       ParticipantRefList `json:"registered_participants" db:"registered_participants"`
	Winner           *string            `json:"winner,omitempty" db:"winner"`
	CreatorID        int                `json:"creator_id" db:"creator_id"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`

	// Populated on demand by the detail loader, not mapped directly.
	Matches []Match `json:"matches,omitempty" db:"-"`
}

// RegistrationClosed reports whether all slots are filled.
func (t *Tournament) RegistrationClosed() bool {
	return len(t.Registered) == t.MaxParticipants
}

// PrimaryVenue returns the first configured venue or a placeholder.
func (t *Tournament) PrimaryVenue() string {
	if len(t.Venues) > 0 {
		return t.Venues[0]
	}
	return "TBD"
}
