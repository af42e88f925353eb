package models

import "time"

// Player may belong to at most one team roster at a time (TeamID nil when
// unattached).
type Player struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TeamID    *int      `json:"team_id,omitempty" db:"team_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (p *Player) Ref() ParticipantRef {
	return ParticipantRef{ID: p.ID, Name: p.Name}
}
