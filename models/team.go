package models

import "time"

// Team is owned by exactly one manager. IsReady gates tournament start for
// team tournaments: a team may only be marked ready with a full roster.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ManagerID int       `json:"manager_id" db:"manager_id"`
	IsReady   bool      `json:"is_ready" db:"is_ready"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Roster []Player `json:"roster,omitempty" db:"-"`
}

func (t *Team) Ref() ParticipantRef {
	return ParticipantRef{ID: t.ID, Name: t.Name}
}
