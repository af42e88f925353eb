package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchScheduled   MatchStatus = "scheduled"
	MatchInProgress  MatchStatus = "in_progress"
	MatchCompleted   MatchStatus = "completed"
	MatchRescheduled MatchStatus = "rescheduled"
	MatchCancelled   MatchStatus = "cancelled"
)

func ParseMatchStatus(raw string) (MatchStatus, error) {
	switch s := MatchStatus(raw); s {
	case MatchScheduled, MatchInProgress, MatchCompleted, MatchRescheduled, MatchCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("unknown match status %q", raw)
	}
}

// ScoreData is the normalized per-participant score for one side of a match.
// The populated fields depend on the sport; it is stored as a JSONB column.
type ScoreData map[string]int

func (s ScoreData) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *ScoreData) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ScoreData", src)
	}
	return json.Unmarshal(data, s)
}

// Match holds exactly two participant slots. The slots are immutable once the
// match is created; only scores, status and the winner mutate afterwards.
type Match struct {
	ID           int            `json:"id" db:"id"`
	TournamentID int            `json:"tournament_id" db:"tournament_id"`
	P1           ParticipantRef `json:"participant1" db:"p1_ref"`
	P2           ParticipantRef `json:"participant2" db:"p2_ref"`
	Round        string         `json:"round" db:"round"`
	RoundSeq     int            `json:"round_seq" db:"round_seq"`
	OrderInRound int            `json:"order_in_round" db:"order_in_round"`
	Status       MatchStatus    `json:"status" db:"status"`
	P1Score      ScoreData      `json:"p1_score,omitempty" db:"p1_score"`
	P2Score      ScoreData      `json:"p2_score,omitempty" db:"p2_score"`
	WinnerID     *int           `json:"winner_id,omitempty" db:"winner_id"`
	P1IsWinner   bool           `json:"p1_is_winner" db:"-"`
	P2IsWinner   bool           `json:"p2_is_winner" db:"-"`
	Venue        string         `json:"venue" db:"venue"`
	ScheduledAt  time.Time      `json:"scheduled_at" db:"scheduled_at"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// HasBothSlots reports whether the two participant slots are populated.
func (m *Match) HasBothSlots() bool {
	return m.P1.ID != 0 && m.P2.ID != 0
}

// IsDraw reports a completed match with no winner.
func (m *Match) IsDraw() bool {
	return m.Status == MatchCompleted && m.WinnerID == nil
}

// SyncWinnerFlags recomputes the per-slot winner flags from WinnerID.
// Exactly one flag is set for a decided match, none for a draw.
func (m *Match) SyncWinnerFlags() {
	m.P1IsWinner = m.WinnerID != nil && *m.WinnerID == m.P1.ID
	m.P2IsWinner = m.WinnerID != nil && *m.WinnerID == m.P2.ID
}

// WinnerRef returns the ref of the winning slot, if any.
func (m *Match) WinnerRef() *ParticipantRef {
	if m.WinnerID == nil {
		return nil
	}
	switch *m.WinnerID {
	case m.P1.ID:
		ref := m.P1
		return &ref
	case m.P2.ID:
		ref := m.P2
		return &ref
	}
	return nil
}

// ParticipantRef wrappers for the JSONB columns.

func (r ParticipantRef) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *ParticipantRef) Scan(src interface{}) error {
	if src == nil {
		*r = ParticipantRef{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ParticipantRef", src)
	}
	return json.Unmarshal(data, r)
}
