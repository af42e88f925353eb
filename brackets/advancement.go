package brackets

import (
	"fmt"
	"sort"

	"github.com/khelodev/khelo-server/models"
)

// RoundState describes the most recently generated round of an elimination
// tournament, derived entirely from the persisted match set.
type RoundState struct {
	Seq      int
	Name     string
	Matches  []models.Match
	Complete bool
	// Unresolved holds completed matches with no winner. Such ties block
	// advancement until an explicit winner override is submitted.
	Unresolved []models.Match
}

// CurrentRound groups matches by round sequence and returns the state of the
// latest one. ok is false when the tournament has no matches yet.
func CurrentRound(matches []models.Match) (RoundState, bool) {
	maxSeq := 0
	for _, m := range matches {
		if m.RoundSeq > maxSeq {
			maxSeq = m.RoundSeq
		}
	}
	if maxSeq == 0 {
		return RoundState{}, false
	}

	state := RoundState{Seq: maxSeq, Complete: true}
	for _, m := range matches {
		if m.RoundSeq != maxSeq {
			continue
		}
		state.Name = m.Round
		state.Matches = append(state.Matches, m)
		if m.Status != models.MatchCompleted {
			state.Complete = false
			continue
		}
		if m.WinnerID == nil {
			state.Unresolved = append(state.Unresolved, m)
		}
	}
	sort.SliceStable(state.Matches, func(i, j int) bool {
		return state.Matches[i].OrderInRound < state.Matches[j].OrderInRound
	})
	return state, true
}

// AdvancementPool builds the ordered entrant list for the round after the
// given one: winners in match order first, then still-alive participants who
// had no match in that round (bye carriers) in registration order. A
// participant is alive while it has not lost a completed match.
func AdvancementPool(registered models.ParticipantRefList, matches []models.Match, current RoundState) []models.ParticipantRef {
	eliminated := make(map[int]bool)
	for _, m := range matches {
		if m.Status != models.MatchCompleted || m.WinnerID == nil {
			continue
		}
		switch *m.WinnerID {
		case m.P1.ID:
			eliminated[m.P2.ID] = true
		case m.P2.ID:
			eliminated[m.P1.ID] = true
		}
	}

	playedCurrent := make(map[int]bool)
	pool := make([]models.ParticipantRef, 0, len(current.Matches)+1)
	for _, m := range current.Matches {
		playedCurrent[m.P1.ID] = true
		playedCurrent[m.P2.ID] = true
		if ref := m.WinnerRef(); ref != nil {
			pool = append(pool, *ref)
		}
	}
	for _, ref := range registered {
		if !eliminated[ref.ID] && !playedCurrent[ref.ID] {
			pool = append(pool, ref)
		}
	}
	return pool
}

// NextRoundPlan is the outcome of an advancement step: either the pairings of
// the next round, or the tournament champion when the pool is down to one.
type NextRoundPlan struct {
	Pairings []Pairing
	Champion *models.ParticipantRef
	RoundSeq int
	Name     string
}

// PlanNextRound pairs the pool sequentially (0v1, 2v3, ...). An odd pool
// leaves its last entrant on a bye; a single-entrant pool decides the
// champion and ends the bracket.
func PlanNextRound(pool []models.ParticipantRef, completedSeq int) NextRoundPlan {
	plan := NextRoundPlan{RoundSeq: completedSeq + 1}
	if len(pool) == 0 {
		return plan
	}
	if len(pool) == 1 {
		champion := pool[0]
		plan.Champion = &champion
		return plan
	}

	plan.Name = nextRoundName(len(pool), plan.RoundSeq)
	for i := 0; i+1 < len(pool); i += 2 {
		plan.Pairings = append(plan.Pairings, Pairing{
			Round:        plan.RoundSeq,
			RoundName:    plan.Name,
			OrderInRound: i/2 + 1,
			P1:           pool[i],
			P2:           pool[i+1],
		})
	}
	return plan
}

func nextRoundName(poolSize, seq int) string {
	switch BracketSize(poolSize) {
	case 2:
		return "Final"
	case 4:
		return "Semifinal"
	case 8:
		return "Quarterfinal"
	case 16:
		return "Round of 16"
	default:
		return fmt.Sprintf("Round %d", seq)
	}
}
