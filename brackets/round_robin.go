package brackets

import (
	"fmt"

	"github.com/khelodev/khelo-server/models"
)

// byeSlot is the synthetic participant inserted when the field is odd.
// A ref with a zero id never occurs for a real participant.
var byeSlot = models.ParticipantRef{}

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate runs the classic circle method: with an even field of size N'
// (odd fields get a bye slot) it produces N'-1 rounds, pairing position i
// with position N'-1-i each round, then rotating with position 0 fixed.
// Every unordered pair of real participants meets exactly once, for a total
// of N*(N-1)/2 matches.
func (g *RoundRobinGenerator) Generate(participants []models.ParticipantRef) ([]Pairing, error) {
	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d, minimum 2 required", ErrNotEnoughParticipants, n)
	}

	order := make([]models.ParticipantRef, n, n+1)
	copy(order, participants)
	if n%2 != 0 {
		order = append(order, byeSlot)
	}
	size := len(order)

	pairings := make([]Pairing, 0, n*(n-1)/2)
	for round := 1; round < size; round++ {
		orderInRound := 1
		for i := 0; i < size/2; i++ {
			p1, p2 := order[i], order[size-1-i]
			if p1 == byeSlot || p2 == byeSlot {
				continue
			}
			pairings = append(pairings, Pairing{
				Round:        round,
				RoundName:    fmt.Sprintf("Round %d", round),
				OrderInRound: orderInRound,
				P1:           p1,
				P2:           p2,
			})
			orderInRound++
		}
		order = rotateRound(order)
	}
	return pairings, nil
}

// rotateRound produces the next round's order: position 0 stays fixed, the
// last element moves to position 1 and the rest shift right. The input slice
// is left untouched so each round's order is an independent value.
func rotateRound(order []models.ParticipantRef) []models.ParticipantRef {
	next := make([]models.ParticipantRef, 0, len(order))
	next = append(next, order[0], order[len(order)-1])
	next = append(next, order[1:len(order)-1]...)
	return next
}
