package brackets

import (
	"fmt"

	"github.com/khelodev/khelo-server/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// BracketSize returns the smallest power of two that fits n participants.
func BracketSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// BracketInfo returns the bracket arithmetic for n participants:
// the bracket size, the bye count (bracketSize - n) and the first-round
// match count (n - byes).
func BracketInfo(n int) (bracketSize, byes, firstRoundMatches int) {
	bracketSize = BracketSize(n)
	byes = bracketSize - n
	firstRoundMatches = n - byes
	return bracketSize, byes, firstRoundMatches
}

// RoundNameFor derives the human round label from the bracket size.
func RoundNameFor(bracketSize, n int) string {
	switch {
	case n == 2:
		return "Final"
	case bracketSize == 4:
		return "Semifinal"
	case bracketSize == 8:
		return "Quarterfinal"
	case bracketSize == 16:
		return "Round of 16"
	default:
		return "Round 1"
	}
}

// Generate seeds the opening round in registration order: entries are paired
// 0v1, 2v3 and so on, up to the first-round match count; any unpaired tail
// advances on a bye and waits for the next round. Exactly two participants
// bypass the bye arithmetic entirely and play a single "Final".
func (g *SingleEliminationGenerator) Generate(participants []models.ParticipantRef) ([]Pairing, error) {
	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d, minimum 2 required", ErrNotEnoughParticipants, n)
	}

	if n == 2 {
		return []Pairing{{
			Round:        1,
			RoundName:    "Final",
			OrderInRound: 1,
			P1:           participants[0],
			P2:           participants[1],
		}}, nil
	}

	bracketSize, _, firstRoundMatches := BracketInfo(n)
	roundName := RoundNameFor(bracketSize, n)

	pairings := make([]Pairing, 0, firstRoundMatches)
	for i := 0; i < firstRoundMatches; i++ {
		p1Idx, p2Idx := 2*i, 2*i+1
		if p2Idx >= n {
			// The remaining entries have no opponent this round; they
			// advance on byes and enter the pool when the round completes.
			break
		}
		pairings = append(pairings, Pairing{
			Round:        1,
			RoundName:    roundName,
			OrderInRound: i + 1,
			P1:           participants[p1Idx],
			P2:           participants[p2Idx],
		})
	}
	return pairings, nil
}
