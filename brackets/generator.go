package brackets

import (
	"errors"
	"fmt"

	"github.com/khelodev/khelo-server/models"
)

var (
	ErrNotEnoughParticipants = errors.New("not enough participants to generate a schedule")
	ErrUnsupportedFormat     = errors.New("unsupported tournament format")
)

// Pairing is a match skeleton produced by a generator. It carries refs only;
// resolving refs to Team or Player aggregates happens elsewhere.
type Pairing struct {
	Round        int
	RoundName    string
	OrderInRound int
	P1           models.ParticipantRef
	P2           models.ParticipantRef
}

// Generator builds an ordered list of match skeletons from an ordered
// participant list. Generation is deterministic: the same list and format
// always produce the same pairings.
type Generator interface {
	Generate(participants []models.ParticipantRef) ([]Pairing, error)
	Name() string
}

// ForFormat selects the generator for a tournament format. Group-stage
// scheduling is a known gap and reported as unsupported, not guessed at.
func ForFormat(format models.TournamentFormat) (Generator, error) {
	switch format {
	case models.FormatRoundRobin:
		return NewRoundRobinGenerator(), nil
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
