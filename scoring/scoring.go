// Package scoring turns raw sport-specific score payloads into normalized
// per-participant score data and a decided winner (or draw). One pure rule
// set exists per sport behind a uniform interface; new sports are added as
// new rule values, never by string matching at call sites.
package scoring

import (
	"errors"
	"fmt"

	"github.com/khelodev/khelo-server/models"
)

// ErrMalformedPayload is returned when the raw payload is missing the fields
// the sport's rules require.
var ErrMalformedPayload = errors.New("malformed score payload")

// Normalized score data keys.
const (
	KeyScore   = "score"
	KeyRuns    = "runs"
	KeyWickets = "wickets"
	KeySetsWon = "sets_won"
)

// RawScore is the wire shape of a score submission. Which fields must be set
// depends on the tournament's sport.
type RawScore struct {
	ScoreA   *int `json:"score_a,omitempty"`
	ScoreB   *int `json:"score_b,omitempty"`
	RunsA    *int `json:"runs_a,omitempty"`
	RunsB    *int `json:"runs_b,omitempty"`
	WicketsA *int `json:"wickets_a,omitempty"`
	WicketsB *int `json:"wickets_b,omitempty"`
	SetsWonA *int `json:"sets_won_a,omitempty"`
	SetsWonB *int `json:"sets_won_b,omitempty"`
}

// Side identifies the winning slot of a resolved match.
type Side int

const (
	NoWinner Side = iota
	SideA
	SideB
)

// Result is a resolved score: normalized data for both sides plus the winner.
// NoWinner means a draw, which every rule set permits when the primary
// metrics are equal.
type Result struct {
	A      models.ScoreData
	B      models.ScoreData
	Winner Side
}

// Rules resolves a raw payload for one sport. Resolving the same payload
// twice yields identical results.
type Rules interface {
	Sport() models.Sport
	Resolve(raw RawScore) (Result, error)
}

// RulesFor returns the rule set for a sport. Unlisted sports fall back to the
// generic score comparison.
func RulesFor(sport models.Sport) Rules {
	switch sport {
	case models.SportCricket:
		return cricketRules{}
	case models.SportBadminton:
		return badmintonRules{}
	case models.SportFootball, models.SportVolleyball, models.SportMulti, models.SportOther:
		return scoreRules{sport: sport}
	default:
		return scoreRules{sport: sport}
	}
}

// PrimaryMetric names the score data key that decides a match for the sport.
// The standings aggregator uses it for the for/against columns.
func PrimaryMetric(sport models.Sport) string {
	switch sport {
	case models.SportCricket:
		return KeyRuns
	case models.SportBadminton:
		return KeySetsWon
	default:
		return KeyScore
	}
}

func decide(a, b int) Side {
	switch {
	case a > b:
		return SideA
	case b > a:
		return SideB
	default:
		return NoWinner
	}
}

// scoreRules covers football, volleyball, multi and other: winner by final
// score, draws allowed.
type scoreRules struct {
	sport models.Sport
}

func (r scoreRules) Sport() models.Sport { return r.sport }

func (r scoreRules) Resolve(raw RawScore) (Result, error) {
	if raw.ScoreA == nil || raw.ScoreB == nil {
		return Result{}, fmt.Errorf("%w: %s requires score_a and score_b", ErrMalformedPayload, r.sport)
	}
	return Result{
		A:      models.ScoreData{KeyScore: *raw.ScoreA},
		B:      models.ScoreData{KeyScore: *raw.ScoreB},
		Winner: decide(*raw.ScoreA, *raw.ScoreB),
	}, nil
}

// cricketRules decides by runs; equal runs is a tie. Wickets are recorded in
// the normalized data but never decide the match.
type cricketRules struct{}

func (cricketRules) Sport() models.Sport { return models.SportCricket }

func (cricketRules) Resolve(raw RawScore) (Result, error) {
	if raw.RunsA == nil || raw.RunsB == nil {
		return Result{}, fmt.Errorf("%w: cricket requires runs_a and runs_b", ErrMalformedPayload)
	}
	a := models.ScoreData{KeyRuns: *raw.RunsA}
	b := models.ScoreData{KeyRuns: *raw.RunsB}
	if raw.WicketsA != nil {
		a[KeyWickets] = *raw.WicketsA
	}
	if raw.WicketsB != nil {
		b[KeyWickets] = *raw.WicketsB
	}
	return Result{A: a, B: b, Winner: decide(*raw.RunsA, *raw.RunsB)}, nil
}

// badmintonRules decides by sets won. Equal sets resolves to a draw even
// though knockout badminton should never reach one; elimination advancement
// surfaces such matches as unresolved ties instead of papering over them.
type badmintonRules struct{}

func (badmintonRules) Sport() models.Sport { return models.SportBadminton }

func (badmintonRules) Resolve(raw RawScore) (Result, error) {
	if raw.SetsWonA == nil || raw.SetsWonB == nil {
		return Result{}, fmt.Errorf("%w: badminton requires sets_won_a and sets_won_b", ErrMalformedPayload)
	}
	return Result{
		A:      models.ScoreData{KeySetsWon: *raw.SetsWonA},
		B:      models.ScoreData{KeySetsWon: *raw.SetsWonB},
		Winner: decide(*raw.SetsWonA, *raw.SetsWonB),
	}, nil
}
