// Package standings folds a tournament's completed matches into a ranked
// leaderboard. The computation is a pure function of (tournament, matches):
// nothing is persisted and identical inputs always produce identical tables.
package standings

import (
	"sort"

	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/scoring"
)

// Per-sport point schemes. Football-family sports also show and sort by the
// score difference; cricket and badminton show points only.
const (
	winPointsDefault = 3
	winPointsLight   = 2
	drawPoints       = 1
)

func winPoints(sport models.Sport) int {
	switch sport {
	case models.SportCricket, models.SportBadminton:
		return winPointsLight
	default:
		return winPointsDefault
	}
}

func showsDifference(sport models.Sport) bool {
	switch sport {
	case models.SportCricket, models.SportBadminton:
		return false
	default:
		return true
	}
}

func columnsFor(sport models.Sport) []string {
	if showsDifference(sport) {
		return []string{"played", "wins", "draws", "losses", "score_for", "score_against", "score_difference", "points"}
	}
	return []string{"played", "wins", "draws", "losses", "points"}
}

// Compute builds the standings table. Every registered participant gets a
// row, zeroed when it never played. Only completed matches whose two refs
// resolve to registered participants are folded.
func Compute(tournament *models.Tournament, matches []models.Match) *models.StandingsTable {
	rows := make([]models.StandingRow, len(tournament.Registered))
	index := make(map[int]*models.StandingRow, len(tournament.Registered))
	for i, ref := range tournament.Registered {
		rows[i] = models.StandingRow{Participant: ref}
		index[ref.ID] = &rows[i]
	}

	points := winPoints(tournament.Sport)
	metric := scoring.PrimaryMetric(tournament.Sport)

	for _, m := range matches {
		if m.Status != models.MatchCompleted {
			continue
		}
		rowA, okA := index[m.P1.ID]
		rowB, okB := index[m.P2.ID]
		if !okA || !okB {
			continue
		}

		scoreA := m.P1Score[metric]
		scoreB := m.P2Score[metric]
		foldSide(rowA, scoreA, scoreB)
		foldSide(rowB, scoreB, scoreA)

		switch {
		case m.WinnerID == nil:
			rowA.Draws++
			rowA.Points += drawPoints
			rowB.Draws++
			rowB.Points += drawPoints
		case *m.WinnerID == m.P1.ID:
			rowA.Wins++
			rowA.Points += points
			rowB.Losses++
		case *m.WinnerID == m.P2.ID:
			rowB.Wins++
			rowB.Points += points
			rowA.Losses++
		}
	}

	// Primary key: points. Secondary: score difference, only for sports that
	// display it. Beyond that the stable input order stands; no tertiary
	// tie-break is invented, so equal rows get adjacent distinct ranks.
	useDiff := showsDifference(tournament.Sport)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if useDiff && rows[i].ScoreDifference != rows[j].ScoreDifference {
			return rows[i].ScoreDifference > rows[j].ScoreDifference
		}
		return false
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return &models.StandingsTable{
		Columns: columnsFor(tournament.Sport),
		Rows:    rows,
	}
}

func foldSide(row *models.StandingRow, scored, conceded int) {
	row.Played++
	row.ScoreFor += scored
	row.ScoreAgainst += conceded
	row.ScoreDifference = row.ScoreFor - row.ScoreAgainst
}
