package models

// StandingRow is a derived aggregate, never persisted. Identical match
// histories always produce identical rows.
type StandingRow struct {
	Participant     ParticipantRef `json:"participant"`
	Played          int            `json:"played"`
	Wins            int            `json:"wins"`
	Draws           int            `json:"draws"`
	Losses          int            `json:"losses"`
	ScoreFor        int            `json:"score_for"`
	ScoreAgainst    int            `json:"score_against"`
	ScoreDifference int            `json:"score_difference"`
	Points          int            `json:"points"`
	Rank            int            `json:"rank"`
}

// StandingsTable pairs ranked rows with the column spec the sport displays.
type StandingsTable struct {
	Columns []string      `json:"columns"`
	Rows    []StandingRow `json:"rows"`
}
