package models

import "fmt"

// Sport is the closed set of supported sports. Scoring rules are selected
// by this enum, never by free-form strings.
type Sport string

const (
	SportFootball   Sport = "football"
	SportCricket    Sport = "cricket"
	SportBadminton  Sport = "badminton"
	SportVolleyball Sport = "volleyball"
	SportMulti      Sport = "multi"
	SportOther      Sport = "other"
)

var allSports = []Sport{
	SportFootball,
	SportCricket,
	SportBadminton,
	SportVolleyball,
	SportMulti,
	SportOther,
}

func (s Sport) Valid() bool {
	for _, known := range allSports {
		if s == known {
			return true
		}
	}
	return false
}

func ParseSport(raw string) (Sport, error) {
	s := Sport(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown sport %q", raw)
	}
	return s, nil
}
