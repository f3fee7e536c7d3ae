package espn

import (
	"strconv"
	"strings"

	"github.com/mhenley/scorepush/internal/engine"
)

// --------------------------------------------------------------------------
// Raw scoreboard shapes (only the fields the normalizer needs)
// --------------------------------------------------------------------------

type scoreboardResponse struct {
	Events []Event `json:"events"`
}

// Event is one raw match record on the scoreboard.
type Event struct {
	ID           string        `json:"id"`
	Competitions []competition `json:"competitions"`
	Status       status        `json:"status"`
}

type competition struct {
	Competitors []competitor `json:"competitors"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     team   `json:"team"`
}

type team struct {
	DisplayName string `json:"displayName"`
}

type status struct {
	DisplayClock string     `json:"displayClock"`
	Type         statusType `json:"type"`
}

type statusType struct {
	Name        string `json:"name"`
	ShortDetail string `json:"shortDetail"`
}

// --------------------------------------------------------------------------
// Normalization
// --------------------------------------------------------------------------

// Normalize maps one raw scoreboard event onto a MatchSnapshot. It returns
// ok=false when the record lacks a resolvable home/away competitor pair —
// a malformed upstream record the caller should skip, never an error that
// fails the cycle.
func Normalize(leagueName string, evt Event) (engine.MatchSnapshot, bool) {
	if len(evt.Competitions) == 0 {
		return engine.MatchSnapshot{}, false
	}
	comp := evt.Competitions[0]

	var home, away *competitor
	for i := range comp.Competitors {
		switch comp.Competitors[i].HomeAway {
		case "home":
			home = &comp.Competitors[i]
		case "away":
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return engine.MatchSnapshot{}, false
	}

	return engine.MatchSnapshot{
		ID:           evt.ID,
		League:       leagueName,
		HomeTeam:     teamName(home, "Home"),
		AwayTeam:     teamName(away, "Away"),
		HomeScore:    parseScore(home.Score),
		AwayScore:    parseScore(away.Score),
		StatusType:   evt.Status.Type.Name,
		StatusDetail: evt.Status.Type.ShortDetail,
		Clock:        normalizeClock(evt.Status.DisplayClock),
	}, true
}

// teamName falls back to a placeholder so one nameless record never fails a
// whole cycle.
func teamName(c *competitor, fallback string) string {
	if name := strings.TrimSpace(c.Team.DisplayName); name != "" {
		return name
	}
	return fallback
}

// parseScore defaults absent or non-numeric scores to 0.
func parseScore(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// normalizeClock strips the feed's minute markers ("45'+2'" -> "45+2"),
// yielding a bare numeral string or empty.
func normalizeClock(displayClock string) string {
	return strings.ReplaceAll(displayClock, "'", "")
}
