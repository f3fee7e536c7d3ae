// Package engine implements the snapshot diffing core: it classifies
// free-text match statuses into canonical buckets and derives discrete match
// events (kickoff, half-time, goal, full-time) from two consecutive polled
// snapshots of the same match.
//
// The engine is pure. It performs no I/O, holds no state between cycles, and
// is deterministic given its inputs: the caller owns persistence of the
// previous snapshot set and must serialize cycles (at most one in flight).
package engine

// --------------------------------------------------------------------------
// Snapshots
// --------------------------------------------------------------------------

// MatchSnapshot is one match at one polling instant. Snapshots are built
// fresh each cycle from the feed and never mutated in place.
type MatchSnapshot struct {
	ID           string `json:"id"`
	League       string `json:"league"`
	HomeTeam     string `json:"homeTeam"`
	AwayTeam     string `json:"awayTeam"`
	HomeScore    int    `json:"homeScore"`
	AwayScore    int    `json:"awayScore"`
	StatusType   string `json:"statusType"`
	StatusDetail string `json:"statusDetail"`
	Clock        string `json:"clock"` // bare minutes, may be empty
}

// TotalScore returns home plus away.
func (m MatchSnapshot) TotalScore() int {
	return m.HomeScore + m.AwayScore
}

// Bucket classifies this snapshot's status fields.
func (m MatchSnapshot) Bucket() StatusBucket {
	return Classify(m.StatusType, m.StatusDetail)
}

// SnapshotSet maps match id to snapshot for one polling cycle. The previous
// cycle's set is the only state carried between invocations; it is replaced
// wholesale, never merged.
type SnapshotSet map[string]MatchSnapshot

// --------------------------------------------------------------------------
// Events
// --------------------------------------------------------------------------

// EventKind is the closed set of detectable transitions.
type EventKind string

const (
	EventKick        EventKind = "KICK"
	EventHalfTime    EventKind = "HT"
	EventGoal        EventKind = "GOAL"
	EventFullTime    EventKind = "FT"
	EventFullTimeAET EventKind = "AET"
)

// Side tags which team a goal event belongs to.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// MatchEvent is a detected transition for one match in one cycle.
// Side, GoalNumber and Time are set for GOAL events only; GoalNumber is the
// scoring side's new total, not an increment count.
type MatchEvent struct {
	Kind       EventKind     `json:"kind"`
	Match      MatchSnapshot `json:"match"`
	Side       Side          `json:"side,omitempty"`
	GoalNumber int           `json:"goalNumber,omitempty"`
	Time       string        `json:"time,omitempty"`
}
