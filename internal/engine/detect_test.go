package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(id, statusType, statusDetail string, home, away int) MatchSnapshot {
	return MatchSnapshot{
		ID:           id,
		League:       "Premier League",
		HomeTeam:     "Arsenal",
		AwayTeam:     "Chelsea",
		HomeScore:    home,
		AwayScore:    away,
		StatusType:   statusType,
		StatusDetail: statusDetail,
	}
}

func TestDetectEvents_ColdStartSuppressed(t *testing.T) {
	t.Parallel()

	// First sighting emits nothing, whatever the current state looks like.
	assert.Empty(t, DetectEvents(nil, snap("1", "pre", "Scheduled", 0, 0)))
	assert.Empty(t, DetectEvents(nil, snap("2", "in", "1st Half", 2, 1)))
	assert.Empty(t, DetectEvents(nil, snap("3", "post", "FT", 3, 0)))
}

func TestDetectEvents_Kickoff(t *testing.T) {
	t.Parallel()

	prev := snap("42", "pre", "Scheduled", 0, 0)
	cur := snap("42", "in", "1st Half", 0, 0)

	events := DetectEvents(&prev, cur)
	require.Len(t, events, 1)
	assert.Equal(t, EventKick, events[0].Kind)
	assert.Equal(t, "42", events[0].Match.ID)
}

func TestDetectEvents_ScheduledToFullTimeSkipsKickoff(t *testing.T) {
	t.Parallel()

	prev := snap("42", "pre", "Scheduled", 0, 0)
	cur := snap("42", "post", "FT", 1, 0)

	events := DetectEvents(&prev, cur)
	require.Len(t, events, 1)
	assert.Equal(t, EventFullTime, events[0].Kind)
}

func TestDetectEvents_GoalsBothSides(t *testing.T) {
	t.Parallel()

	prev := snap("7", "in", "1st Half", 1, 0)
	cur := snap("7", "in", "2nd Half", 2, 1)
	cur.Clock = "67"

	events := DetectEvents(&prev, cur)
	require.Len(t, events, 2)

	assert.Equal(t, EventGoal, events[0].Kind)
	assert.Equal(t, SideHome, events[0].Side)
	assert.Equal(t, 2, events[0].GoalNumber)
	assert.Equal(t, "67", events[0].Time)

	assert.Equal(t, EventGoal, events[1].Kind)
	assert.Equal(t, SideAway, events[1].Side)
	assert.Equal(t, 1, events[1].GoalNumber)
}

func TestDetectEvents_GoalClockDefaultsToZero(t *testing.T) {
	t.Parallel()

	prev := snap("7", "in", "1st Half", 0, 0)
	cur := snap("7", "in", "1st Half", 1, 0)

	events := DetectEvents(&prev, cur)
	require.Len(t, events, 1)
	assert.Equal(t, "0", events[0].Time)
}

func TestDetectEvents_GoalRequiresLiveBucket(t *testing.T) {
	t.Parallel()

	// A score appearing together with the final whistle is not a GOAL event;
	// only FT fires.
	prev := snap("7", "in", "2nd Half", 1, 1)
	cur := snap("7", "post", "FT", 2, 1)

	events := DetectEvents(&prev, cur)
	require.Len(t, events, 1)
	assert.Equal(t, EventFullTime, events[0].Kind)
}

func TestDetectEvents_ScoreRegressionIsQuiet(t *testing.T) {
	t.Parallel()

	prev := snap("9", "in", "2nd Half", 2, 1)
	cur := snap("9", "in", "2nd Half", 2, 0)

	assert.Empty(t, DetectEvents(&prev, cur))
}

func TestDetectEvents_HalfTimeThenFullTimeInOneCycle(t *testing.T) {
	t.Parallel()

	// Missed polls can span several transitions; independent rules still fire
	// in the fixed order.
	prev := snap("11", "in", "1st Half", 0, 0)
	cur := snap("11", "in", "HT", 1, 0)

	events := DetectEvents(&prev, cur)
	require.Len(t, events, 1)
	assert.Equal(t, EventHalfTime, events[0].Kind)

	prev2 := snap("12", "in", "HT", 1, 0)
	cur2 := snap("12", "post", "FT", 1, 0)

	events = DetectEvents(&prev2, cur2)
	require.Len(t, events, 1)
	assert.Equal(t, EventFullTime, events[0].Kind)
}

func TestDetectEvents_ExtraTimeFullTime(t *testing.T) {
	t.Parallel()

	prev := snap("13", "in", "ET", 1, 1)
	cur := snap("13", "post", "FT-AET", 2, 1)

	events := DetectEvents(&prev, cur)
	require.Len(t, events, 1)
	assert.Equal(t, EventFullTimeAET, events[0].Kind)
}

func TestDetectEvents_BucketSequenceFiresOncePerTransition(t *testing.T) {
	t.Parallel()

	seq := []MatchSnapshot{
		snap("20", "pre", "Scheduled", 0, 0),
		snap("20", "in", "1st Half", 0, 0),
		snap("20", "in", "HT", 0, 0),
		snap("20", "in", "2nd Half", 0, 0),
		snap("20", "post", "FT", 0, 0),
	}

	var kinds []EventKind
	for i := 1; i < len(seq); i++ {
		for _, ev := range DetectEvents(&seq[i-1], seq[i]) {
			kinds = append(kinds, ev.Kind)
		}
	}

	assert.Equal(t, []EventKind{EventKick, EventHalfTime, EventFullTime}, kinds)
}

func TestDetectEvents_PureFunction(t *testing.T) {
	t.Parallel()

	prev := snap("30", "in", "1st Half", 0, 0)
	cur := snap("30", "in", "1st Half", 1, 0)

	first := DetectEvents(&prev, cur)
	second := DetectEvents(&prev, cur)
	assert.Equal(t, first, second)
}
