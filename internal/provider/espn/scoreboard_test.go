package espn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawEvent() Event {
	return Event{
		ID: "401638915",
		Competitions: []competition{{
			Competitors: []competitor{
				{HomeAway: "home", Score: "2", Team: team{DisplayName: "Arsenal"}},
				{HomeAway: "away", Score: "1", Team: team{DisplayName: "Chelsea"}},
			},
		}},
		Status: status{
			DisplayClock: "67'",
			Type:         statusType{Name: "STATUS_IN_PROGRESS", ShortDetail: "2nd Half"},
		},
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	snap, ok := Normalize("Premier League", rawEvent())
	require.True(t, ok)

	assert.Equal(t, "401638915", snap.ID)
	assert.Equal(t, "Premier League", snap.League)
	assert.Equal(t, "Arsenal", snap.HomeTeam)
	assert.Equal(t, "Chelsea", snap.AwayTeam)
	assert.Equal(t, 2, snap.HomeScore)
	assert.Equal(t, 1, snap.AwayScore)
	assert.Equal(t, "STATUS_IN_PROGRESS", snap.StatusType)
	assert.Equal(t, "2nd Half", snap.StatusDetail)
	assert.Equal(t, "67", snap.Clock, "minute marker must be stripped")
}

func TestNormalize_MissingCompetitorPairSkipped(t *testing.T) {
	t.Parallel()

	evt := rawEvent()
	evt.Competitions = nil
	_, ok := Normalize("Premier League", evt)
	assert.False(t, ok)

	evt = rawEvent()
	evt.Competitions[0].Competitors = evt.Competitions[0].Competitors[:1] // home only
	_, ok = Normalize("Premier League", evt)
	assert.False(t, ok)
}

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	evt := rawEvent()
	evt.Competitions[0].Competitors[0].Score = ""
	evt.Competitions[0].Competitors[1].Score = "n/a"
	evt.Competitions[0].Competitors[0].Team.DisplayName = ""
	evt.Competitions[0].Competitors[1].Team.DisplayName = "  "
	evt.Status.DisplayClock = ""

	snap, ok := Normalize("LaLiga", evt)
	require.True(t, ok)
	assert.Equal(t, 0, snap.HomeScore)
	assert.Equal(t, 0, snap.AwayScore)
	assert.Equal(t, "Home", snap.HomeTeam)
	assert.Equal(t, "Away", snap.AwayTeam)
	assert.Equal(t, "", snap.Clock)
}
