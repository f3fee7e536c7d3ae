package engine

// DetectEvents derives the ordered event list for one match from its previous
// and current snapshots. prev is nil when the match is seen for the first
// time; no events are emitted then — a match must be observed for two
// consecutive cycles before any transition can be inferred, which keeps a
// cold start mid-matchday from producing a kickoff/goal storm.
//
// Each rule is evaluated independently, so one cycle can yield several events
// (a poll window spanning two goals and the final whistle fires GOAL, GOAL,
// FT). Emission order is fixed: KICK, HT, GOAL(s), FT, AET.
func DetectEvents(prev *MatchSnapshot, cur MatchSnapshot) []MatchEvent {
	if prev == nil {
		return nil
	}

	var events []MatchEvent

	prevBucket := prev.Bucket()
	curBucket := cur.Bucket()

	// Kickoff requires having watched the match leave SCHED for LIVE; a jump
	// straight to FT (missed polling window, postponement shuffle) never
	// fires KICK.
	if prevBucket == BucketScheduled && curBucket == BucketLive {
		events = append(events, MatchEvent{Kind: EventKick, Match: cur})
	}

	if prevBucket != BucketHalfTime && curBucket == BucketHalfTime {
		events = append(events, MatchEvent{Kind: EventHalfTime, Match: cur})
	}

	// Goals: total must strictly increase while live. One event per side
	// whose score rose — both can fire in the same cycle. A decreased total
	// is an upstream score correction: no event, no "un-goal"; the corrected
	// numbers simply become the baseline for the next diff.
	if cur.TotalScore() > prev.TotalScore() && curBucket == BucketLive {
		clock := cur.Clock
		if clock == "" {
			clock = "0"
		}
		if cur.HomeScore > prev.HomeScore {
			events = append(events, MatchEvent{
				Kind:       EventGoal,
				Match:      cur,
				Side:       SideHome,
				GoalNumber: cur.HomeScore,
				Time:       clock,
			})
		}
		if cur.AwayScore > prev.AwayScore {
			events = append(events, MatchEvent{
				Kind:       EventGoal,
				Match:      cur,
				Side:       SideAway,
				GoalNumber: cur.AwayScore,
				Time:       clock,
			})
		}
	}

	if prevBucket != BucketFullTime && curBucket == BucketFullTime {
		events = append(events, MatchEvent{Kind: EventFullTime, Match: cur})
	}
	if prevBucket != BucketAET && curBucket == BucketAET {
		events = append(events, MatchEvent{Kind: EventFullTimeAET, Match: cur})
	}

	// Penalty shootouts: the feed exposes no reliable shootout breakdown, so
	// no shootout event exists yet. Known gap, not an approximation.

	return events
}
