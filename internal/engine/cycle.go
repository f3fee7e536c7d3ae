package engine

// Diff runs event detection for a full polling cycle. current is the freshly
// fetched snapshot list in feed order; previous is the set persisted by the
// last successful cycle (empty on first run).
//
// Events are concatenated in current-list order. Matches present only in the
// previous set have dropped off the feed and are discarded silently. The
// returned SnapshotSet is the complete replacement value to persist as
// "previous" — the caller must store it wholesale, not merge it.
func Diff(previous SnapshotSet, current []MatchSnapshot) ([]MatchEvent, SnapshotSet) {
	next := make(SnapshotSet, len(current))

	var events []MatchEvent
	for _, cur := range current {
		var prev *MatchSnapshot
		if p, ok := previous[cur.ID]; ok {
			prev = &p
		}
		events = append(events, DetectEvents(prev, cur)...)
		next[cur.ID] = cur
	}

	return events, next
}
