package notifications

import (
	"fmt"

	"github.com/mhenley/scorepush/internal/engine"
)

// BuildPayload formats one match event as a dispatch payload. prefix is the
// leading token on copy-to-clipboard lines.
//
// Copy text exists only for GOAL/FT/AET. Postponed-match lines, "no goals
// yet" placeholders, and penalty-shootout suffixes are deliberately absent —
// product requirement, not an omission.
func BuildPayload(ev engine.MatchEvent, prefix string) Payload {
	m := ev.Match

	switch ev.Kind {
	case engine.EventKick:
		return Payload{
			Title: fmt.Sprintf("Kickoff: %s vs %s", m.HomeTeam, m.AwayTeam),
			Body:  m.League,
			Tag:   "kick-" + m.ID,
		}

	case engine.EventHalfTime:
		return Payload{
			Title: "Half Time",
			Body:  scoreLine(m),
			Tag:   "ht-" + m.ID,
		}

	case engine.EventGoal:
		copyText := goalLine(prefix, ev)
		return Payload{
			Title:    fmt.Sprintf("GOAL! %s %d - %d %s", m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam),
			Body:     m.League + "\n" + copyText,
			CopyText: copyText,
			Tag:      fmt.Sprintf("goal-%s-%d-%d", m.ID, m.HomeScore, m.AwayScore),
		}

	case engine.EventFullTime:
		return Payload{
			Title:    "Full Time",
			Body:     scoreLine(m),
			CopyText: prefix + " end match",
			Tag:      "ft-" + m.ID,
		}

	case engine.EventFullTimeAET:
		return Payload{
			Title:    "Full Time (AET)",
			Body:     scoreLine(m),
			CopyText: prefix + " end match AET",
			Tag:      "aet-" + m.ID,
		}

	default:
		return Payload{Tag: "evt-" + m.ID}
	}
}

// Wants is the subscriber-preference predicate for an event kind.
func Wants(prefs Prefs, kind engine.EventKind) bool {
	switch kind {
	case engine.EventKick:
		return prefs.NotifyKick
	case engine.EventHalfTime:
		return prefs.NotifyHT
	case engine.EventGoal:
		return prefs.Goal()
	case engine.EventFullTime, engine.EventFullTimeAET:
		return prefs.NotifyFT
	default:
		return false
	}
}

// TestPayload is the fixed payload behind the push test endpoint.
func TestPayload(prefix string) Payload {
	return Payload{
		Title:    "Test",
		Body:     "Push is working.",
		CopyText: prefix + " end match",
		Tag:      "test",
	}
}

func scoreLine(m engine.MatchSnapshot) string {
	return fmt.Sprintf("%s %d - %d %s\n%s", m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam, m.League)
}

func goalLine(prefix string, ev engine.MatchEvent) string {
	return fmt.Sprintf("%s %s goal %d by %q at %s",
		prefix, ev.Side, ev.GoalNumber, scorerPlaceholder, ev.Time)
}
