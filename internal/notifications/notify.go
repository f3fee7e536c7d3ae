// Package notifications turns detected match events into Web Push dispatches:
// format payload → filter subscribers by preference → fan out → prune dead
// endpoints.
//
// Delivery is best-effort, at most once per subscriber. One subscriber's
// failure never blocks the rest; only an endpoint the push service reports as
// gone (404/410) is removed from the registry.
package notifications

import "encoding/json"

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// pushTTL is how long the push service may queue an undelivered
	// notification. Scores go stale fast.
	pushTTL = 300 // seconds

	// scorerPlaceholder stands in for the goal scorer's name: the scoreboard
	// feed does not attribute scorers reliably, so the copy line carries a
	// fixed placeholder instead of a guess.
	scorerPlaceholder = "Unknown"
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Payload is one dispatchable notification. Tag is deterministic per event
// identity so the client can deduplicate redelivered notifications.
type Payload struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	CopyText string `json:"copyText"`
	Tag      string `json:"tag"`
}

// Prefs are a subscriber's per-event-kind opt-ins. NotifyGoal is a pointer
// because its default is opt-in: an absent field means true, unlike the
// others. NotifyFT gates both FT and AET.
type Prefs struct {
	NotifyKick bool  `json:"notifyKick"`
	NotifyHT   bool  `json:"notifyHT"`
	NotifyGoal *bool `json:"notifyGoal,omitempty"`
	NotifyFT   bool  `json:"notifyFT"`
}

// Goal reports the goal preference with its default-true semantics.
func (p Prefs) Goal() bool {
	return p.NotifyGoal == nil || *p.NotifyGoal
}

// Subscription is a Web Push subscription as the browser hands it over.
type Subscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

// SubscriptionKeys are the client's ECDH/auth keys for payload encryption.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscriber is one registered push target plus its preferences.
type Subscriber struct {
	Subscription Subscription `json:"subscription"`
	Prefs        Prefs        `json:"prefs"`
}

func (p Payload) encode() ([]byte, error) {
	return json.Marshal(p)
}
