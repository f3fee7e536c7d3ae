package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhenley/scorepush/internal/engine"
)

type fakeRegistry struct {
	subs    []Subscriber
	deleted []string
}

func (f *fakeRegistry) List(context.Context) ([]Subscriber, error) {
	return f.subs, nil
}

func (f *fakeRegistry) Delete(_ context.Context, endpoint string) error {
	f.deleted = append(f.deleted, endpoint)
	return nil
}

type fakePusher struct {
	errs map[string]error // endpoint -> result
	sent []string
}

func (f *fakePusher) Send(_ context.Context, sub Subscription, _ Payload) error {
	if err, ok := f.errs[sub.Endpoint]; ok {
		return err
	}
	f.sent = append(f.sent, sub.Endpoint)
	return nil
}

func subscriber(endpoint string, prefs Prefs) Subscriber {
	return Subscriber{
		Subscription: Subscription{Endpoint: endpoint, Keys: SubscriptionKeys{P256dh: "p", Auth: "a"}},
		Prefs:        prefs,
	}
}

func TestDispatchEvent_PreferenceFiltering(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{subs: []Subscriber{
		subscriber("https://push/a", Prefs{NotifyKick: true}),
		subscriber("https://push/b", Prefs{}), // kick off by default
	}}
	pusher := &fakePusher{}
	d := NewDispatcher(registry, pusher, "$", nil)

	res, err := d.DispatchEvent(context.Background(), engine.MatchEvent{Kind: engine.EventKick, Match: matchFixture()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, []string{"https://push/a"}, pusher.sent)
}

func TestDispatch_GoneEndpointIsRemoved(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{subs: []Subscriber{
		subscriber("https://push/dead", Prefs{}),
		subscriber("https://push/alive", Prefs{}),
	}}
	pusher := &fakePusher{errs: map[string]error{"https://push/dead": ErrSubscriptionGone}}
	d := NewDispatcher(registry, pusher, "$", nil)

	res, err := d.DispatchEvent(context.Background(), engine.MatchEvent{Kind: engine.EventGoal, Match: matchFixture(), Side: engine.SideHome, GoalNumber: 1, Time: "10"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, []string{"https://push/dead"}, registry.deleted)
}

func TestDispatch_TransientFailureKeepsRegistration(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{subs: []Subscriber{
		subscriber("https://push/flaky", Prefs{}),
		subscriber("https://push/ok", Prefs{}),
	}}
	pusher := &fakePusher{errs: map[string]error{"https://push/flaky": errors.New("503 from push service")}}
	d := NewDispatcher(registry, pusher, "$", nil)

	res, err := d.DispatchEvent(context.Background(), engine.MatchEvent{Kind: engine.EventGoal, Match: matchFixture(), Side: engine.SideAway, GoalNumber: 1, Time: "80"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, registry.deleted, "transient failure must not deregister")
}

func TestDispatchAll_BypassesPreferences(t *testing.T) {
	t.Parallel()

	registry := &fakeRegistry{subs: []Subscriber{
		subscriber("https://push/a", Prefs{}),
		subscriber("https://push/b", Prefs{}),
	}}
	pusher := &fakePusher{}
	d := NewDispatcher(registry, pusher, "$", nil)

	res, err := d.DispatchAll(context.Background(), TestPayload("$"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
}
