package cycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhenley/scorepush/internal/engine"
	"github.com/mhenley/scorepush/internal/notifications"
	"github.com/mhenley/scorepush/internal/state"
)

type fakeFeed struct {
	snaps []engine.MatchSnapshot
	err   error
	block chan struct{} // when set, FetchAll waits until closed
}

func (f *fakeFeed) FetchAll(context.Context) ([]engine.MatchSnapshot, error) {
	if f.block != nil {
		<-f.block
	}
	return f.snaps, f.err
}

type fakeDispatcher struct {
	events []engine.MatchEvent
}

func (f *fakeDispatcher) DispatchEvent(_ context.Context, ev engine.MatchEvent) (notifications.DispatchResult, error) {
	f.events = append(f.events, ev)
	return notifications.DispatchResult{Sent: 1}, nil
}

type failingStore struct {
	state.Store
	saveErr error
}

func (s *failingStore) Save(ctx context.Context, set engine.SnapshotSet) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.Save(ctx, set)
}

func liveSnap(id string, home, away int) engine.MatchSnapshot {
	return engine.MatchSnapshot{
		ID: id, League: "LaLiga", HomeTeam: "Barcelona", AwayTeam: "Sevilla",
		HomeScore: home, AwayScore: away,
		StatusType: "in", StatusDetail: "1st Half",
	}
}

func TestRun_FirstCycleSeedsStateSilently(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := state.NewMemory()
	dispatcher := &fakeDispatcher{}
	runner := NewRunner(&fakeFeed{snaps: []engine.MatchSnapshot{liveSnap("1", 0, 0)}}, store, dispatcher, nil)

	report, err := runner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Matches)
	assert.Zero(t, report.Detected, "cold start must not dispatch")
	assert.Empty(t, dispatcher.events)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestRun_DetectsAndDispatchesAcrossCycles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := state.NewMemory()
	feed := &fakeFeed{snaps: []engine.MatchSnapshot{liveSnap("1", 0, 0)}}
	dispatcher := &fakeDispatcher{}
	runner := NewRunner(feed, store, dispatcher, nil)

	_, err := runner.Run(ctx)
	require.NoError(t, err)

	feed.snaps = []engine.MatchSnapshot{liveSnap("1", 1, 0)}
	report, err := runner.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Detected)
	assert.Equal(t, 1, report.Sent)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, engine.EventGoal, dispatcher.events[0].Kind)
}

func TestRun_FetchFailureAbortsBeforeDispatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := state.NewMemory()
	require.NoError(t, store.Save(ctx, engine.SnapshotSet{"1": liveSnap("1", 0, 0)}))

	dispatcher := &fakeDispatcher{}
	runner := NewRunner(&fakeFeed{err: errors.New("league eng.1: 503")}, store, dispatcher, nil)

	_, err := runner.Run(ctx)
	require.Error(t, err)
	assert.Empty(t, dispatcher.events)

	// The stale previous set must survive so the next cycle can retry.
	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestRun_PersistFailureSurfacesAfterDispatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := state.NewMemory()
	require.NoError(t, inner.Save(ctx, engine.SnapshotSet{"1": liveSnap("1", 0, 0)}))
	store := &failingStore{Store: inner, saveErr: errors.New("connection reset")}

	dispatcher := &fakeDispatcher{}
	runner := NewRunner(&fakeFeed{snaps: []engine.MatchSnapshot{liveSnap("1", 1, 0)}}, store, dispatcher, nil)

	report, err := runner.Run(ctx)
	require.Error(t, err)
	// Dispatch already happened; the error tells the caller the cycle is
	// incomplete and the next run will re-diff from the stale set.
	assert.Equal(t, 1, report.Detected)
	assert.Len(t, dispatcher.events, 1)
}

func TestRun_RejectsOverlappingCycles(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	feed := &fakeFeed{snaps: nil, block: block}
	runner := NewRunner(feed, state.NewMemory(), &fakeDispatcher{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = runner.Run(context.Background())
	}()

	// Wait for the first cycle to take the lock inside FetchAll.
	require.Eventually(t, func() bool {
		_, err := runner.Run(context.Background())
		return errors.Is(err, ErrInFlight)
	}, time.Second, 5*time.Millisecond)

	close(block)
	<-done
}
