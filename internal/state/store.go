// Package state persists the previous cycle's snapshot set between polling
// cycles. The set lives under one fixed key as a single JSON blob: read once
// at cycle start, overwritten wholesale at cycle end, never merged.
//
// Three implementations: Redis (default when configured), Postgres (single
// row), and in-memory (tests, local dev without infra).
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mhenley/scorepush/internal/engine"
)

// Store persists one snapshot set under a fixed logical key.
type Store interface {
	// Load returns the persisted set, or an empty set when none exists yet.
	Load(ctx context.Context) (engine.SnapshotSet, error)
	// Save replaces the persisted set wholesale.
	Save(ctx context.Context, set engine.SnapshotSet) error
	// Clear removes the persisted set.
	Clear(ctx context.Context) error
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// encodeSet serializes a set as a JSON array sorted by match id so the
// persisted blob is deterministic.
func encodeSet(set engine.SnapshotSet) ([]byte, error) {
	snaps := make([]engine.MatchSnapshot, 0, len(set))
	for _, s := range set {
		snaps = append(snaps, s)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })

	data, err := json.Marshal(snaps)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot set: %w", err)
	}
	return data, nil
}

// decodeSet parses a persisted JSON array back into a set. Empty input yields
// an empty set.
func decodeSet(data []byte) (engine.SnapshotSet, error) {
	set := engine.SnapshotSet{}
	if len(data) == 0 {
		return set, nil
	}

	var snaps []engine.MatchSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("decode snapshot set: %w", err)
	}
	for _, s := range snaps {
		set[s.ID] = s
	}
	return set, nil
}
