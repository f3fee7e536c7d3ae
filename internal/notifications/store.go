package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionStore persists push subscriptions in Postgres, keyed by
// endpoint. Statement names are registered in internal/db.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewSubscriptionStore creates a store on an existing pool.
func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{pool: pool}
}

// Upsert registers a subscriber or refreshes an existing registration.
func (s *SubscriptionStore) Upsert(ctx context.Context, sub Subscriber) error {
	prefs, err := json.Marshal(sub.Prefs)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	_, err = s.pool.Exec(ctx, "sub_upsert",
		sub.Subscription.Endpoint, sub.Subscription.Keys.P256dh, sub.Subscription.Keys.Auth, prefs)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// Delete removes a registration by endpoint. Deleting an unknown endpoint is
// not an error.
func (s *SubscriptionStore) Delete(ctx context.Context, endpoint string) error {
	if _, err := s.pool.Exec(ctx, "sub_delete", endpoint); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

// List returns all registered subscribers.
func (s *SubscriptionStore) List(ctx context.Context) ([]Subscriber, error) {
	rows, err := s.pool.Query(ctx, "sub_list")
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		var prefs []byte
		if err := rows.Scan(&sub.Subscription.Endpoint, &sub.Subscription.Keys.P256dh,
			&sub.Subscription.Keys.Auth, &prefs); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		if len(prefs) > 0 {
			if err := json.Unmarshal(prefs, &sub.Prefs); err != nil {
				return nil, fmt.Errorf("unmarshal prefs for %s: %w", sub.Subscription.Endpoint, err)
			}
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Count returns the number of registered subscribers.
func (s *SubscriptionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "sub_count").Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return n, nil
}
