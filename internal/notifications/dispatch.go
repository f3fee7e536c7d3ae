package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mhenley/scorepush/internal/engine"
)

// SubscriberRegistry is the subscription storage the dispatcher reads and
// prunes. Implemented by SubscriptionStore.
type SubscriberRegistry interface {
	List(ctx context.Context) ([]Subscriber, error)
	Delete(ctx context.Context, endpoint string) error
}

// Pusher delivers one payload to one subscription. Implemented by
// WebPushSender.
type Pusher interface {
	Send(ctx context.Context, sub Subscription, payload Payload) error
}

// Dispatcher fans one payload out to every matching subscriber.
type Dispatcher struct {
	registry SubscriberRegistry
	sender   Pusher
	prefix   string
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. prefix is the copy-text prefix token.
func NewDispatcher(registry SubscriberRegistry, sender Pusher, prefix string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, sender: sender, prefix: prefix, logger: logger}
}

// DispatchResult counts one fan-out's outcomes.
type DispatchResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"`
}

// Add combines two results.
func (r DispatchResult) Add(other DispatchResult) DispatchResult {
	return DispatchResult{
		Sent:    r.Sent + other.Sent,
		Failed:  r.Failed + other.Failed,
		Removed: r.Removed + other.Removed,
	}
}

// DispatchEvent formats a match event and delivers it to every subscriber
// whose preferences want the event's kind.
func (d *Dispatcher) DispatchEvent(ctx context.Context, ev engine.MatchEvent) (DispatchResult, error) {
	payload := BuildPayload(ev, d.prefix)
	return d.Dispatch(ctx, payload, func(p Prefs) bool { return Wants(p, ev.Kind) })
}

// DispatchAll delivers a payload to every subscriber regardless of
// preferences (test pushes).
func (d *Dispatcher) DispatchAll(ctx context.Context, payload Payload) (DispatchResult, error) {
	return d.Dispatch(ctx, payload, nil)
}

// Dispatch fans a payload out to all subscribers passing the predicate
// (nil means everyone). Failures are isolated per subscriber: a gone
// endpoint is deregistered, any other failure is logged and the
// registration kept.
func (d *Dispatcher) Dispatch(ctx context.Context, payload Payload, want func(Prefs) bool) (DispatchResult, error) {
	var result DispatchResult

	subs, err := d.registry.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list subscribers: %w", err)
	}

	for _, sub := range subs {
		if want != nil && !want(sub.Prefs) {
			continue
		}

		err := d.sender.Send(ctx, sub.Subscription, payload)
		switch {
		case err == nil:
			result.Sent++
		case errors.Is(err, ErrSubscriptionGone):
			if delErr := d.registry.Delete(ctx, sub.Subscription.Endpoint); delErr != nil {
				d.logger.Warn("Failed to remove gone subscription",
					"endpoint", sub.Subscription.Endpoint, "error", delErr)
			}
			result.Removed++
		default:
			d.logger.Warn("Push send failed", "tag", payload.Tag, "error", err)
			result.Failed++
		}
	}
	return result, nil
}
