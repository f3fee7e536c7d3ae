package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrSubscriptionGone reports that the push service no longer knows the
// endpoint (HTTP 404/410). The registration is dead and should be removed;
// every other failure is treated as transient.
var ErrSubscriptionGone = errors.New("subscription gone")

// WebPushSender sends VAPID-signed Web Push notifications.
// Nil-safe: when not configured, all methods are no-ops.
type WebPushSender struct {
	publicKey  string
	privateKey string
	subject    string
	logger     *slog.Logger
}

// NewWebPushSender creates a sender from a VAPID key pair. Returns nil if
// either key is empty (push disabled).
func NewWebPushSender(publicKey, privateKey, subject string, logger *slog.Logger) *WebPushSender {
	if publicKey == "" || privateKey == "" {
		return nil
	}
	return &WebPushSender{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
		logger:     logger,
	}
}

// Send pushes one payload to one subscription.
func (s *WebPushSender) Send(ctx context.Context, sub Subscription, payload Payload) error {
	if s == nil {
		return nil // no-op when not configured
	}

	msg, err := payload.encode()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, msg, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             pushTTL,
	})
	if err != nil {
		return fmt.Errorf("webpush send: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("push service returned %d: %s", resp.StatusCode, body)
	}
}

// GenerateVAPIDKeys creates a fresh VAPID key pair (private, public).
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}
