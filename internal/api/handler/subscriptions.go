package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mhenley/scorepush/internal/api/respond"
	"github.com/mhenley/scorepush/internal/notifications"
)

// GetPushKey returns the VAPID public key clients subscribe with.
// @Summary VAPID public key
// @Description Returns the server's VAPID public key for PushManager.subscribe.
// @Tags push
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} respond.ErrorResponse "push not configured"
// @Router /api/v1/push/key [get]
func (h *Handler) GetPushKey(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.PushConfigured() {
		respond.WriteError(w, http.StatusServiceUnavailable, "PUSH_DISABLED", "VAPID keys are not configured")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]string{
		"vapidPublicKey": h.cfg.VAPIDPublicKey,
	})
}

// RegisterSubscription registers or refreshes a push subscription.
// @Summary Register push subscription
// @Description Stores a browser push subscription with its notification preferences, keyed by endpoint.
// @Tags push
// @Accept json
// @Produce json
// @Param body body notifications.Subscriber true "subscription and prefs"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/subscriptions [post]
func (h *Handler) RegisterSubscription(w http.ResponseWriter, r *http.Request) {
	var sub notifications.Subscriber
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if sub.Subscription.Endpoint == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_SUBSCRIPTION", "Missing subscription endpoint")
		return
	}

	if err := h.subs.Upsert(r.Context(), sub); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Failed to store subscription")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]bool{"ok": true})
}

// RemoveSubscription deletes a push subscription by endpoint.
// @Summary Remove push subscription
// @Description Deletes the registration for the endpoint in the request body.
// @Tags push
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/subscriptions [delete]
func (h *Handler) RemoveSubscription(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Endpoint == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_ENDPOINT", "Missing subscription endpoint")
		return
	}

	if err := h.subs.Delete(r.Context(), body.Endpoint); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Failed to delete subscription")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]bool{"ok": true})
}

// TestPush sends a fixed test notification to every subscriber, bypassing
// preference filters.
// @Summary Send test push
// @Description Pushes a fixed test payload to all registered subscriptions regardless of preferences.
// @Tags push
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/push/test [post]
func (h *Handler) TestPush(w http.ResponseWriter, r *http.Request) {
	res, err := h.dispatcher.DispatchAll(r.Context(), notifications.TestPayload(h.cfg.CopyPrefix))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "DISPATCH_FAILED", "Failed to dispatch test push")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"sent":    res.Sent,
		"failed":  res.Failed,
		"removed": res.Removed,
	})
}
