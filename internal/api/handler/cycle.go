package handler

import (
	"errors"
	"net/http"

	"github.com/mhenley/scorepush/internal/api/respond"
	"github.com/mhenley/scorepush/internal/cycle"
)

// RunCycle triggers one detection cycle: fetch, diff, dispatch, persist.
// @Summary Run one polling cycle
// @Description Fetches the current scoreboards, diffs against the previous snapshot set, dispatches detected events, and persists the new set.
// @Tags cycle
// @Produce json
// @Success 200 {object} cycle.Report
// @Failure 409 {object} respond.ErrorResponse "a cycle is already in flight"
// @Failure 502 {object} respond.ErrorResponse "upstream feed unavailable"
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/cycle [post]
func (h *Handler) RunCycle(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.Run(r.Context())
	switch {
	case errors.Is(err, cycle.ErrInFlight):
		respond.WriteError(w, http.StatusConflict, "CYCLE_IN_FLIGHT", "A cycle is already running")
		return
	case errors.Is(err, cycle.ErrFeedUnavailable):
		respond.WriteError(w, http.StatusBadGateway, "FEED_UNAVAILABLE", "Failed to fetch scoreboards")
		return
	case err != nil:
		// Dispatch may already have happened; the cycle is still incomplete
		// and will re-diff from the stale set next time.
		respond.WriteError(w, http.StatusInternalServerError, "CYCLE_FAILED", "Cycle did not complete")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, report)
}
