package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mhenley/scorepush/internal/api/respond"
	"github.com/mhenley/scorepush/internal/cache"
	"github.com/mhenley/scorepush/internal/engine"
)

const scoreboardCacheKey = "scoreboard"

// uiMatch is the observation-mode projection of a snapshot: the raw fields
// plus a display-friendly status line and a copy-to-clipboard score line.
type uiMatch struct {
	engine.MatchSnapshot
	StatusText string `json:"statusText"`
	CopyAll    string `json:"copyAll"`
}

type scoreboardResponse struct {
	Matches []uiMatch `json:"matches"`
}

// GetScoreboard serves the observation-mode scoreboard: a read-only
// projection of the current feed with no event detection and no state reads
// or writes.
// @Summary Current scoreboard
// @Description Live snapshot of all configured leagues. Read-only; performs no event detection.
// @Tags scoreboard
// @Produce json
// @Success 200 {object} scoreboardResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/scoreboard [get]
func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ifNoneMatch := r.Header.Get("If-None-Match")

	if data, etag, ok := h.cache.Get(scoreboardCacheKey); ok {
		if cache.CheckETagMatch(ifNoneMatch, etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLScoreboard, true)
		return
	}

	snaps, err := h.feed.FetchAll(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusBadGateway, "FEED_UNAVAILABLE", "Failed to fetch scoreboards")
		return
	}

	matches := make([]uiMatch, 0, len(snaps))
	for _, s := range snaps {
		matches = append(matches, uiMatch{
			MatchSnapshot: s,
			StatusText:    statusText(s),
			CopyAll:       copyLine(s, h.cfg.CopyPrefix),
		})
	}

	data, err := json.Marshal(scoreboardResponse{Matches: matches})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode scoreboard")
		return
	}

	etag := h.cache.Set(scoreboardCacheKey, data, cache.TTLScoreboard)
	if cache.CheckETagMatch(ifNoneMatch, etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLScoreboard, false)
}

func statusText(s engine.MatchSnapshot) string {
	if s.StatusDetail != "" {
		return s.StatusDetail
	}
	return s.StatusType
}

func copyLine(s engine.MatchSnapshot, prefix string) string {
	return fmt.Sprintf("%s %s %d - %d %s", prefix, s.HomeTeam, s.HomeScore, s.AwayScore, s.AwayTeam)
}
