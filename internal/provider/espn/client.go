// Package espn fetches live soccer scoreboards from the ESPN site API and
// normalizes them into engine snapshots.
//
// The API is unauthenticated but informally rate limited, so requests go
// through a token bucket limiter. A cache-busting query parameter defeats
// the CDN's scoreboard caching.
package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mhenley/scorepush/internal/config"
	"github.com/mhenley/scorepush/internal/engine"
)

// Client is the scoreboard feed client for a fixed league set.
type Client struct {
	httpClient *http.Client
	baseURL    string
	leagues    []config.League
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a rate-limited scoreboard client.
func NewClient(baseURL string, leagues []config.League, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		leagues:    leagues,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// FetchAll fetches every configured league concurrently and returns the
// normalized snapshots in league-registry order. Any league failing fails the
// whole fetch: a cycle must diff against a complete feed or not at all.
func (c *Client) FetchAll(ctx context.Context) ([]engine.MatchSnapshot, error) {
	perLeague := make([][]engine.MatchSnapshot, len(c.leagues))

	g, gctx := errgroup.WithContext(ctx)
	for i, lg := range c.leagues {
		i, lg := i, lg
		g.Go(func() error {
			snaps, err := c.FetchScoreboard(gctx, lg)
			if err != nil {
				return fmt.Errorf("league %s: %w", lg.Key, err)
			}
			perLeague[i] = snaps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []engine.MatchSnapshot
	for _, snaps := range perLeague {
		out = append(out, snaps...)
	}
	return out, nil
}

// FetchScoreboard fetches one league's scoreboard and normalizes its events.
// Records without a resolvable home/away pair are skipped, not errors.
func (c *Client) FetchScoreboard(ctx context.Context, league config.League) ([]engine.MatchSnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/apis/v2/sports/soccer/%s/scoreboard?_=%d",
		c.baseURL, league.Key, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard %s returned %d: %s", league.Key, resp.StatusCode, truncate(body, 200))
	}

	var sb scoreboardResponse
	if err := json.Unmarshal(body, &sb); err != nil {
		return nil, fmt.Errorf("decode scoreboard: %w", err)
	}

	snaps := make([]engine.MatchSnapshot, 0, len(sb.Events))
	for _, evt := range sb.Events {
		snap, ok := Normalize(league.Name, evt)
		if !ok {
			c.logger.Warn("Skipping malformed scoreboard event", "league", league.Key, "event_id", evt.ID)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
