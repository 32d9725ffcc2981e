package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/savepoint/gamesync/internal/errors"
	"github.com/savepoint/gamesync/internal/ratelimit"
)

const (
	// DefaultBaseURL is the IGDB v4 API root.
	DefaultBaseURL = "https://api.igdb.com/v4"

	// steamStoreURL is the store URL prefix IGDB records in external_games.
	steamStoreURL = "https://store.steampowered.com/app"

	// externalGameSteam is the external_games category value for Steam.
	externalGameSteam = 1

	// DefaultConcurrency caps simultaneous in-flight API requests.
	DefaultConcurrency = 4
	// DefaultRequestInterval is the minimum spacing between dispatched
	// requests (4 req/s budget).
	DefaultRequestInterval = 250 * time.Millisecond

	requestTimeout = 30 * time.Second
	maxAttempts    = 3
)

// gameFields is the field list requested for every game query, covering both
// lookup forms so they yield equivalent payloads.
const gameFields = "fields id, name, slug, summary, first_release_date, " +
	"cover.url, cover.image_id, genres.name, platforms.name, " +
	"release_dates.human, release_dates.platform.name; "

// Config configures an IGDB API client.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string        // defaults to DefaultBaseURL
	TokenURL     string        // defaults to DefaultTokenURL
	Concurrency  int           // defaults to DefaultConcurrency
	Interval     time.Duration // defaults to DefaultRequestInterval
	CacheTTL     time.Duration // defaults to DefaultCacheTTL
}

// Client talks to the IGDB API with OAuth2 token management, bounded
// concurrency, request pacing, transport-level retries, and memoized
// Steam-app-ID match lookups (including negative results).
type Client struct {
	clientID string
	baseURL  string
	tokens   *tokenSource
	http     *retryablehttp.Client
	limiter  *ratelimit.Limiter
	sem      chan struct{}
	cache    *MatchCache
}

// NewClient creates an IGDB client from the given config.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultRequestInterval
	}

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = maxAttempts - 1
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = requestTimeout
	// Retry transient transport failures only; HTTP status codes (including
	// 429 and 5xx) are mapped to typed errors by the caller instead.
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return err != nil, nil
	}
	rc.ErrorHandler = func(resp *http.Response, err error, numTries int) (*http.Response, error) {
		return nil, errors.NewRetryExhaustedError("IGDB API request failed", numTries, err)
	}

	return &Client{
		clientID: cfg.ClientID,
		baseURL:  baseURL,
		tokens:   newTokenSource(cfg.ClientID, cfg.ClientSecret, cfg.TokenURL, nil),
		http:     rc,
		limiter:  ratelimit.NewEvery("igdb", interval),
		sem:      make(chan struct{}, concurrency),
		cache:    NewMatchCache(cfg.CacheTTL),
	}
}

// request posts an Apicalypse query body to the endpoint and returns the
// response rows. Every call holds a concurrency slot and waits for the pacing
// limiter before dispatch.
func (c *Client) request(ctx context.Context, endpoint, body string) ([]json.RawMessage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.sem }()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + "/" + endpoint
	slog.Debug("Making IGDB API request", "endpoint", endpoint)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, []byte(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build IGDB request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read IGDB response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.NewAuthError("IGDB authentication failed", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		slog.Warn("IGDB rate limit hit", "endpoint", endpoint)
		return nil, errors.NewRateLimitError("IGDB API rate limit exceeded")
	case resp.StatusCode >= 400:
		return nil, errors.NewRequestError(
			fmt.Sprintf("IGDB API request to %s failed", endpoint),
			resp.StatusCode,
		)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(respBody, &rows); err != nil {
		return nil, errors.NewParseError("failed to parse IGDB response as JSON", err)
	}
	return rows, nil
}

// queryGames runs a games query and decodes the first row, returning nil when
// the query matched nothing.
func (c *Client) queryGames(ctx context.Context, body string) (*Game, error) {
	rows, err := c.request(ctx, "games", body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var game Game
	if err := json.Unmarshal(rows[0], &game); err != nil {
		return nil, errors.NewParseError("failed to parse games response", err)
	}
	return &game, nil
}

// GameBySteamAppID looks up the IGDB game linked to a Steam app via a single
// query filtering games on their external store URL. Results, including
// confirmed not-found results, are cached per app ID.
func (c *Client) GameBySteamAppID(ctx context.Context, appID int) (*Game, error) {
	if game, ok := c.cache.Get(appID); ok {
		return game, nil
	}

	slog.Info("Looking up game by Steam app ID", "appid", appID)

	body := fmt.Sprintf("%swhere external_games.url = \"%s/%d\"; limit 1;",
		gameFields, steamStoreURL, appID)

	game, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}
	if game == nil {
		slog.Info("No IGDB match found for Steam app ID", "appid", appID)
	}

	c.cache.Put(appID, game)
	return game, nil
}

// ResolveSteamAppID resolves a Steam app to its IGDB game id via the
// external_games endpoint. Returns 0 when the app has no IGDB record. This is
// the first half of the two-step lookup form; combine with GameByID.
func (c *Client) ResolveSteamAppID(ctx context.Context, appID int) (int, error) {
	body := fmt.Sprintf("fields game; where category = %d & uid = \"%d\"; limit 1;",
		externalGameSteam, appID)

	rows, err := c.request(ctx, "external_games", body)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var ref struct {
		Game int `json:"game"`
	}
	if err := json.Unmarshal(rows[0], &ref); err != nil {
		return 0, errors.NewParseError("failed to parse external_games response", err)
	}
	return ref.Game, nil
}

// GameByID fetches full game details by IGDB id, returning nil when the id is
// unknown upstream.
func (c *Client) GameByID(ctx context.Context, igdbID int) (*Game, error) {
	body := fmt.Sprintf("%swhere id = %d;", gameFields, igdbID)

	game, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}
	if game == nil {
		slog.Info("Game not found by IGDB ID", "igdb_id", igdbID)
	}
	return game, nil
}

// Cache exposes the match cache, mainly for tests and cache management.
func (c *Client) Cache() *MatchCache {
	return c.cache
}

// ClearCache drops all memoized match results.
func (c *Client) ClearCache() {
	c.cache.Clear()
}
