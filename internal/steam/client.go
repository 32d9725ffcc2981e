package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/savepoint/gamesync/internal/errors"
)

// DefaultBaseURL is the Steam Web API root.
const DefaultBaseURL = "https://api.steampowered.com"

const ownedGamesPath = "/IPlayerService/GetOwnedGames/v1/"

// Steam IDs are 17-digit numbers
var steamIDPattern = regexp.MustCompile(`^\d{17}$`)

// Client fetches a user's owned games from the Steam Web API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Steam API client. baseURL may be empty for production.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// OwnedGames fetches all owned games for the given 64-bit Steam ID.
func (c *Client) OwnedGames(ctx context.Context, steamID64 string) ([]Game, error) {
	if !steamIDPattern.MatchString(steamID64) {
		return nil, errors.NewValidationError(
			fmt.Sprintf("invalid Steam ID %q: must be a 17-digit number", steamID64),
			"steamid",
		)
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID64)
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")
	params.Set("format", "json")

	fullURL := c.baseURL + ownedGamesPath + "?" + params.Encode()

	slog.Info("Fetching Steam library", "steam_id", steamID64)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Steam request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Steam games: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.NewSteamProfileError(resp.StatusCode, string(body))
	case resp.StatusCode == http.StatusTooManyRequests:
		slog.Warn("Steam API rate limit hit", "status", resp.StatusCode)
		return nil, errors.NewRateLimitError("Steam API rate limit exceeded, try again later")
	case resp.StatusCode >= 400:
		return nil, errors.NewRequestError(
			fmt.Sprintf("Steam API request failed: %s", firstN(string(body), 200)),
			resp.StatusCode,
		)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NewParseError("failed to parse Steam API response as JSON", err)
	}

	games := parsed.Response.Games
	if len(games) == 0 {
		slog.Warn("No games found in Steam library (profile may be private)", "steam_id", steamID64)
	} else {
		slog.Info("Fetched Steam library", "steam_id", steamID64, "game_count", len(games))
	}

	return games, nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
