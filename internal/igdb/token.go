package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/savepoint/gamesync/internal/errors"
)

// DefaultTokenURL is the Twitch OAuth2 client-credentials endpoint that
// issues IGDB bearer tokens.
const DefaultTokenURL = "https://id.twitch.tv/oauth2/token"

// tokenExpirySkew is how long before actual expiry a token is treated as
// expiring and refreshed.
const tokenExpirySkew = 60 * time.Second

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// tokenSource holds the OAuth2 bearer credential for the IGDB API and
// refreshes it proactively before expiry. The mutex makes the refresh
// single-flight: concurrent fetch workers block on one exchange call instead
// of each hitting the token endpoint.
type tokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	expiry      time.Time

	now func() time.Time
}

func newTokenSource(clientID, clientSecret, tokenURL string, httpClient *http.Client) *tokenSource {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &tokenSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient:   httpClient,
		now:          time.Now,
	}
}

// Token returns a valid bearer token, refreshing synchronously when no token
// is held or the held token is within 60 seconds of expiring.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.accessToken == "" || t.now().After(t.expiry.Add(-tokenExpirySkew)) {
		if err := t.refresh(ctx); err != nil {
			return "", err
		}
	}

	return t.accessToken, nil
}

// refresh performs one token exchange call. Callers must hold t.mu.
func (t *tokenSource) refresh(ctx context.Context) error {
	slog.Info("Refreshing IGDB OAuth2 token")

	params := url.Values{}
	params.Set("client_id", t.clientID)
	params.Set("client_secret", t.clientSecret)
	params.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.NewAuthError("invalid IGDB/Twitch credentials", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return errors.NewRequestError(
			fmt.Sprintf("token request failed with status %d", resp.StatusCode),
			resp.StatusCode,
		)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return errors.NewParseError("failed to parse token response", err)
	}
	if token.AccessToken == "" {
		return errors.NewParseError("token response missing access_token", nil)
	}

	t.accessToken = token.AccessToken
	t.expiry = t.now().Add(time.Duration(token.ExpiresIn) * time.Second)

	slog.Debug("IGDB token acquired", "expires_in", token.ExpiresIn)
	return nil
}
