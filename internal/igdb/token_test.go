package igdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/savepoint/gamesync/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestToken_FetchesAndCaches(t *testing.T) {
	var calls int
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc123","expires_in":5000,"token_type":"bearer"}`))
	})

	ts := newTokenSource("id", "secret", server.URL, server.Client())

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// Second call within the validity window reuses the held token.
	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)
	assert.Equal(t, 1, calls)
}

func TestToken_RefreshesNearExpiry(t *testing.T) {
	var calls int
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":120}`))
	})

	ts := newTokenSource("id", "secret", server.URL, server.Client())
	base := time.Now()
	ts.now = func() time.Time { return base }

	_, err := ts.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// 70 seconds into a 120-second token: inside the 60-second skew window,
	// so the next call must refresh.
	ts.now = func() time.Time { return base.Add(70 * time.Second) }

	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestToken_Unauthorized(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	ts := newTokenSource("id", "bad-secret", server.URL, server.Client())

	_, err := ts.Token(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuthError(err))
}

func TestToken_ServerError(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ts := newTokenSource("id", "secret", server.URL, server.Client())

	_, err := ts.Token(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsRequestError(err))
}

func TestToken_MalformedBody(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	ts := newTokenSource("id", "secret", server.URL, server.Client())

	_, err := ts.Token(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestToken_MissingAccessToken(t *testing.T) {
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"expires_in":5000}`))
	})

	ts := newTokenSource("id", "secret", server.URL, server.Client())

	_, err := ts.Token(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

// Concurrent callers must share one refresh instead of each hitting the
// token endpoint.
func TestToken_SingleFlightRefresh(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	server := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":5000}`))
	})

	ts := newTokenSource("id", "secret", server.URL, server.Client())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := ts.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "tok", token)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}
