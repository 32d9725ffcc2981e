package igdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/savepoint/gamesync/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dotaGameJSON = `[{
	"id": 119,
	"name": "Dota 2",
	"slug": "dota-2",
	"summary": "Dota 2 is a multiplayer online battle arena video game.",
	"first_release_date": 1373328000,
	"cover": {"id": 89387, "url": "//images.igdb.com/igdb/image/upload/t_thumb/co1x73.jpg"},
	"genres": [{"id": 15, "name": "Strategy"}, {"id": 36, "name": "MOBA"}],
	"platforms": [{"id": 6, "name": "PC (Microsoft Windows)"}, {"id": 14, "name": "Mac"}]
}]`

type fakeIGDB struct {
	mu            sync.Mutex
	gamesCalls    int
	externalCalls int
	gamesBody     string
	gamesResponse func(w http.ResponseWriter, r *http.Request)
}

func newTestClient(t *testing.T, fake *fakeIGDB) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"test-token","expires_in":5000}`))
	})
	mux.HandleFunc("/games", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		fake.gamesCalls++
		fake.mu.Unlock()
		assert.Equal(t, "test-id", r.Header.Get("Client-ID"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		if fake.gamesResponse != nil {
			fake.gamesResponse(w, r)
			return
		}
		_, _ = w.Write([]byte(fake.gamesBody))
	})
	mux.HandleFunc("/external_games", func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		fake.externalCalls++
		fake.mu.Unlock()
		_, _ = w.Write([]byte(`[{"id": 9001, "game": 119}]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewClient(Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		BaseURL:      server.URL,
		TokenURL:     server.URL + "/oauth2/token",
		Interval:     time.Millisecond,
	})
}

func TestGameBySteamAppID_Match(t *testing.T) {
	fake := &fakeIGDB{gamesBody: dotaGameJSON}
	client := newTestClient(t, fake)

	game, err := client.GameBySteamAppID(context.Background(), 570)
	require.NoError(t, err)
	require.NotNil(t, game)

	assert.Equal(t, 119, game.ID)
	assert.Equal(t, "Dota 2", game.Name)
	assert.Equal(t, "dota-2", game.Slug)
	assert.Equal(t, "https://images.igdb.com/igdb/image/upload/t_thumb/co1x73.jpg", game.CoverURL())
	assert.Equal(t, "2013-07-09", game.ReleaseDate())
	assert.Equal(t, []int{15, 36}, game.GenreIDs())
	assert.Equal(t, []int{6, 14}, game.PlatformIDs())
}

func TestGameBySteamAppID_CachesPositive(t *testing.T) {
	fake := &fakeIGDB{gamesBody: dotaGameJSON}
	client := newTestClient(t, fake)

	for i := 0; i < 3; i++ {
		game, err := client.GameBySteamAppID(context.Background(), 570)
		require.NoError(t, err)
		require.NotNil(t, game)
	}

	assert.Equal(t, 1, fake.gamesCalls)
}

func TestGameBySteamAppID_CachesNegative(t *testing.T) {
	fake := &fakeIGDB{gamesBody: `[]`}
	client := newTestClient(t, fake)

	for i := 0; i < 3; i++ {
		game, err := client.GameBySteamAppID(context.Background(), 440)
		require.NoError(t, err)
		assert.Nil(t, game)
	}

	assert.Equal(t, 1, fake.gamesCalls)
}

func TestGameBySteamAppID_ClearCacheRefetches(t *testing.T) {
	fake := &fakeIGDB{gamesBody: dotaGameJSON}
	client := newTestClient(t, fake)

	_, err := client.GameBySteamAppID(context.Background(), 570)
	require.NoError(t, err)

	client.ClearCache()

	_, err = client.GameBySteamAppID(context.Background(), 570)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.gamesCalls)
}

func TestRequest_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"401 maps to auth error", http.StatusUnauthorized, errors.IsAuthError},
		{"429 maps to rate limit error", http.StatusTooManyRequests, errors.IsRateLimitError},
		{"500 maps to request error", http.StatusInternalServerError, errors.IsRequestError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeIGDB{gamesResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}}
			client := newTestClient(t, fake)

			_, err := client.GameBySteamAppID(context.Background(), 570)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			// Status-code failures must not be retried.
			assert.Equal(t, 1, fake.gamesCalls)
		})
	}
}

func TestRequest_NonJSONBody(t *testing.T) {
	fake := &fakeIGDB{gamesBody: "<html>gateway</html>"}
	client := newTestClient(t, fake)

	_, err := client.GameBySteamAppID(context.Background(), 570)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

// The two lookup forms must return equivalent payloads.
func TestTwoStepLookup_EquivalentToDirect(t *testing.T) {
	fake := &fakeIGDB{gamesBody: dotaGameJSON}
	client := newTestClient(t, fake)

	igdbID, err := client.ResolveSteamAppID(context.Background(), 570)
	require.NoError(t, err)
	assert.Equal(t, 119, igdbID)

	viaID, err := client.GameByID(context.Background(), igdbID)
	require.NoError(t, err)
	require.NotNil(t, viaID)

	direct, err := client.GameBySteamAppID(context.Background(), 570)
	require.NoError(t, err)
	require.NotNil(t, direct)

	assert.Equal(t, direct, viaID)
}

func TestResolveSteamAppID_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"test-token","expires_in":5000}`))
	})
	mux.HandleFunc("/external_games", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		ClientID: "test-id", ClientSecret: "s",
		BaseURL:  server.URL,
		TokenURL: server.URL + "/oauth2/token",
		Interval: time.Millisecond,
	})

	igdbID, err := client.ResolveSteamAppID(context.Background(), 99999999)
	require.NoError(t, err)
	assert.Equal(t, 0, igdbID)
}

func TestRequest_RetriesExhaustedOnTransportError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"test-token","expires_in":5000}`))
	})
	server := httptest.NewServer(mux)

	client := NewClient(Config{
		ClientID: "test-id", ClientSecret: "s",
		BaseURL:  server.URL,
		TokenURL: server.URL + "/oauth2/token",
		Interval: time.Millisecond,
	})
	// Prime the token while the server is alive, then kill the server so the
	// games request hits a dead endpoint.
	_, err := client.tokens.Token(context.Background())
	require.NoError(t, err)
	server.Close()

	_, err = client.GameBySteamAppID(context.Background(), 570)
	require.Error(t, err)
	assert.True(t, errors.IsRetryExhaustedError(err))
}

func TestRequest_ConcurrencyCapEnforced(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32

	fake := &fakeIGDB{
		gamesBody: `[]`,
		gamesResponse: func(w http.ResponseWriter, r *http.Request) {
			cur := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				observed := maxInFlight.Load()
				if cur <= observed || maxInFlight.CompareAndSwap(observed, cur) {
					break
				}
			}
			// Hold the request open so overlapping dispatches pile up.
			time.Sleep(30 * time.Millisecond)
			_, _ = w.Write([]byte(`[]`))
		},
	}
	client := newTestClient(t, fake)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(appID int) {
			defer wg.Done()
			_, err := client.GameBySteamAppID(context.Background(), appID)
			assert.NoError(t, err)
		}(1000 + i)
	}
	wg.Wait()

	assert.Equal(t, 12, fake.gamesCalls)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(DefaultConcurrency))
}

func TestCoverURL_ImageIDFallback(t *testing.T) {
	game := &Game{Cover: &Cover{ImageID: "co1x73"}}
	assert.Equal(t,
		"https://images.igdb.com/igdb/image/upload/t_cover_big/co1x73.jpg",
		game.CoverURL())
}

func TestCoverURL_NoCover(t *testing.T) {
	game := &Game{}
	assert.Equal(t, "", game.CoverURL())
}

func TestReleaseDate_HumanFallback(t *testing.T) {
	game := &Game{ReleaseDates: []ReleaseDate{
		{Human: "Jul 09, 2013", Platform: Ref{ID: 6, Name: "PC (Microsoft Windows)"}},
	}}
	assert.Equal(t, "2013-07-09", game.ReleaseDate())
}

func TestReleaseDate_Unknown(t *testing.T) {
	game := &Game{ReleaseDates: []ReleaseDate{{Human: "TBD"}}}
	assert.Equal(t, "", game.ReleaseDate())
}
