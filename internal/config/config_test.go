package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestInitConfigDefaults(t *testing.T) {
	resetViper(t)

	InitConfig()

	assert.Equal(t, "./savepoint.db", DatabasePath)
	assert.Equal(t, 4, viper.GetInt("enrich.concurrency"))
	assert.Equal(t, "1h", viper.GetString("enrich.cache_ttl"))
}

func TestInitConfigReadsValues(t *testing.T) {
	resetViper(t)

	viper.Set("steam.apikey", "key-123")
	viper.Set("igdb.client_id", "id-456")
	viper.Set("igdb.client_secret", "secret-789")
	viper.Set("database.path", "/tmp/games.db")

	InitConfig()

	assert.Equal(t, "key-123", SteamAPIKey)
	assert.Equal(t, "id-456", IGDBClientID)
	assert.Equal(t, "secret-789", IGDBClientSecret)
	assert.Equal(t, "/tmp/games.db", DatabasePath)
}

func TestSetDatabasePath(t *testing.T) {
	resetViper(t)

	InitConfig()
	SetDatabasePath("/tmp/override.db")

	assert.Equal(t, "/tmp/override.db", DatabasePath)
	assert.Equal(t, "/tmp/override.db", viper.GetString("database.path"))
}
