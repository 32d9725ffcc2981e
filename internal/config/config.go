package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// SteamAPIKey is the Steam Web API key
	SteamAPIKey string
	// IGDBClientID is the Twitch/IGDB application client ID
	IGDBClientID string
	// IGDBClientSecret is the Twitch/IGDB application client secret
	IGDBClientSecret string
	// DatabasePath is the SQLite database file used by the import stage
	DatabasePath string
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	viper.SetDefault("database.path", "./savepoint.db")
	viper.SetDefault("enrich.concurrency", 4)
	viper.SetDefault("enrich.cache_ttl", "1h")

	SteamAPIKey = viper.GetString("steam.apikey")
	IGDBClientID = viper.GetString("igdb.client_id")
	IGDBClientSecret = viper.GetString("igdb.client_secret")
	DatabasePath = viper.GetString("database.path")
}

// SetDatabasePath overrides the database path (used by CLI flags).
func SetDatabasePath(path string) {
	DatabasePath = path
	viper.Set("database.path", path)
}
