package testutil

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/savepoint/gamesync/internal/config"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	SteamAPIKey      string
	IGDBClientID     string
	IGDBClientSecret string
	DatabasePath     string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		SteamAPIKey:      config.SteamAPIKey,
		IGDBClientID:     config.IGDBClientID,
		IGDBClientSecret: config.IGDBClientSecret,
		DatabasePath:     config.DatabasePath,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.SteamAPIKey = state.SteamAPIKey
	config.IGDBClientID = state.IGDBClientID
	config.IGDBClientSecret = state.IGDBClientSecret
	config.DatabasePath = state.DatabasePath
}

// ResetConfig saves the current config state and schedules restoration when
// the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig installs placeholder credentials for tests, restoring the
// previous state on cleanup.
func SetTestConfig(t *testing.T) {
	t.Helper()

	ResetConfig(t)

	config.SteamAPIKey = "test-steam-key"
	config.IGDBClientID = "test-client-id"
	config.IGDBClientSecret = "test-client-secret"
	config.DatabasePath = "./test.db"
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
	})
}
