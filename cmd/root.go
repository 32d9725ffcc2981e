package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/savepoint/gamesync/internal/config"
	"github.com/savepoint/gamesync/internal/dbstore"
	"github.com/savepoint/gamesync/internal/enrich"
	"github.com/savepoint/gamesync/internal/steam"
)

// Stage entry points are vars so tests can stub them.
var (
	runFetch  = steam.Run
	runEnrich = enrich.Run
	runImport = dbstore.Run
)

// CLI represents the complete command structure for the gamesync application
type CLI struct {
	Database string `help:"Path to SQLite database file"`

	Fetch  FetchCmd  `cmd:"" help:"Fetch a user's Steam library to a raw CSV"`
	Enrich EnrichCmd `cmd:"" help:"Enrich a raw library CSV with IGDB metadata"`
	Import ImportCmd `cmd:"" help:"Import an enriched CSV into the database"`
}

// FetchCmd fetches the Steam library (stage 1).
type FetchCmd struct {
	SteamID string `help:"64-bit Steam ID to fetch the library for"`
	APIKey  string `help:"Steam Web API key"`
	Output  string `short:"o" help:"Path to the raw CSV output file" default:"./steam_library.csv"`
}

// EnrichCmd enriches a raw library CSV with IGDB metadata (stage 2).
type EnrichCmd struct {
	Input        string `short:"f" help:"Path to the raw library CSV" default:"./steam_library.csv"`
	Output       string `short:"o" help:"Path to the enriched CSV output file" default:"./enriched_library.csv"`
	ClientID     string `help:"IGDB/Twitch application client ID"`
	ClientSecret string `help:"IGDB/Twitch application client secret"`
	Concurrency  int    `help:"Maximum concurrent IGDB lookups"`
	CacheTTL     string `help:"Match cache time-to-live (e.g. 1h)"`
}

// ImportCmd imports an enriched CSV into the relational store (stage 3).
type ImportCmd struct {
	Input string `short:"f" help:"Path to the enriched CSV" default:"./enriched_library.csv"`
	User  string `short:"u" help:"User ID to import the library for"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("gamesync"),
		kong.Description("Imports a Steam library, enriches it with IGDB metadata, and persists it."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	viper.AutomaticEnv()
	for key, env := range map[string]string{
		"steam.apikey":       "STEAM_API_KEY",
		"igdb.client_id":     "IGDB_CLIENT_ID",
		"igdb.client_secret": "IGDB_CLIENT_SECRET",
		"database.path":      "DATABASE_PATH",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.Database != "" {
		config.SetDatabasePath(cli.Database)
	}
}

// Run methods for each command

func (f *FetchCmd) Run() error {
	// Read from config if value not provided via flag
	apiKey := f.APIKey
	if apiKey == "" {
		apiKey = config.SteamAPIKey
	}
	steamID := f.SteamID
	if steamID == "" {
		steamID = viper.GetString("steam.steamid")
	}

	if apiKey == "" {
		return fmt.Errorf("Steam API key is required (provide via --api-key flag, steam.apikey in config, or STEAM_API_KEY)")
	}
	if steamID == "" {
		return fmt.Errorf("Steam ID is required (provide via --steam-id flag or steam.steamid in config)")
	}

	resp := runFetch(context.Background(), steam.Options{
		APIKey:     apiKey,
		SteamID:    steamID,
		OutputPath: f.Output,
	})
	if !resp.Success {
		return fmt.Errorf("fetch failed: %s", resp.Error)
	}

	slog.Info("Fetch complete", "output", resp.OutputPath, "games", resp.GameCount)
	return nil
}

func (e *EnrichCmd) Run() error {
	clientID := e.ClientID
	if clientID == "" {
		clientID = config.IGDBClientID
	}
	clientSecret := e.ClientSecret
	if clientSecret == "" {
		clientSecret = config.IGDBClientSecret
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("IGDB credentials are required (provide via flags, igdb.* in config, or IGDB_CLIENT_ID/IGDB_CLIENT_SECRET)")
	}

	concurrency := e.Concurrency
	if concurrency == 0 {
		concurrency = viper.GetInt("enrich.concurrency")
	}

	ttl := e.CacheTTL
	if ttl == "" {
		ttl = viper.GetString("enrich.cache_ttl")
	}
	var cacheTTL time.Duration
	if ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid cache TTL %q: %w", ttl, err)
		}
		cacheTTL = parsed
	}

	resp := runEnrich(context.Background(), enrich.Options{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		InputPath:    e.Input,
		OutputPath:   e.Output,
		Concurrency:  concurrency,
		CacheTTL:     cacheTTL,
	})
	if !resp.Success {
		return fmt.Errorf("enrichment failed: %s", resp.Error)
	}

	slog.Info("Enrichment complete",
		"output", resp.OutputPath,
		"processed", resp.Stats.Processed,
		"matched", resp.Stats.Matched,
		"unmatched", resp.Stats.Unmatched,
		"filtered", resp.Stats.Filtered)
	return nil
}

func (i *ImportCmd) Run() error {
	user := i.User
	if user == "" {
		user = viper.GetString("import.user")
	}
	if user == "" {
		return fmt.Errorf("user ID is required (provide via --user flag or import.user in config)")
	}

	resp := runImport(context.Background(), dbstore.Options{
		UserID:       user,
		InputPath:    i.Input,
		DatabasePath: config.DatabasePath,
	})
	if !resp.Success {
		return fmt.Errorf("import failed: %s", resp.Error)
	}

	slog.Info("Import complete",
		"imported_games_created", resp.Stats.ImportedGamesCreated,
		"imported_games_updated", resp.Stats.ImportedGamesUpdated,
		"games_created", resp.Stats.GamesCreated,
		"games_updated", resp.Stats.GamesUpdated,
		"library_items_created", resp.Stats.LibraryItemsCreated)
	return nil
}
