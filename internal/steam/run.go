package steam

import (
	"context"
	"log/slog"

	"github.com/savepoint/gamesync/internal/errors"
)

// Options configures one fetch-stage run.
type Options struct {
	APIKey     string
	SteamID    string
	OutputPath string
	BaseURL    string // overrides the Steam API root, used in tests
}

// Response reports the outcome of a fetch-stage run. Error carries the
// failure message when Success is false.
type Response struct {
	Success    bool
	OutputPath string
	GameCount  int
	Error      string
}

// Run fetches the user's Steam library and writes it to a raw CSV file.
func Run(ctx context.Context, opts Options) Response {
	if opts.APIKey == "" {
		return failure(errors.NewValidationError("Steam API key is required", "apikey"))
	}
	if opts.OutputPath == "" {
		return failure(errors.NewValidationError("output path is required", "output"))
	}

	client := NewClient(opts.APIKey, opts.BaseURL)

	games, err := client.OwnedGames(ctx, opts.SteamID)
	if err != nil {
		slog.Error("Steam library fetch failed", "error", err)
		return failure(err)
	}

	if err := WriteRawCSV(opts.OutputPath, games); err != nil {
		slog.Error("Failed to write raw library CSV", "path", opts.OutputPath, "error", err)
		return failure(err)
	}

	slog.Info("Wrote raw library CSV", "path", opts.OutputPath, "game_count", len(games))

	return Response{
		Success:    true,
		OutputPath: opts.OutputPath,
		GameCount:  len(games),
	}
}

func failure(err error) Response {
	return Response{Error: err.Error()}
}
