package dbstore

import (
	"context"
	"log/slog"

	"github.com/savepoint/gamesync/internal/errors"
)

// Options configures one import-stage run.
type Options struct {
	UserID       string
	InputPath    string
	DatabasePath string
}

// Response reports the outcome of an import-stage run.
type Response struct {
	Success bool
	Stats   ImportStats
	Error   string
}

// Run opens the store, imports the enriched CSV for the given user, and
// closes the store again. Failures roll the whole batch back and are reported
// in the response.
func Run(ctx context.Context, opts Options) Response {
	if opts.UserID == "" {
		return failure(errors.NewValidationError("user id is required", "user"))
	}
	if opts.DatabasePath == "" {
		return failure(errors.NewValidationError("database path is required", "database"))
	}

	store, err := NewStore(opts.DatabasePath)
	if err != nil {
		slog.Error("Failed to open database", "path", opts.DatabasePath, "error", err)
		return failure(err)
	}
	defer func() { _ = store.Close() }()

	stats, err := store.ImportCSV(ctx, opts.UserID, opts.InputPath)
	if err != nil {
		slog.Error("Import failed, transaction rolled back", "path", opts.InputPath, "error", err)
		return failure(err)
	}

	return Response{Success: true, Stats: stats}
}

func failure(err error) Response {
	return Response{Error: err.Error()}
}
