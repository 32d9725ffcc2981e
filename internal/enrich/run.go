package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/savepoint/gamesync/internal/errors"
	"github.com/savepoint/gamesync/internal/igdb"
	"github.com/savepoint/gamesync/internal/steam"
)

// Options configures one enrichment-stage run.
type Options struct {
	ClientID     string
	ClientSecret string
	InputPath    string
	OutputPath   string
	Concurrency  int
	CacheTTL     time.Duration

	// Fetcher overrides the IGDB client, used in tests.
	Fetcher Fetcher
}

// Response reports the outcome of an enrichment-stage run.
type Response struct {
	Success    bool
	OutputPath string
	Stats      Stats
	Error      string
}

// Run reads a raw library CSV, enriches every row, and writes the enriched
// CSV. Per-row lookup failures are reflected in row status; stage-level
// failures (bad input, rejected credentials, unwritable output) fail the
// run.
func Run(ctx context.Context, opts Options) Response {
	fetcher := opts.Fetcher
	if fetcher == nil {
		if opts.ClientID == "" || opts.ClientSecret == "" {
			return failure(errors.NewValidationError("IGDB client credentials are required", "igdb"))
		}
		fetcher = igdb.NewClient(igdb.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Concurrency:  opts.Concurrency,
			CacheTTL:     opts.CacheTTL,
		})
	}

	games, err := steam.ReadRawCSV(opts.InputPath)
	if err != nil {
		slog.Error("Failed to read raw library CSV", "path", opts.InputPath, "error", err)
		return failure(err)
	}

	rows, stats, err := NewEnricher(fetcher, opts.Concurrency).Enrich(ctx, games)
	if err != nil {
		slog.Error("Enrichment failed", "error", err)
		return failure(err)
	}

	if err := WriteEnrichedCSV(opts.OutputPath, rows); err != nil {
		slog.Error("Failed to write enriched CSV", "path", opts.OutputPath, "error", err)
		return failure(err)
	}

	return Response{
		Success:    true,
		OutputPath: opts.OutputPath,
		Stats:      stats,
	}
}

func failure(err error) Response {
	return Response{Error: err.Error()}
}
