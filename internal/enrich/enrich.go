package enrich

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/savepoint/gamesync/internal/classify"
	"github.com/savepoint/gamesync/internal/errors"
	"github.com/savepoint/gamesync/internal/igdb"
	"github.com/savepoint/gamesync/internal/steam"
)

// DefaultConcurrency bounds simultaneous metadata lookups.
const DefaultConcurrency = 4

// Fetcher resolves a Steam app ID to a canonical metadata record.
// A (nil, nil) return means the lookup succeeded but found no match.
type Fetcher interface {
	GameBySteamAppID(ctx context.Context, appID int) (*igdb.Game, error)
}

// Enricher classifies library entries and fills in metadata for the ones
// worth enriching.
type Enricher struct {
	fetcher     Fetcher
	concurrency int
}

// NewEnricher creates an Enricher running at most concurrency lookups at once.
func NewEnricher(fetcher Fetcher, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Enricher{fetcher: fetcher, concurrency: concurrency}
}

// Enrich processes games in input order and returns one row per input entry.
// Entries the classifier filters out never reach the fetcher. A failed lookup
// marks that row as errored and counts it as unmatched; it does not abort the
// batch. The one exception is an authentication failure: bad credentials
// would fail every remaining row the same way, so the first AuthError cancels
// the outstanding lookups and fails the stage. Lookups run concurrently but
// results land in an index-correlated slice, so output order and stats are
// deterministic.
func (e *Enricher) Enrich(ctx context.Context, games []steam.Game) ([]Row, Stats, error) {
	rows := make([]Row, len(games))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, game := range games {
		rows[i].Game = game

		result := classify.Classify(game.Name)
		rows[i].Classification = string(result.Category)

		if !result.ShouldEnrich {
			rows[i].MatchStatus = StatusFiltered
			slog.Debug("Filtered library entry",
				"appid", game.AppID, "name", game.Name, "pattern", result.MatchedPattern)
			continue
		}

		g.Go(func() error {
			match, err := e.fetcher.GameBySteamAppID(gctx, game.AppID)
			switch {
			case errors.IsAuthError(err):
				rows[i].MatchStatus = StatusError
				return err
			case err != nil:
				slog.Warn("Metadata lookup failed",
					"appid", game.AppID, "name", game.Name, "error", err)
				rows[i].MatchStatus = StatusError
			case match == nil:
				rows[i].MatchStatus = StatusUnmatched
			default:
				rows[i].populate(match)
				rows[i].MatchStatus = StatusMatched
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Enrichment aborted", "error", err)
		return nil, Stats{}, err
	}

	var stats Stats
	stats.Processed = len(rows)
	for _, row := range rows {
		switch row.MatchStatus {
		case StatusMatched:
			stats.Matched++
		case StatusFiltered:
			stats.Filtered++
		default:
			stats.Unmatched++
		}
	}

	slog.Info("Enrichment complete",
		"processed", stats.Processed,
		"matched", stats.Matched,
		"unmatched", stats.Unmatched,
		"filtered", stats.Filtered)

	return rows, stats, nil
}
