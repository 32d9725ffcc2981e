package dbstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/savepoint/gamesync/internal/enrich"
)

// ImportStats counts upsert outcomes for one import run. Every upsert path
// increments exactly one counter.
type ImportStats struct {
	ImportedGamesCreated int
	ImportedGamesUpdated int
	GamesCreated         int
	GamesUpdated         int
	LibraryItemsCreated  int
}

// LibraryItemResult distinguishes a fresh insert from a benign conflict.
type LibraryItemResult int

const (
	// LibraryItemCreated means a new row was inserted.
	LibraryItemCreated LibraryItemResult = iota
	// LibraryItemAlreadyExists means a row for (user, game) was already
	// present; the attempt is skipped, not an error.
	LibraryItemAlreadyExists
)

// ImportCSV reconciles every row of an enriched CSV into the relational
// store. All rows share one transaction: any row failure rolls back the whole
// batch. Malformed CSV rows were already skipped at parse time.
func (s *Store) ImportCSV(ctx context.Context, userID, path string) (ImportStats, error) {
	var stats ImportStats

	if userID == "" {
		return stats, fmt.Errorf("user id is required")
	}

	rows, err := enrich.ReadEnrichedCSV(path)
	if err != nil {
		return stats, fmt.Errorf("failed to read enriched CSV: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		if err := s.importRow(ctx, tx, row, userID, &stats); err != nil {
			return ImportStats{}, fmt.Errorf("failed to import appid %d: %w", row.AppID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("Import complete",
		"user_id", userID,
		"rows", len(rows),
		"imported_games_created", stats.ImportedGamesCreated,
		"imported_games_updated", stats.ImportedGamesUpdated,
		"games_created", stats.GamesCreated,
		"games_updated", stats.GamesUpdated,
		"library_items_created", stats.LibraryItemsCreated)

	return stats, nil
}

// importRow runs the per-row upsert sequence: always reconcile ImportedGame,
// then Game + join rows + LibraryItem only for matched rows that carry an
// IGDB id.
func (s *Store) importRow(ctx context.Context, tx *sql.Tx, row enrich.Row, userID string, stats *ImportStats) error {
	imported := importedGameFromRow(row, userID)

	created, err := s.upsertImportedGame(ctx, tx, imported)
	if err != nil {
		return err
	}
	if created {
		stats.ImportedGamesCreated++
	} else {
		stats.ImportedGamesUpdated++
	}

	if imported.IgdbMatchStatus != MatchMatched {
		return nil
	}
	if row.IGDBID == 0 {
		slog.Warn("Matched row carries no IGDB id, skipping Game import", "appid", row.AppID, "name", row.Name)
		return nil
	}

	genreIDs := parseIDList(row.Genres, "genre", row.AppID)
	platformIDs := parseIDList(row.Platforms, "platform", row.AppID)

	for _, id := range genreIDs {
		if err := s.upsertGenre(ctx, tx, placeholderGenre(id)); err != nil {
			return err
		}
	}
	for _, id := range platformIDs {
		if err := s.upsertPlatform(ctx, tx, placeholderPlatform(id)); err != nil {
			return err
		}
	}

	gameID, gameCreated, err := s.upsertGame(ctx, tx, gameFromRow(row))
	if err != nil {
		return err
	}
	if gameCreated {
		stats.GamesCreated++
	} else {
		stats.GamesUpdated++
	}

	if err := s.replaceJoinRows(ctx, tx, "game_genres", "genre_id", "genres", gameID, genreIDs); err != nil {
		return err
	}
	if err := s.replaceJoinRows(ctx, tx, "game_platforms", "platform_id", "platforms", gameID, platformIDs); err != nil {
		return err
	}

	result, err := s.createLibraryItem(ctx, tx, LibraryItem{
		Status:   libraryStatusForPlaytime(row.PlaytimeForever),
		Platform: DefaultImportPlatform,
		UserID:   userID,
		GameID:   gameID,
	})
	if err != nil {
		return err
	}
	if result == LibraryItemCreated {
		stats.LibraryItemsCreated++
	}

	return nil
}

// upsertImportedGame reconciles the raw storefront record by its business key
// (storefront_game_id, user_id, storefront). Returns true when a new row was
// inserted.
func (s *Store) upsertImportedGame(ctx context.Context, tx *sql.Tx, ig ImportedGame) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM imported_games WHERE storefront_game_id = ? AND user_id = ? AND storefront = ?`,
		ig.StorefrontGameID, ig.UserID, string(ig.Storefront),
	).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO imported_games
				(id, name, storefront, storefront_game_id, playtime, img_icon_url, igdb_match_status, user_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), ig.Name, string(ig.Storefront), ig.StorefrontGameID, ig.Playtime,
			ig.ImgIconURL, string(ig.IgdbMatchStatus), ig.UserID, s.timestamp(), s.timestamp())
		if err != nil {
			return false, fmt.Errorf("failed to insert imported game: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to look up imported game: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE imported_games
		 SET name = ?, playtime = ?, img_icon_url = ?, igdb_match_status = ?, updated_at = ?
		 WHERE id = ?`,
		ig.Name, ig.Playtime, ig.ImgIconURL, string(ig.IgdbMatchStatus), s.timestamp(), id)
	if err != nil {
		return false, fmt.Errorf("failed to update imported game: %w", err)
	}
	return false, nil
}

// upsertGenre ensures a genre row exists for the given IGDB id.
func (s *Store) upsertGenre(ctx context.Context, tx *sql.Tx, g Genre) error {
	return s.upsertStub(ctx, tx, "genres", g.IGDBID, g.Name, g.Slug)
}

// upsertPlatform ensures a platform row exists for the given IGDB id.
func (s *Store) upsertPlatform(ctx context.Context, tx *sql.Tx, p Platform) error {
	return s.upsertStub(ctx, tx, "platforms", p.IGDBID, p.Name, p.Slug)
}

// upsertStub ensures a genre/platform row exists for the given IGDB id. A
// pre-existing row is left untouched so later name backfills survive
// re-imports.
func (s *Store) upsertStub(ctx context.Context, tx *sql.Tx, table string, igdbID int, name, slug string) error {
	var id string
	err := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE igdb_id = ?`, table), igdbID,
	).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, igdb_id, name, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`, table),
			uuid.NewString(), igdbID, name, slug, s.timestamp(), s.timestamp())
		if err != nil {
			return fmt.Errorf("failed to insert %s stub: %w", table, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up %s: %w", table, err)
	}
	return nil
}

// upsertGame reconciles the canonical title: by igdb_id first, falling back
// to steam_app_id, updating in place so the surrogate id survives re-imports.
func (s *Store) upsertGame(ctx context.Context, tx *sql.Tx, game Game) (string, bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM games WHERE igdb_id = ?`, game.IGDBID).Scan(&id)
	if err == sql.ErrNoRows && game.SteamAppID > 0 {
		err = tx.QueryRowContext(ctx, `SELECT id FROM games WHERE steam_app_id = ?`, game.SteamAppID).Scan(&id)
		if err == nil {
			slog.Debug("Found game by steam_app_id fallback", "appid", game.SteamAppID, "igdb_id", game.IGDBID, "game_id", id)
		}
	}

	switch {
	case err == sql.ErrNoRows:
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO games
				(id, igdb_id, title, slug, description, cover_image, release_date, steam_app_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, game.IGDBID, game.Title, game.Slug, game.Description, game.CoverImage, game.ReleaseDate,
			nullableInt(game.SteamAppID), s.timestamp(), s.timestamp())
		if err != nil {
			return "", false, fmt.Errorf("failed to insert game: %w", err)
		}
		return id, true, nil
	case err != nil:
		return "", false, fmt.Errorf("failed to look up game: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE games
		 SET igdb_id = ?, title = ?, slug = ?, description = ?, cover_image = ?, release_date = ?, steam_app_id = ?, updated_at = ?
		 WHERE id = ?`,
		game.IGDBID, game.Title, game.Slug, game.Description, game.CoverImage, game.ReleaseDate,
		nullableInt(game.SteamAppID), s.timestamp(), id)
	if err != nil {
		return "", false, fmt.Errorf("failed to update game: %w", err)
	}
	return id, false, nil
}

// replaceJoinRows wholesale-replaces a game's join rows from the given IGDB
// id list. Idempotent regardless of prior link state.
func (s *Store) replaceJoinRows(ctx context.Context, tx *sql.Tx, joinTable, joinColumn, refTable, gameID string, igdbIDs []int) error {
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE game_id = ?`, joinTable), gameID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", joinTable, err)
	}

	for _, igdbID := range igdbIDs {
		var refID string
		err := tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT id FROM %s WHERE igdb_id = ?`, refTable), igdbID,
		).Scan(&refID)
		if err == sql.ErrNoRows {
			slog.Warn("Referenced metadata row missing, skipping link", "table", refTable, "igdb_id", igdbID, "game_id", gameID)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to look up %s %d: %w", refTable, igdbID, err)
		}

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (game_id, %s) VALUES (?, ?)`, joinTable, joinColumn),
			gameID, refID); err != nil {
			return fmt.Errorf("failed to insert %s row: %w", joinTable, err)
		}
	}
	return nil
}

// createLibraryItem is insert-only: a pre-existing (user, game) row is a
// benign conflict reported as LibraryItemAlreadyExists, never an error.
func (s *Store) createLibraryItem(ctx context.Context, tx *sql.Tx, item LibraryItem) (LibraryItemResult, error) {
	var existing int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM library_items WHERE user_id = ? AND game_id = ?`,
		item.UserID, item.GameID,
	).Scan(&existing)

	switch {
	case err == nil:
		slog.Debug("Library item already exists, skipping", "user_id", item.UserID, "game_id", item.GameID)
		return LibraryItemAlreadyExists, nil
	case err != sql.ErrNoRows:
		return 0, fmt.Errorf("failed to look up library item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO library_items (status, platform, user_id, game_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(item.Status), item.Platform, item.UserID, item.GameID,
		s.timestamp(), s.timestamp())
	if err != nil {
		return 0, fmt.Errorf("failed to insert library item: %w", err)
	}
	return LibraryItemCreated, nil
}

// parseIDList splits a comma-joined id list, keeping integers and discarding
// textual entries with a warning. The enriched CSV carries ids, but older
// exports carried display names; those cannot be upserted without an id.
func parseIDList(list, kind string, appID int) []int {
	if list == "" {
		return nil
	}

	var ids []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			slog.Warn("Discarding non-numeric id", "kind", kind, "value", part, "appid", appID)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// nullableInt maps 0 to NULL for optional integer columns.
func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
