package dbstore

import (
	"context"
	"fmt"
)

// ImportedGameByKey loads the raw storefront record by its business key.
func (s *Store) ImportedGameByKey(ctx context.Context, storefront Storefront, storefrontGameID, userID string) (*ImportedGame, error) {
	var ig ImportedGame
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, storefront, storefront_game_id, playtime, img_icon_url, igdb_match_status, user_id
		 FROM imported_games
		 WHERE storefront_game_id = ? AND user_id = ? AND storefront = ?`,
		storefrontGameID, userID, string(storefront),
	).Scan(&ig.ID, &ig.Name, &ig.Storefront, &ig.StorefrontGameID, &ig.Playtime,
		&ig.ImgIconURL, &ig.IgdbMatchStatus, &ig.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load imported game %s: %w", storefrontGameID, err)
	}
	return &ig, nil
}

// GameBySteamAppID loads the canonical title matched to a Steam app.
func (s *Store) GameBySteamAppID(ctx context.Context, appID int) (*Game, error) {
	var g Game
	err := s.db.QueryRowContext(ctx,
		`SELECT id, igdb_id, title, slug, description, cover_image, release_date, COALESCE(steam_app_id, 0)
		 FROM games WHERE steam_app_id = ?`, appID,
	).Scan(&g.ID, &g.IGDBID, &g.Title, &g.Slug, &g.Description, &g.CoverImage, &g.ReleaseDate, &g.SteamAppID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game for appid %d: %w", appID, err)
	}
	return &g, nil
}

// LibraryItemFor loads the library entry for one (user, game) pair.
func (s *Store) LibraryItemFor(ctx context.Context, userID, gameID string) (*LibraryItem, error) {
	var item LibraryItem
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, platform, user_id, game_id
		 FROM library_items WHERE user_id = ? AND game_id = ?`,
		userID, gameID,
	).Scan(&item.ID, &item.Status, &item.Platform, &item.UserID, &item.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load library item for user %s: %w", userID, err)
	}
	return &item, nil
}
