package dbstore

import (
	"fmt"
	"strconv"

	"github.com/savepoint/gamesync/internal/enrich"
)

// Storefront identifies the platform a library entry was imported from.
type Storefront string

// StorefrontSteam is the only storefront the import pipeline handles today.
const StorefrontSteam Storefront = "STEAM"

// DefaultImportPlatform is the platform label attached to storefront-imported
// library items.
const DefaultImportPlatform = "PC (Steam)"

// IgdbMatchStatus records how an imported game fared against IGDB matching.
type IgdbMatchStatus string

const (
	MatchPending   IgdbMatchStatus = "PENDING"
	MatchMatched   IgdbMatchStatus = "MATCHED"
	MatchUnmatched IgdbMatchStatus = "UNMATCHED"
	MatchIgnored   IgdbMatchStatus = "IGNORED"
)

// MatchStatusFromRow maps an enriched-row match status onto the persistent
// enum. Classifier-filtered rows are recorded as IGNORED, errored lookups as
// UNMATCHED, and rows that never went through enrichment as PENDING.
func MatchStatusFromRow(status enrich.MatchStatus) IgdbMatchStatus {
	switch status {
	case enrich.StatusMatched:
		return MatchMatched
	case enrich.StatusUnmatched, enrich.StatusError:
		return MatchUnmatched
	case enrich.StatusFiltered:
		return MatchIgnored
	default:
		return MatchPending
	}
}

// LibraryItemStatus is the user-facing state of a library entry. Imports only
// ever assign the two playtime-derived states.
type LibraryItemStatus string

const (
	StatusCuriousAbout LibraryItemStatus = "CURIOUS_ABOUT"
	StatusExperienced  LibraryItemStatus = "EXPERIENCED"
)

// libraryStatusForPlaytime derives the initial library status from total
// playtime minutes.
func libraryStatusForPlaytime(playtime int) LibraryItemStatus {
	if playtime == 0 {
		return StatusCuriousAbout
	}
	return StatusExperienced
}

// ImportedGame is the raw per-user storefront record, unique on
// (storefront_game_id, user_id, storefront).
type ImportedGame struct {
	ID               string
	Name             string
	Storefront       Storefront
	StorefrontGameID string
	Playtime         int
	ImgIconURL       string
	IgdbMatchStatus  IgdbMatchStatus
	UserID           string
}

// importedGameFromRow builds the storefront record an enriched row reconciles
// against.
func importedGameFromRow(row enrich.Row, userID string) ImportedGame {
	return ImportedGame{
		Name:             row.Name,
		Storefront:       StorefrontSteam,
		StorefrontGameID: strconv.Itoa(row.AppID),
		Playtime:         row.PlaytimeForever,
		ImgIconURL:       row.ImgIconURL,
		IgdbMatchStatus:  MatchStatusFromRow(row.MatchStatus),
		UserID:           userID,
	}
}

// Game is the canonical title, unique on igdb_id. SteamAppID is a secondary
// matching key; 0 means absent.
type Game struct {
	ID          string
	IGDBID      int
	Title       string
	Slug        string
	Description string
	CoverImage  string
	ReleaseDate string
	SteamAppID  int
}

// gameFromRow builds the canonical title a matched enriched row upserts,
// falling back to Steam-derived title and slug when IGDB left them empty.
func gameFromRow(row enrich.Row) Game {
	title := row.IGDBName
	if title == "" {
		title = row.Name
	}
	slug := row.IGDBSlug
	if slug == "" {
		slug = fmt.Sprintf("game-%d", row.IGDBID)
	}
	return Game{
		IGDBID:      row.IGDBID,
		Title:       title,
		Slug:        slug,
		Description: row.Summary,
		CoverImage:  row.CoverURL,
		ReleaseDate: row.ReleaseDate,
		SteamAppID:  row.AppID,
	}
}

// Genre is a canonical metadata row unique on igdb_id. Created with
// placeholder names when only ids are known.
type Genre struct {
	ID     string
	IGDBID int
	Name   string
	Slug   string
}

// placeholderGenre builds the stub row created when an import only knows the
// IGDB id. Names are backfilled out of band.
func placeholderGenre(igdbID int) Genre {
	return Genre{
		IGDBID: igdbID,
		Name:   fmt.Sprintf("Genre %d", igdbID),
		Slug:   fmt.Sprintf("genre-%d", igdbID),
	}
}

// Platform is a canonical metadata row unique on igdb_id.
type Platform struct {
	ID     string
	IGDBID int
	Name   string
	Slug   string
}

// placeholderPlatform builds the stub row created when an import only knows
// the IGDB id.
func placeholderPlatform(igdbID int) Platform {
	return Platform{
		IGDBID: igdbID,
		Name:   fmt.Sprintf("Platform %d", igdbID),
		Slug:   fmt.Sprintf("platform-%d", igdbID),
	}
}

// LibraryItem is one row per (user_id, game_id). Creation is insert-only.
type LibraryItem struct {
	ID       int64
	Status   LibraryItemStatus
	Platform string
	UserID   string
	GameID   string
}
