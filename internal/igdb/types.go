package igdb

import (
	"fmt"
	"strings"
	"time"
)

// imageCDNTemplate builds cover URLs from an image_id when the API response
// carries no direct URL. t_cover_big is the size the library UI expects.
const imageCDNTemplate = "https://images.igdb.com/igdb/image/upload/t_cover_big/%s.jpg"

// Ref is an id+name pair as expanded by the IGDB query language
// (genres.name, platforms.name).
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Cover is the cover image reference of a game. Depending on the requested
// fields the API returns either a protocol-relative URL or just an image_id.
type Cover struct {
	ID      int    `json:"id"`
	URL     string `json:"url"`
	ImageID string `json:"image_id"`
}

// ReleaseDate is one entry of a game's release_dates list, used as an
// alternate release-date source when first_release_date is absent.
type ReleaseDate struct {
	Human    string `json:"human"`
	Platform Ref    `json:"platform"`
}

// Game is the canonical enrichment payload built from an IGDB response.
// Immutable once decoded.
type Game struct {
	ID               int           `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Summary          string        `json:"summary"`
	FirstReleaseDate int64         `json:"first_release_date"`
	Cover            *Cover        `json:"cover"`
	Genres           []Ref         `json:"genres"`
	Platforms        []Ref         `json:"platforms"`
	ReleaseDates     []ReleaseDate `json:"release_dates"`
}

// CoverURL returns a usable https cover URL, or "" when the game has no
// cover. Protocol-relative URLs from the API are fixed up; responses that
// only carry an image_id are resolved against the IGDB image CDN.
func (g *Game) CoverURL() string {
	if g.Cover == nil {
		return ""
	}
	if g.Cover.URL != "" {
		if strings.HasPrefix(g.Cover.URL, "//") {
			return "https:" + g.Cover.URL
		}
		return g.Cover.URL
	}
	if g.Cover.ImageID != "" {
		return fmt.Sprintf(imageCDNTemplate, g.Cover.ImageID)
	}
	return ""
}

// ReleaseDate returns the first release date as YYYY-MM-DD, or "" when
// unknown. Falls back to the human-readable release_dates entries when the
// unix timestamp is absent.
func (g *Game) ReleaseDate() string {
	if g.FirstReleaseDate > 0 {
		return time.Unix(g.FirstReleaseDate, 0).UTC().Format("2006-01-02")
	}
	for _, rd := range g.ReleaseDates {
		if rd.Human == "" {
			continue
		}
		// IGDB human dates look like "Jul 09, 2013"
		if parsed, err := time.Parse("Jan 02, 2006", rd.Human); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}

// GenreIDs returns the IGDB genre ids of the game.
func (g *Game) GenreIDs() []int {
	return refIDs(g.Genres)
}

// PlatformIDs returns the IGDB platform ids of the game.
func (g *Game) PlatformIDs() []int {
	return refIDs(g.Platforms)
}

func refIDs(refs []Ref) []int {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}
