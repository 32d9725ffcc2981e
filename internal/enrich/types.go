package enrich

import (
	"strconv"
	"strings"

	"github.com/savepoint/gamesync/internal/igdb"
	"github.com/savepoint/gamesync/internal/steam"
)

// MatchStatus records how a library entry fared against the metadata API.
type MatchStatus string

const (
	// StatusMatched means a canonical metadata record was found.
	StatusMatched MatchStatus = "matched"
	// StatusUnmatched means the lookup succeeded but found nothing.
	StatusUnmatched MatchStatus = "unmatched"
	// StatusFiltered means the classifier excluded the entry before lookup.
	StatusFiltered MatchStatus = "filtered"
	// StatusError means the lookup failed for this entry; counted as unmatched.
	StatusError MatchStatus = "error"
)

// Row is one library entry plus its enrichment fields. Enrichment fields are
// empty unless MatchStatus is matched.
type Row struct {
	steam.Game

	IGDBID         int // 0 means no match
	IGDBSlug       string
	IGDBName       string
	Summary        string
	ReleaseDate    string // YYYY-MM-DD or empty
	CoverURL       string
	Genres         string // comma-joined IGDB genre ids
	Platforms      string // comma-joined IGDB platform ids
	Classification string
	MatchStatus    MatchStatus
}

// populate fills the enrichment fields from a metadata record.
func (r *Row) populate(g *igdb.Game) {
	r.IGDBID = g.ID
	r.IGDBSlug = g.Slug
	r.IGDBName = g.Name
	r.Summary = g.Summary
	r.ReleaseDate = g.ReleaseDate()
	r.CoverURL = g.CoverURL()
	r.Genres = joinIDs(g.GenreIDs())
	r.Platforms = joinIDs(g.PlatformIDs())
}

// Stats counts row outcomes for one enrichment run. Errored rows count as
// unmatched.
type Stats struct {
	Processed int
	Matched   int
	Unmatched int
	Filtered  int
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
