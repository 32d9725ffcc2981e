package enrich

import (
	"fmt"
	"strconv"

	"github.com/savepoint/gamesync/internal/csvutil"
	"github.com/savepoint/gamesync/internal/steam"
)

// EnrichedCSVHeader is the column set of the enriched CSV consumed by the
// import stage.
var EnrichedCSVHeader = []string{
	"appid", "name", "playtime_forever", "img_icon_url", "rtime_last_played",
	"igdb_id", "igdb_slug", "igdb_name", "summary", "release_date",
	"cover_url", "genres", "platforms", "classification", "match_status",
}

// WriteEnrichedCSV writes enriched rows to path.
func WriteEnrichedCSV(path string, rows []Row) error {
	return csvutil.WriteCSV(path, EnrichedCSVHeader, rows, func(r Row) []string {
		igdbID := ""
		if r.IGDBID > 0 {
			igdbID = strconv.Itoa(r.IGDBID)
		}
		lastPlayed := ""
		if r.RTimeLastPlayed > 0 {
			lastPlayed = strconv.FormatInt(r.RTimeLastPlayed, 10)
		}
		return []string{
			strconv.Itoa(r.AppID),
			r.Name,
			strconv.Itoa(r.PlaytimeForever),
			r.ImgIconURL,
			lastPlayed,
			igdbID,
			r.IGDBSlug,
			r.IGDBName,
			r.Summary,
			r.ReleaseDate,
			r.CoverURL,
			r.Genres,
			r.Platforms,
			r.Classification,
			string(r.MatchStatus),
		}
	})
}

// ReadEnrichedCSV parses an enriched CSV. Malformed rows are skipped with a
// logged warning. An empty match_status is preserved as-is; the import stage
// maps it to a pending state.
func ReadEnrichedCSV(path string) ([]Row, error) {
	return csvutil.ProcessCSV(path, parseEnrichedRecord, csvutil.ProcessorOptions{SkipInvalid: true})
}

func parseEnrichedRecord(record []string) (Row, error) {
	if len(record) < len(EnrichedCSVHeader) {
		return Row{}, fmt.Errorf("expected %d columns, got %d", len(EnrichedCSVHeader), len(record))
	}

	appID, err := strconv.Atoi(record[0])
	if err != nil {
		return Row{}, fmt.Errorf("invalid appid %q: %w", record[0], err)
	}

	playtime := 0
	if record[2] != "" {
		playtime, err = strconv.Atoi(record[2])
		if err != nil {
			return Row{}, fmt.Errorf("invalid playtime_forever %q: %w", record[2], err)
		}
	}

	var lastPlayed int64
	if record[4] != "" {
		lastPlayed, err = strconv.ParseInt(record[4], 10, 64)
		if err != nil {
			return Row{}, fmt.Errorf("invalid rtime_last_played %q: %w", record[4], err)
		}
	}

	igdbID := 0
	if record[5] != "" {
		igdbID, err = strconv.Atoi(record[5])
		if err != nil {
			return Row{}, fmt.Errorf("invalid igdb_id %q: %w", record[5], err)
		}
	}

	return Row{
		Game: steam.Game{
			AppID:           appID,
			Name:            record[1],
			PlaytimeForever: playtime,
			ImgIconURL:      record[3],
			RTimeLastPlayed: lastPlayed,
		},
		IGDBID:         igdbID,
		IGDBSlug:       record[6],
		IGDBName:       record[7],
		Summary:        record[8],
		ReleaseDate:    record[9],
		CoverURL:       record[10],
		Genres:         record[11],
		Platforms:      record[12],
		Classification: record[13],
		MatchStatus:    MatchStatus(record[14]),
	}, nil
}
