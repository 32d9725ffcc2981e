package steam

import (
	"fmt"
	"strconv"

	"github.com/savepoint/gamesync/internal/csvutil"
)

// RawCSVHeader is the column set of the raw library CSV handed to the
// enrichment stage. Empty string means absent for the optional columns.
var RawCSVHeader = []string{"appid", "name", "playtime_forever", "img_icon_url", "rtime_last_played"}

// WriteRawCSV writes the fetched library to a raw CSV file.
func WriteRawCSV(path string, games []Game) error {
	return csvutil.WriteCSV(path, RawCSVHeader, games, func(g Game) []string {
		lastPlayed := ""
		if g.RTimeLastPlayed > 0 {
			lastPlayed = strconv.FormatInt(g.RTimeLastPlayed, 10)
		}
		return []string{
			strconv.Itoa(g.AppID),
			g.Name,
			strconv.Itoa(g.PlaytimeForever),
			g.ImgIconURL,
			lastPlayed,
		}
	})
}

// ReadRawCSV parses a raw library CSV back into games. Malformed rows are
// skipped with a logged warning rather than failing the batch.
func ReadRawCSV(path string) ([]Game, error) {
	return csvutil.ProcessCSV(path, parseRawRecord, csvutil.ProcessorOptions{SkipInvalid: true})
}

func parseRawRecord(record []string) (Game, error) {
	if len(record) < len(RawCSVHeader) {
		return Game{}, fmt.Errorf("expected %d columns, got %d", len(RawCSVHeader), len(record))
	}

	appID, err := strconv.Atoi(record[0])
	if err != nil {
		return Game{}, fmt.Errorf("invalid appid %q: %w", record[0], err)
	}

	playtime := 0
	if record[2] != "" {
		playtime, err = strconv.Atoi(record[2])
		if err != nil {
			return Game{}, fmt.Errorf("invalid playtime_forever %q: %w", record[2], err)
		}
	}
	if playtime < 0 {
		return Game{}, fmt.Errorf("negative playtime_forever %d", playtime)
	}

	var lastPlayed int64
	if record[4] != "" {
		lastPlayed, err = strconv.ParseInt(record[4], 10, 64)
		if err != nil {
			return Game{}, fmt.Errorf("invalid rtime_last_played %q: %w", record[4], err)
		}
	}

	return Game{
		AppID:           appID,
		Name:            record[1],
		PlaytimeForever: playtime,
		ImgIconURL:      record[3],
		RTimeLastPlayed: lastPlayed,
	}, nil
}
