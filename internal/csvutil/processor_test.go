package csvutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	ID   int
	Name string
}

func parseTestRow(record []string) (testRow, error) {
	id, err := strconv.Atoi(record[0])
	if err != nil {
		return testRow{}, fmt.Errorf("bad id %q: %w", record[0], err)
	}
	return testRow{ID: id, Name: record[1]}, nil
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessCSV(t *testing.T) {
	path := writeTempCSV(t, "id,name\n570,Dota 2\n440,Team Fortress 2\n")

	rows, err := ProcessCSV(path, parseTestRow, ProcessorOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, testRow{ID: 570, Name: "Dota 2"}, rows[0])
	assert.Equal(t, testRow{ID: 440, Name: "Team Fortress 2"}, rows[1])
}

func TestProcessCSV_SkipInvalid(t *testing.T) {
	path := writeTempCSV(t, "id,name\n570,Dota 2\nnot-a-number,Broken\n440,Team Fortress 2\n")

	rows, err := ProcessCSV(path, parseTestRow, ProcessorOptions{SkipInvalid: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 570, rows[0].ID)
	assert.Equal(t, 440, rows[1].ID)
}

func TestProcessCSV_InvalidFatalWithoutSkip(t *testing.T) {
	path := writeTempCSV(t, "id,name\nnot-a-number,Broken\n")

	_, err := ProcessCSV(path, parseTestRow, ProcessorOptions{})
	assert.Error(t, err)
}

func TestProcessCSV_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")

	_, err := ProcessCSV(path, parseTestRow, ProcessorOptions{})
	assert.Error(t, err)
}

func TestProcessCSV_MissingFile(t *testing.T) {
	_, err := ProcessCSV(filepath.Join(t.TempDir(), "nope.csv"), parseTestRow, ProcessorOptions{})
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []testRow{{ID: 570, Name: "Dota 2"}, {ID: 1091500, Name: "Cyberpunk 2077"}}

	err := WriteCSV(path, []string{"id", "name"}, rows, func(r testRow) []string {
		return []string{strconv.Itoa(r.ID), r.Name}
	})
	require.NoError(t, err)

	parsed, err := ProcessCSV(path, parseTestRow, ProcessorOptions{})
	require.NoError(t, err)
	assert.Equal(t, rows, parsed)
}

func TestWriteCSV_QuotesCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []testRow{{ID: 1, Name: "Hello, World"}}

	err := WriteCSV(path, []string{"id", "name"}, rows, func(r testRow) []string {
		return []string{strconv.Itoa(r.ID), r.Name}
	})
	require.NoError(t, err)

	parsed, err := ProcessCSV(path, parseTestRow, ProcessorOptions{})
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "Hello, World", parsed[0].Name)
}
