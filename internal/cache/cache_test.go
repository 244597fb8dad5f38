package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

func testRecords() []domain.EnrichedRecord {
	return []domain.EnrichedRecord{
		{
			AccidentIndex:      "AX1",
			Date:               "2015-06-01",
			Year:               2015,
			Month:              6,
			Weekday:            "Monday",
			Hour:               8,
			NumberOfVehicles:   1,
			NumberOfCasualties: 2,
			SpeedLimit:         30,
			Severity:           domain.SeverityFatal,
			RoadType:           "Single Carriageway",
			RoadConditions:     "Dry",
			WeatherConditions:  "Fine",
			LightConditions:    "Daylight",
			Gender:             "Male",
			AgeGroup:           "26 To 35",
		},
		{
			AccidentIndex:      "AX2",
			Date:               "2016-01-10",
			Year:               2016,
			Month:              1,
			Weekday:            "Sunday",
			Hour:               domain.Missing,
			NumberOfVehicles:   2,
			NumberOfCasualties: 1,
			SpeedLimit:         domain.Missing,
			Severity:           domain.SeveritySlight,
			RoadType:           "Roundabout",
			RoadConditions:     "Wet/Damp",
			WeatherConditions:  "Raining",
			LightConditions:    "Darkness",
			Gender:             "Female",
			AgeGroup:           "36 To 45",
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.parquet")
	want := testRecords()

	require.NoError(t, Write(path, want))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, want, got, "cache round-trip must preserve values and order")
}

func TestWriteIsAtomicReplacement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.parquet")

	require.NoError(t, Write(path, testRecords()))
	require.NoError(t, Write(path, testRecords()[:1]))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadMissingCache(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}

func TestFresh(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Accidents.csv")
	cachePath := filepath.Join(dir, "cache.parquet")

	require.NoError(t, os.WriteFile(input, []byte("a\n"), 0o644))
	require.NoError(t, Write(cachePath, testRecords()))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(input, old, old))
	assert.True(t, Fresh(cachePath, input), "cache newer than inputs is fresh")

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(input, future, future))
	assert.False(t, Fresh(cachePath, input), "input newer than cache makes it stale")

	assert.False(t, Fresh(filepath.Join(dir, "missing.parquet"), input), "missing cache is stale")
	require.NoError(t, os.Chtimes(input, old, old))
	assert.True(t, Fresh(cachePath, input, filepath.Join(dir, "gone.csv")), "missing input does not void the cache")
}

func TestVersionChangesOnRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.parquet")
	require.NoError(t, Write(path, testRecords()))

	v1, err := Version(path)
	require.NoError(t, err)
	require.NotEmpty(t, v1)

	// Force a distinct mtime before rewriting.
	past := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(path, past, past))
	v2, err := Version(path)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
}
