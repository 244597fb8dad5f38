package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

func testEnriched() []domain.EnrichedRecord {
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
			Year:               domain.Missing,
			Month:              domain.Missing,
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

func TestWriteEnriched(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(nil, dir)

	require.NoError(t, writer.WriteEnriched("bicycle_accidents.csv", testEnriched()))

	data, err := os.ReadFile(filepath.Join(dir, "bicycle_accidents.csv"))
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "export carries a UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(enrichedHeader, ","), lines[0])
	assert.Equal(t, "AX1,2015-06-01,2015,6,Monday,8,1,2,30,Fatal,Single Carriageway,Dry,Fine,Daylight,Male,26 To 35", lines[1])
	assert.Equal(t, "AX2,,,,,,2,1,,Slight,Roundabout,Wet/Damp,Raining,Darkness,Female,36 To 45", lines[2], "sentinels export as empty cells")
}

func TestWriteCategoryCounts(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(nil, dir)

	counts := []domain.CategoryCount{
		{Category: "Slight", Count: 80, Percentage: 80},
		{Category: "Serious", Count: 15, Percentage: 15},
		{Category: "Fatal", Count: 5, Percentage: 5},
	}
	require.NoError(t, writer.WriteCategoryCounts("severity.csv", counts))

	data, err := os.ReadFile(filepath.Join(dir, "severity.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "category,count,percentage", lines[0])
	assert.Equal(t, "Slight,80,80.00", lines[1])
	assert.Equal(t, "Fatal,5,5.00", lines[3])
}

func TestWriteTimeseries(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(nil, dir)

	points := []domain.TimeseriesPoint{
		{Bucket: "2015", Count: 3},
		{Bucket: "2016", Count: 5},
	}
	require.NoError(t, writer.WriteTimeseries("yearly.csv", points))

	data, err := os.ReadFile(filepath.Join(dir, "yearly.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")), "\n")
	assert.Equal(t, []string{"bucket,count", "2015,3", "2016,5"}, lines)
}

func TestWriteCSVCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(nil, dir)

	err := writer.WriteCSV(filepath.Join("nested", "out.csv"), WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "nested", "out.csv"))
	assert.NoError(t, statErr)
}
