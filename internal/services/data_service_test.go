package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammad-o98/Bike-Accidents-GB/internal/cache"
	"github.com/muhammad-o98/Bike-Accidents-GB/internal/config"
	apperrors "github.com/muhammad-o98/Bike-Accidents-GB/internal/errors"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

func serviceRecords() []domain.EnrichedRecord {
	base := domain.EnrichedRecord{
		Date:               "2015-06-01",
		Year:               2015,
		Month:              6,
		Weekday:            "Monday",
		Hour:               8,
		NumberOfVehicles:   1,
		NumberOfCasualties: 1,
		SpeedLimit:         30,
		Severity:           domain.SeveritySlight,
		RoadType:           "Single Carriageway",
		RoadConditions:     "Dry",
		WeatherConditions:  "Fine",
		LightConditions:    "Daylight",
		Gender:             "Male",
		AgeGroup:           "26 To 35",
	}
	a := base
	a.AccidentIndex = "A1"
	b := base
	b.AccidentIndex = "A2"
	b.Year = 2016
	b.Severity = domain.SeverityFatal
	b.NumberOfCasualties = 2
	return []domain.EnrichedRecord{a, b}
}

func newTestService(t *testing.T) (*DataService, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Paths.CacheFile = filepath.Join(dir, "cache.parquet")
	cfg.Paths.QualityFile = filepath.Join(dir, "quality_report.json")

	require.NoError(t, cache.Write(cfg.Paths.CacheFile, serviceRecords()))

	svc := NewDataService(&cfg, nil)
	t.Cleanup(svc.Close)
	return svc, &cfg
}

func TestDataServiceRequiresLoadedDataset(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Summary(context.Background(), domain.Filter{})
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
	assert.False(t, svc.Loaded())
}

func TestDataServiceSummary(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))
	assert.Equal(t, 2, svc.RowCount())

	summary, err := svc.Summary(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalAccidents)
	assert.Equal(t, int64(3), summary.TotalCasualties)
	assert.Equal(t, 1, summary.FatalAccidents)
}

func TestDataServiceSummaryFiltered(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))

	summary, err := svc.Summary(context.Background(), domain.Filter{YearMin: 2016})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalAccidents)
	assert.Equal(t, 1, summary.FatalAccidents)
}

func TestDataServiceMemoization(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))

	filter := domain.Filter{Severities: []string{"Fatal"}}
	first, err := svc.Summary(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.Summary(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A different filter resolves to a different memo entry.
	other, err := svc.Summary(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.NotEqual(t, first.TotalAccidents, other.TotalAccidents)
}

func TestDataServiceTimeseries(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))

	points, err := svc.Timeseries(context.Background(), domain.Filter{}, "year")
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeseriesPoint{
		{Bucket: "2015", Count: 1},
		{Bucket: "2016", Count: 1},
	}, points)

	_, err = svc.Timeseries(context.Background(), domain.Filter{}, "decade")
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestDataServiceGroupCounts(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))

	counts, err := svc.GroupCounts(context.Background(), domain.Filter{}, domain.ColumnSeverity)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Slight", counts[0].Category)

	_, err = svc.GroupCounts(context.Background(), domain.Filter{}, "nope")
	assert.Error(t, err)
}

func TestDataServiceSeverityBreakdown(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))

	rows, err := svc.SeverityBreakdown(context.Background(), domain.Filter{}, domain.ColumnGender)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Male", rows[0].Category)
	assert.Equal(t, 2, rows[0].Total)

	_, err = svc.SeverityBreakdown(context.Background(), domain.Filter{}, domain.ColumnSeverity)
	assert.Error(t, err)
}

func TestDataServiceFilterOptions(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2015, opts.YearMin)
	assert.Equal(t, 2016, opts.YearMax)
	assert.Equal(t, []string{"Male"}, opts.Genders)
}

func TestDataServiceRefresh(t *testing.T) {
	svc, cfg := newTestService(t)
	require.NoError(t, svc.LoadDataset(context.Background()))
	require.Equal(t, 2, svc.RowCount())

	// Unchanged cache: refresh is a no-op.
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 2, svc.RowCount())

	// Rewritten cache: refresh picks up the new rows.
	require.NoError(t, cache.Write(cfg.Paths.CacheFile, serviceRecords()[:1]))
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 1, svc.RowCount())
}

func TestDataServiceQualityReportMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.QualityReport(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
}
