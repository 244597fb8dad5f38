package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// enrichedHeader is the column order of the flat CSV export. It mirrors
// the cache schema so the export round-trips into spreadsheet tools
// without remapping.
var enrichedHeader = []string{
	"accident_index",
	"date",
	"year",
	"month",
	"weekday",
	"hour",
	"number_of_vehicles",
	"number_of_casualties",
	"speed_limit",
	"severity",
	"road_type",
	"road_conditions",
	"weather_conditions",
	"light_conditions",
	"gender",
	"age_group",
}

// CSVWriter exports tables into the configured exports directory.
type CSVWriter struct {
	logger *slog.Logger
	dir    string
}

// NewCSVWriter creates a CSV writer targeting dir.
func NewCSVWriter(logger *slog.Logger, dir string) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		logger: logger.With(slog.String("component", "csv_exporter")),
		dir:    dir,
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(name string, options WriteOptions) error {
	path := w.resolvePath(name)

	w.logger.Info("writing CSV export",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8.
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteEnriched streams the full enriched table into a flat CSV file.
func (w *CSVWriter) WriteEnriched(name string, records []domain.EnrichedRecord) error {
	stream, err := w.CreateStreamWriter(name, enrichedHeader)
	if err != nil {
		return err
	}

	for i := range records {
		if err := stream.WriteRecord(enrichedRow(&records[i])); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return stream.Close()
}

// WriteCategoryCounts exports a group-count aggregation.
func (w *CSVWriter) WriteCategoryCounts(name string, counts []domain.CategoryCount) error {
	records := make([][]string, 0, len(counts))
	for _, c := range counts {
		records = append(records, []string{c.Category, formatInt(int64(c.Count)), formatFloat(c.Percentage)})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{"category", "count", "percentage"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteTimeseries exports a time series aggregation.
func (w *CSVWriter) WriteTimeseries(name string, points []domain.TimeseriesPoint) error {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{p.Bucket, formatInt(int64(p.Count))})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{"bucket", "count"},
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter provides streaming CSV writing for large exports
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(name string, headers []string) (*StreamWriter, error) {
	path := w.resolvePath(name)

	w.logger.Info("creating CSV stream writer",
		slog.String("path", path),
		slog.Int("header_count", len(headers)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// enrichedRow flattens one cached record into CSV cells. Missing
// sentinels export as empty cells, not as -1.
func enrichedRow(r *domain.EnrichedRecord) []string {
	return []string{
		r.AccidentIndex,
		r.Date,
		formatCount(r.Year),
		formatCount(r.Month),
		r.Weekday,
		formatCount(r.Hour),
		formatCount(r.NumberOfVehicles),
		formatCount(r.NumberOfCasualties),
		formatCount(r.SpeedLimit),
		r.Severity.String(),
		r.RoadType,
		r.RoadConditions,
		r.WeatherConditions,
		r.LightConditions,
		r.Gender,
		r.AgeGroup,
	}
}

// resolvePath places relative names inside the exports directory.
func (w *CSVWriter) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.dir, name)
}

func formatCount(v int32) string {
	if v < 0 {
		return ""
	}
	return strconv.Itoa(int(v))
}
