package dataprocessing

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/muhammad-o98/Bike-Accidents-GB/internal/errors"
	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// UnknownValue is substituted for empty nominal cells so they survive as
// an explicit, filterable category instead of an invisible empty string.
const UnknownValue = "Unknown"

// dateLayouts are tried in order when parsing the Date column. The raw
// exports have shipped both ISO and UK day-first forms over the years.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04:05",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
}

// Options configures the feature transformer.
type Options struct {
	// RareThreshold is the minimum share of rows (0..1) a nominal value
	// needs to keep its own category; anything rarer becomes OtherLabel.
	RareThreshold float64
	OtherLabel    string
}

// DefaultOptions returns the transformer defaults: 1% bucketing into "Other".
func DefaultOptions() Options {
	return Options{RareThreshold: 0.01, OtherLabel: domain.OtherCategory}
}

// Transformer derives the enriched table from merged raw rows. Steps run
// in a fixed order because later ones depend on earlier derived values:
// temporal derivation, numeric coercion, severity recoding, rare-category
// bucketing over the full dataset, then dictionary interning.
type Transformer struct {
	logger *slog.Logger
	opts   Options
}

// NewTransformer creates a transformer with the given options.
func NewTransformer(logger *slog.Logger, opts Options) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RareThreshold < 0 {
		opts.RareThreshold = 0
	}
	if opts.OtherLabel == "" {
		opts.OtherLabel = domain.OtherCategory
	}
	return &Transformer{
		logger: logger.With(slog.String("component", "transformer")),
		opts:   opts,
	}
}

// Transform converts merged rows into the enriched schema and reports
// every recovered per-row defect. Only an unrecognized severity label is
// fatal; everything else is sentineled and counted.
func (t *Transformer) Transform(merged []domain.MergedRecord) ([]domain.EnrichedRecord, *domain.QualityReport, error) {
	report := domain.NewQualityReport()
	report.InputRows = len(merged)

	records := make([]domain.EnrichedRecord, 0, len(merged))
	for i := range merged {
		record, err := t.enrichRow(&merged[i], i, report)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)
	}

	t.bucketRareCategories(records, report)
	internCategories(records)

	report.OutputRows = len(records)
	t.logger.Info("transform complete",
		slog.Int("rows", len(records)),
		slog.Int("defects", report.Defects()))
	return records, report, nil
}

// enrichRow derives one enriched record from a merged pair.
func (t *Transformer) enrichRow(m *domain.MergedRecord, row int, report *domain.QualityReport) (domain.EnrichedRecord, error) {
	record := domain.EnrichedRecord{
		AccidentIndex:     m.Accident.AccidentIndex,
		RoadType:          normalizeCategory(m.Accident.RoadType),
		RoadConditions:    normalizeCategory(m.Accident.RoadConditions),
		WeatherConditions: normalizeCategory(m.Accident.WeatherConditions),
		LightConditions:   normalizeCategory(m.Accident.LightConditions),
		Gender:            normalizeCategory(m.Casualty.Gender),
		AgeGroup:          normalizeCategory(m.Casualty.AgeGroup),
	}

	// Temporal features. A bad date leaves every derived field sentineled
	// together so they can never disagree with each other.
	if date, ok := parseDate(m.Accident.Date); ok {
		record.Date = date.Format("2006-01-02")
		record.Year = int32(date.Year())
		record.Month = int32(date.Month())
		record.Weekday = date.Weekday().String()
	} else {
		record.Year = domain.Missing
		record.Month = domain.Missing
		report.UnparseableDates++
	}

	record.Hour = domain.Missing
	if raw := strings.TrimSpace(m.Accident.Time); raw != "" {
		if clock, ok := parseTime(raw); ok {
			record.Hour = int32(clock.Hour())
		} else {
			report.UnparseableTimes++
		}
	}

	record.NumberOfVehicles = coerceInt(m.Accident.NumberOfVehicles, "number_of_vehicles", report)
	record.NumberOfCasualties = coerceInt(m.Accident.NumberOfCasualties, "number_of_casualties", report)
	record.SpeedLimit = coerceInt(m.Accident.SpeedLimit, "speed_limit", report)

	severity, ok := domain.ParseSeverity(m.Accident.Severity)
	if !ok {
		return domain.EnrichedRecord{}, &apperrors.UnknownCategoryError{
			Column: domain.ColumnSeverity,
			Value:  m.Accident.Severity,
			Row:    row,
		}
	}
	record.Severity = severity

	return record, nil
}

// bucketRareCategories replaces values below the frequency threshold with
// the Other label. Frequencies are computed per column over the full
// dataset exactly once; filtered views downstream never re-bucket.
func (t *Transformer) bucketRareCategories(records []domain.EnrichedRecord, report *domain.QualityReport) {
	if len(records) == 0 || t.opts.RareThreshold == 0 {
		return
	}
	minCount := t.opts.RareThreshold * float64(len(records))

	for _, column := range domain.NominalColumns {
		counts := make(map[string]int)
		for i := range records {
			value, _ := records[i].Category(column)
			counts[value]++
		}

		rare := make(map[string]bool)
		for value, count := range counts {
			if float64(count) < minCount && value != t.opts.OtherLabel {
				rare[value] = true
			}
		}
		if len(rare) == 0 {
			continue
		}

		for i := range records {
			value, _ := records[i].Category(column)
			if rare[value] {
				records[i].SetCategory(column, t.opts.OtherLabel)
				report.BucketedValues[column]++
			}
		}
	}
}

// internCategories collapses duplicate categorical strings onto shared
// backing storage. After bucketing each column holds a handful of distinct
// values, so the enriched table keeps one copy of each.
func internCategories(records []domain.EnrichedRecord) {
	pool := make(map[string]string)
	intern := func(s string) string {
		if v, ok := pool[s]; ok {
			return v
		}
		pool[s] = s
		return s
	}

	for i := range records {
		r := &records[i]
		r.Weekday = intern(r.Weekday)
		r.RoadType = intern(r.RoadType)
		r.RoadConditions = intern(r.RoadConditions)
		r.WeatherConditions = intern(r.WeatherConditions)
		r.LightConditions = intern(r.LightConditions)
		r.Gender = intern(r.Gender)
		r.AgeGroup = intern(r.AgeGroup)
	}
}

// parseDate tries the known date layouts.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseTime tries the known clock layouts.
func parseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coerceInt parses a numeric cell, recovering failures as the Missing
// sentinel and counting them against the column.
func coerceInt(raw, column string, report *domain.QualityReport) int32 {
	s := strings.TrimSpace(raw)
	if s == "" {
		report.UnparseableNumerics[column]++
		return domain.Missing
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return int32(n)
	}
	// Some exports carry numerics as floats ("30.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int32(f)
	}
	report.UnparseableNumerics[column]++
	return domain.Missing
}

// normalizeCategory trims and title-cases a raw categorical value the way
// the published dataset documentation spells them ("Wet/Damp", "Darkness:
// Street Lights Present"). Empty cells become the Unknown category.
func normalizeCategory(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return UnknownValue
	}
	return titleCase(s)
}

// titleCase uppercases every letter that follows a non-letter and lowers
// the rest, matching the normalization the dataset's own docs use.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
