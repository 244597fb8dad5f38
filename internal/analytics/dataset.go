package analytics

import (
	"sort"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// Dataset is the explicit context every aggregation runs against: the
// cached table plus the cache version it was loaded from. It replaces any
// notion of a shared global table handle; callers pass it explicitly.
// A Dataset is immutable after construction.
type Dataset struct {
	records []domain.EnrichedRecord
	version string
}

// NewDataset wraps loaded cache records. version identifies the cache
// file the records came from and flows into memoization keys.
func NewDataset(records []domain.EnrichedRecord, version string) *Dataset {
	return &Dataset{records: records, version: version}
}

// Version returns the cache identity the dataset was loaded from.
func (d *Dataset) Version() string {
	return d.version
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.records)
}

// View is an ephemeral filtered selection over a Dataset. Views are
// recomputed per interaction and never persisted.
type View struct {
	records []domain.EnrichedRecord
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.records)
}

// Apply materializes the view selected by the filter. The underlying
// dataset is never mutated; an empty filter selects every row.
func (d *Dataset) Apply(filter domain.Filter) View {
	if filter.IsZero() {
		return View{records: d.records}
	}
	matched := make([]domain.EnrichedRecord, 0, len(d.records))
	for i := range d.records {
		if filter.Matches(&d.records[i]) {
			matched = append(matched, d.records[i])
		}
	}
	return View{records: matched}
}

// FilterOptions enumerates the selectable values for the dashboard's
// filter widgets plus the dataset's year span.
func (d *Dataset) FilterOptions() domain.FilterOptions {
	opts := domain.FilterOptions{
		Severities:        distinct(d.records, domain.ColumnSeverity),
		Genders:           distinct(d.records, domain.ColumnGender),
		AgeGroups:         distinct(d.records, domain.ColumnAgeGroup),
		RoadConditions:    distinct(d.records, domain.ColumnRoadConditions),
		WeatherConditions: distinct(d.records, domain.ColumnWeatherConditions),
		RoadTypes:         distinct(d.records, domain.ColumnRoadType),
		LightConditions:   distinct(d.records, domain.ColumnLightConditions),
	}
	for i := range d.records {
		year := int(d.records[i].Year)
		if year < 0 {
			continue
		}
		if opts.YearMin == 0 || year < opts.YearMin {
			opts.YearMin = year
		}
		if year > opts.YearMax {
			opts.YearMax = year
		}
	}
	return opts
}

// distinct returns the sorted distinct values of a categorical column.
func distinct(records []domain.EnrichedRecord, column string) []string {
	seen := make(map[string]bool)
	for i := range records {
		if value, ok := records[i].Category(column); ok && value != "" {
			seen[value] = true
		}
	}
	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
