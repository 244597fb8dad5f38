package domain

import "time"

// QualityReport aggregates the per-row data defects recovered during a
// pipeline run. Defects listed here were sentineled, not fatal; the report
// exists so silent data loss is visible after every batch.
type QualityReport struct {
	GeneratedAt time.Time `json:"generated_at"`

	InputRows  int `json:"input_rows"`
	OutputRows int `json:"output_rows"`

	UnparseableDates int `json:"unparseable_dates"`
	UnparseableTimes int `json:"unparseable_times"`

	// UnparseableNumerics counts bad cells per numeric column.
	UnparseableNumerics map[string]int `json:"unparseable_numerics"`

	// BucketedValues counts rows rewritten to "Other" per nominal column.
	BucketedValues map[string]int `json:"bucketed_values"`
}

// NewQualityReport returns an empty report with initialized maps.
func NewQualityReport() *QualityReport {
	return &QualityReport{
		GeneratedAt:         time.Now().UTC(),
		UnparseableNumerics: make(map[string]int),
		BucketedValues:      make(map[string]int),
	}
}

// Defects returns the total number of recovered per-row issues.
func (q *QualityReport) Defects() int {
	total := q.UnparseableDates + q.UnparseableTimes
	for _, n := range q.UnparseableNumerics {
		total += n
	}
	for _, n := range q.BucketedValues {
		total += n
	}
	return total
}
