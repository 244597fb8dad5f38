package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// Granularity selects the bucketing of a time series aggregation.
type Granularity string

const (
	GranularityYear    Granularity = "year"
	GranularityMonth   Granularity = "month"
	GranularityWeekday Granularity = "weekday"
	GranularityHour    Granularity = "hour"
)

// ParseGranularity validates a requested granularity.
func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(raw))) {
	case GranularityYear:
		return GranularityYear, nil
	case GranularityMonth:
		return GranularityMonth, nil
	case GranularityWeekday:
		return GranularityWeekday, nil
	case GranularityHour:
		return GranularityHour, nil
	}
	return "", fmt.Errorf("unknown granularity %q", raw)
}

// Summarize computes the dashboard KPI set over a view. It is a pure
// function of the view: identical filters over an unchanged dataset give
// identical summaries.
func Summarize(v View) domain.Summary {
	summary := domain.Summary{TotalAccidents: len(v.records)}

	var casualtySum int64
	var casualtyRows int
	yearMin, yearMax := math.MaxInt32, math.MinInt32

	for i := range v.records {
		r := &v.records[i]

		if r.NumberOfCasualties >= 0 {
			summary.TotalCasualties += int64(r.NumberOfCasualties)
			casualtySum += int64(r.NumberOfCasualties)
			casualtyRows++
		}
		if r.NumberOfVehicles >= 0 {
			summary.TotalVehicles += int64(r.NumberOfVehicles)
		}

		switch r.Severity {
		case domain.SeverityFatal:
			summary.FatalAccidents++
		case domain.SeveritySerious:
			summary.SeriousAccidents++
		case domain.SeveritySlight:
			summary.SlightAccidents++
		}

		if year := int(r.Year); year >= 0 {
			if year < yearMin {
				yearMin = year
			}
			if year > yearMax {
				yearMax = year
			}
		}
	}

	if casualtyRows > 0 {
		summary.AvgCasualtiesPerAccident = float64(casualtySum) / float64(casualtyRows)
	}
	if yearMin <= yearMax {
		summary.YearRange = fmt.Sprintf("%d-%d", yearMin, yearMax)
	} else {
		summary.YearRange = "N/A"
	}
	return summary
}

// Timeseries buckets the view's rows by the requested granularity.
// Weekday buckets come back in calendar order and hours in clock order,
// both zero-filled; year and month buckets cover only observed values.
func Timeseries(v View, granularity Granularity) ([]domain.TimeseriesPoint, error) {
	switch granularity {
	case GranularityYear:
		return bucketCounts(v, func(r *domain.EnrichedRecord) (string, bool) {
			if r.Year < 0 {
				return "", false
			}
			return fmt.Sprintf("%d", r.Year), true
		}), nil
	case GranularityMonth:
		return bucketCounts(v, func(r *domain.EnrichedRecord) (string, bool) {
			if r.Year < 0 || r.Month < 0 {
				return "", false
			}
			return fmt.Sprintf("%d-%02d", r.Year, r.Month), true
		}), nil
	case GranularityWeekday:
		counts := make(map[string]int)
		for i := range v.records {
			if v.records[i].Weekday != "" {
				counts[v.records[i].Weekday]++
			}
		}
		points := make([]domain.TimeseriesPoint, 0, len(domain.WeekdayOrder))
		for _, day := range domain.WeekdayOrder {
			points = append(points, domain.TimeseriesPoint{Bucket: day, Count: counts[day]})
		}
		return points, nil
	case GranularityHour:
		counts := make(map[int32]int)
		for i := range v.records {
			if v.records[i].Hour >= 0 {
				counts[v.records[i].Hour]++
			}
		}
		points := make([]domain.TimeseriesPoint, 0, 24)
		for hour := int32(0); hour < 24; hour++ {
			points = append(points, domain.TimeseriesPoint{
				Bucket: fmt.Sprintf("%02d:00", hour),
				Count:  counts[hour],
			})
		}
		return points, nil
	}
	return nil, fmt.Errorf("unknown granularity %q", granularity)
}

// bucketCounts groups rows by a derived key and returns points sorted by
// bucket label.
func bucketCounts(v View, key func(*domain.EnrichedRecord) (string, bool)) []domain.TimeseriesPoint {
	counts := make(map[string]int)
	for i := range v.records {
		if bucket, ok := key(&v.records[i]); ok {
			counts[bucket]++
		}
	}
	points := make([]domain.TimeseriesPoint, 0, len(counts))
	for bucket, count := range counts {
		points = append(points, domain.TimeseriesPoint{Bucket: bucket, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket < points[j].Bucket })
	return points
}

// GroupCounts counts rows per category of a groupable column, most
// frequent first, with each category's share of the view. Severity groups
// come back in severity order instead so charts stack consistently.
func GroupCounts(v View, column string) ([]domain.CategoryCount, error) {
	if !groupable(column) {
		return nil, fmt.Errorf("column %q is not groupable", column)
	}

	counts := make(map[string]int)
	for i := range v.records {
		value, _ := v.records[i].Category(column)
		counts[value]++
	}

	total := len(v.records)
	result := make([]domain.CategoryCount, 0, len(counts))
	for category, count := range counts {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(count)/float64(total)*1000) / 10
		}
		result = append(result, domain.CategoryCount{Category: category, Count: count, Percentage: pct})
	}

	if column == domain.ColumnSeverity {
		order := make(map[string]int, len(domain.SeverityOrder))
		for i, label := range domain.SeverityOrder {
			order[label] = i
		}
		sort.Slice(result, func(i, j int) bool { return order[result[i].Category] < order[result[j].Category] })
	} else {
		sort.Slice(result, func(i, j int) bool {
			if result[i].Count != result[j].Count {
				return result[i].Count > result[j].Count
			}
			return result[i].Category < result[j].Category
		})
	}
	return result, nil
}

// SeverityBreakdown crosses a groupable column against severity, giving
// each category's severity mix as percentages of that category's rows.
func SeverityBreakdown(v View, column string) ([]domain.SeverityBreakdownRow, error) {
	if !groupable(column) || column == domain.ColumnSeverity {
		return nil, fmt.Errorf("column %q cannot be crossed with severity", column)
	}

	type tally struct {
		counts [3]int
		total  int
	}
	tallies := make(map[string]*tally)
	for i := range v.records {
		r := &v.records[i]
		value, _ := r.Category(column)
		t, ok := tallies[value]
		if !ok {
			t = &tally{}
			tallies[value] = t
		}
		if r.Severity.Valid() {
			t.counts[r.Severity]++
		}
		t.total++
	}

	rows := make([]domain.SeverityBreakdownRow, 0, len(tallies))
	for category, t := range tallies {
		row := domain.SeverityBreakdownRow{Category: category, Total: t.total}
		if t.total > 0 {
			row.Slight = pct(t.counts[domain.SeveritySlight], t.total)
			row.Serious = pct(t.counts[domain.SeveritySerious], t.total)
			row.Fatal = pct(t.counts[domain.SeverityFatal], t.total)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}

// StackedCounts groups rows by xColumn and splits each group by
// stackColumn, the shape stacked bar charts consume.
func StackedCounts(v View, xColumn, stackColumn string) ([]domain.StackedGroup, error) {
	if !groupable(xColumn) {
		return nil, fmt.Errorf("column %q is not groupable", xColumn)
	}
	if !groupable(stackColumn) {
		return nil, fmt.Errorf("column %q is not groupable", stackColumn)
	}

	groups := make(map[string]map[string]int)
	for i := range v.records {
		x, _ := v.records[i].Category(xColumn)
		s, _ := v.records[i].Category(stackColumn)
		if groups[x] == nil {
			groups[x] = make(map[string]int)
		}
		groups[x][s]++
	}

	result := make([]domain.StackedGroup, 0, len(groups))
	for x, parts := range groups {
		group := domain.StackedGroup{Category: x}
		total := 0
		for _, count := range parts {
			total += count
		}
		for category, count := range parts {
			group.Parts = append(group.Parts, domain.CategoryCount{
				Category:   category,
				Count:      count,
				Percentage: pct(count, total),
			})
		}
		sort.Slice(group.Parts, func(i, j int) bool { return group.Parts[i].Category < group.Parts[j].Category })
		result = append(result, group)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

func pct(count, total int) float64 {
	return math.Round(float64(count)/float64(total)*1000) / 10
}

func groupable(column string) bool {
	for _, c := range domain.GroupableColumns {
		if c == column {
			return true
		}
	}
	return false
}
