package domain

// Summary holds the KPI set shown at the top of the dashboard.
type Summary struct {
	TotalAccidents           int     `json:"total_accidents"`
	TotalCasualties          int64   `json:"total_casualties"`
	TotalVehicles            int64   `json:"total_vehicles"`
	FatalAccidents           int     `json:"fatal_accidents"`
	SeriousAccidents         int     `json:"serious_accidents"`
	SlightAccidents          int     `json:"slight_accidents"`
	AvgCasualtiesPerAccident float64 `json:"avg_casualties_per_accident"`
	YearRange                string  `json:"year_range"`
}

// TimeseriesPoint is one bucket of a time series aggregation.
type TimeseriesPoint struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// CategoryCount is one row of a group-by-category aggregation.
type CategoryCount struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SeverityBreakdownRow gives the severity mix of one category as
// percentages of that category's rows.
type SeverityBreakdownRow struct {
	Category string  `json:"category"`
	Slight   float64 `json:"slight_pct"`
	Serious  float64 `json:"serious_pct"`
	Fatal    float64 `json:"fatal_pct"`
	Total    int     `json:"total"`
}

// StackedGroup is one x-axis group of a stacked bar aggregation, split
// into per-subcategory counts.
type StackedGroup struct {
	Category string          `json:"category"`
	Parts    []CategoryCount `json:"parts"`
}

// FilterOptions enumerates the selectable values for each dashboard
// filter widget, derived from the cached table.
type FilterOptions struct {
	YearMin           int      `json:"year_min"`
	YearMax           int      `json:"year_max"`
	Severities        []string `json:"severities"`
	Genders           []string `json:"genders"`
	AgeGroups         []string `json:"age_groups"`
	RoadConditions    []string `json:"road_conditions"`
	WeatherConditions []string `json:"weather_conditions"`
	RoadTypes         []string `json:"road_types"`
	LightConditions   []string `json:"light_conditions"`
}
