package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Filter describes a dashboard selection over the cached table.
// The zero value matches every row. Filters are value types: applying one
// never mutates the underlying dataset.
type Filter struct {
	YearMin int `json:"year_min,omitempty"`
	YearMax int `json:"year_max,omitempty"`

	Severities        []string `json:"severities,omitempty"`
	Genders           []string `json:"genders,omitempty"`
	AgeGroups         []string `json:"age_groups,omitempty"`
	RoadConditions    []string `json:"road_conditions,omitempty"`
	WeatherConditions []string `json:"weather_conditions,omitempty"`
	RoadTypes         []string `json:"road_types,omitempty"`
	LightConditions   []string `json:"light_conditions,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.YearMin == 0 && f.YearMax == 0 &&
		len(f.Severities) == 0 && len(f.Genders) == 0 && len(f.AgeGroups) == 0 &&
		len(f.RoadConditions) == 0 && len(f.WeatherConditions) == 0 &&
		len(f.RoadTypes) == 0 && len(f.LightConditions) == 0
}

// Matches reports whether a record passes every active criterion.
func (f Filter) Matches(r *EnrichedRecord) bool {
	if f.YearMin != 0 && (r.Year == Missing || r.Year < int32(f.YearMin)) {
		return false
	}
	if f.YearMax != 0 && (r.Year == Missing || r.Year > int32(f.YearMax)) {
		return false
	}
	if !contains(f.Severities, r.Severity.String()) {
		return false
	}
	if !contains(f.Genders, r.Gender) {
		return false
	}
	if !contains(f.AgeGroups, r.AgeGroup) {
		return false
	}
	if !contains(f.RoadConditions, r.RoadConditions) {
		return false
	}
	if !contains(f.WeatherConditions, r.WeatherConditions) {
		return false
	}
	if !contains(f.RoadTypes, r.RoadType) {
		return false
	}
	if !contains(f.LightConditions, r.LightConditions) {
		return false
	}
	return true
}

// Key returns a canonical string form of the filter. Two filters selecting
// the same rows produce the same key regardless of the order their values
// were supplied in, which makes the key safe for memoization.
func (f Filter) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "y=%d-%d", f.YearMin, f.YearMax)
	writeSet(&b, "sev", f.Severities)
	writeSet(&b, "gen", f.Genders)
	writeSet(&b, "age", f.AgeGroups)
	writeSet(&b, "road", f.RoadConditions)
	writeSet(&b, "wx", f.WeatherConditions)
	writeSet(&b, "rt", f.RoadTypes)
	writeSet(&b, "light", f.LightConditions)
	return b.String()
}

func writeSet(b *strings.Builder, name string, values []string) {
	if len(values) == 0 {
		return
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	b.WriteByte('|')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(strings.Join(sorted, ","))
}

// contains treats an empty selection as "no restriction", matching the
// dashboard convention where deselecting every option means "all".
func contains(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}
