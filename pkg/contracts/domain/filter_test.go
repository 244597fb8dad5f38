package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() EnrichedRecord {
	return EnrichedRecord{
		AccidentIndex:      "AX1",
		Date:               "2015-06-01",
		Year:               2015,
		Month:              6,
		Weekday:            "Monday",
		Hour:               8,
		NumberOfVehicles:   1,
		NumberOfCasualties: 2,
		SpeedLimit:         30,
		Severity:           SeverityFatal,
		RoadType:           "Single Carriageway",
		RoadConditions:     "Dry",
		WeatherConditions:  "Fine",
		LightConditions:    "Daylight",
		Gender:             "Male",
		AgeGroup:           "26 To 35",
	}
}

func TestFilterMatches(t *testing.T) {
	rec := sampleRecord()

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "zero filter matches all", filter: Filter{}, want: true},
		{name: "year range inclusive", filter: Filter{YearMin: 2015, YearMax: 2015}, want: true},
		{name: "year below range", filter: Filter{YearMin: 2016}, want: false},
		{name: "year above range", filter: Filter{YearMax: 2014}, want: false},
		{name: "severity hit", filter: Filter{Severities: []string{"Fatal", "Serious"}}, want: true},
		{name: "severity miss", filter: Filter{Severities: []string{"Slight"}}, want: false},
		{name: "gender hit", filter: Filter{Genders: []string{"Male"}}, want: true},
		{name: "gender miss", filter: Filter{Genders: []string{"Female"}}, want: false},
		{name: "combined", filter: Filter{YearMin: 2014, Severities: []string{"Fatal"}, RoadTypes: []string{"Single Carriageway"}}, want: true},
		{name: "combined miss on one", filter: Filter{YearMin: 2014, Severities: []string{"Fatal"}, RoadTypes: []string{"Roundabout"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(&rec))
		})
	}
}

func TestFilterMatchesMissingYear(t *testing.T) {
	rec := sampleRecord()
	rec.Year = Missing

	// A record with no usable year can never satisfy an active year bound.
	assert.False(t, Filter{YearMin: 2010}.Matches(&rec))
	assert.False(t, Filter{YearMax: 2020}.Matches(&rec))
	assert.True(t, Filter{}.Matches(&rec))
}

func TestFilterKeyCanonical(t *testing.T) {
	a := Filter{YearMin: 2012, YearMax: 2018, Severities: []string{"Fatal", "Slight"}, Genders: []string{"Male", "Female"}}
	b := Filter{YearMin: 2012, YearMax: 2018, Severities: []string{"Slight", "Fatal"}, Genders: []string{"Female", "Male"}}
	c := Filter{YearMin: 2012, YearMax: 2018, Severities: []string{"Fatal"}}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, Filter{}.Key(), c.Key())
}

func TestFilterIsZero(t *testing.T) {
	assert.True(t, Filter{}.IsZero())
	assert.False(t, Filter{YearMin: 2010}.IsZero())
	assert.False(t, Filter{Severities: []string{"Fatal"}}.IsZero())
}

func TestCategoryAccessors(t *testing.T) {
	rec := sampleRecord()

	for _, column := range GroupableColumns {
		value, ok := rec.Category(column)
		assert.True(t, ok, column)
		assert.NotEmpty(t, value, column)
	}

	_, ok := rec.Category("speed_limit")
	assert.False(t, ok)

	assert.True(t, rec.SetCategory(ColumnRoadType, OtherCategory))
	assert.Equal(t, OtherCategory, rec.RoadType)
	assert.False(t, rec.SetCategory(ColumnSeverity, "Fatal"))
	assert.False(t, rec.SetCategory(ColumnWeekday, "Friday"))
}
