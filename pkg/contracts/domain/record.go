package domain

// Missing is the sentinel stored in integer columns whose source value
// could not be parsed. It is documented as part of the cache schema:
// consumers must treat negative values as absent, never as measurements.
const Missing int32 = -1

// OtherCategory is the label rare categorical values are bucketed into.
const OtherCategory = "Other"

// AccidentRecord mirrors one row of the raw accidents CSV.
// Numeric columns stay as strings at load time; coercion to integers
// (with the Missing sentinel) is the transformer's job, so a single bad
// cell never aborts the load.
type AccidentRecord struct {
	AccidentIndex      string `csv:"Accident_Index"`
	Date               string `csv:"Date"`
	Time               string `csv:"Time"`
	Severity           string `csv:"Severity"`
	NumberOfVehicles   string `csv:"Number_of_Vehicles"`
	NumberOfCasualties string `csv:"Number_of_Casualties"`
	SpeedLimit         string `csv:"Speed_limit"`
	RoadType           string `csv:"Road_type"`
	RoadConditions     string `csv:"Road_conditions"`
	WeatherConditions  string `csv:"Weather_conditions"`
	LightConditions    string `csv:"Light_conditions"`
}

// CasualtyRecord mirrors one row of the raw bikers CSV.
type CasualtyRecord struct {
	AccidentIndex string `csv:"Accident_Index"`
	Gender        string `csv:"Gender"`
	AgeGroup      string `csv:"Age_Grp"`
}

// MergedRecord is one accident x casualty pair produced by the inner join
// on Accident_Index. Rows without a counterpart on either side are dropped.
type MergedRecord struct {
	Accident AccidentRecord
	Casualty CasualtyRecord
}

// EnrichedRecord is the cached table schema: one merged row with derived
// temporal fields, coerced numerics and finalized categoricals. Categorical
// columns carry parquet dictionary encoding so the on-disk cache stays
// compact for low-cardinality values.
type EnrichedRecord struct {
	AccidentIndex string `parquet:"accident_index,dict" json:"accident_index"`

	// Date is normalized to ISO form (2006-01-02); empty when the source
	// date was unparseable. Derived fields below are always consistent
	// with it and are never mutated independently.
	Date    string `parquet:"date,dict" json:"date"`
	Year    int32  `parquet:"year" json:"year"`
	Month   int32  `parquet:"month" json:"month"`
	Weekday string `parquet:"weekday,dict" json:"weekday"`
	Hour    int32  `parquet:"hour" json:"hour"`

	NumberOfVehicles   int32 `parquet:"number_of_vehicles" json:"number_of_vehicles"`
	NumberOfCasualties int32 `parquet:"number_of_casualties" json:"number_of_casualties"`
	SpeedLimit         int32 `parquet:"speed_limit" json:"speed_limit"`

	Severity Severity `parquet:"severity" json:"severity"`

	RoadType          string `parquet:"road_type,dict" json:"road_type"`
	RoadConditions    string `parquet:"road_conditions,dict" json:"road_conditions"`
	WeatherConditions string `parquet:"weather_conditions,dict" json:"weather_conditions"`
	LightConditions   string `parquet:"light_conditions,dict" json:"light_conditions"`
	Gender            string `parquet:"gender,dict" json:"gender"`
	AgeGroup          string `parquet:"age_group,dict" json:"age_group"`
}

// Column names used by the aggregation and bucketing layers.
const (
	ColumnSeverity          = "severity"
	ColumnWeekday           = "weekday"
	ColumnRoadType          = "road_type"
	ColumnRoadConditions    = "road_conditions"
	ColumnWeatherConditions = "weather_conditions"
	ColumnLightConditions   = "light_conditions"
	ColumnGender            = "gender"
	ColumnAgeGroup          = "age_group"
)

// NominalColumns are the free-form categorical columns subject to
// rare-category bucketing. Severity and weekday have closed domains and
// are excluded.
var NominalColumns = []string{
	ColumnRoadType,
	ColumnRoadConditions,
	ColumnWeatherConditions,
	ColumnLightConditions,
	ColumnGender,
	ColumnAgeGroup,
}

// GroupableColumns are the columns the aggregation layer accepts for
// group-by requests.
var GroupableColumns = append([]string{ColumnSeverity, ColumnWeekday}, NominalColumns...)

// Category returns the value of the named categorical column.
func (r *EnrichedRecord) Category(column string) (string, bool) {
	switch column {
	case ColumnSeverity:
		return r.Severity.String(), true
	case ColumnWeekday:
		return r.Weekday, true
	case ColumnRoadType:
		return r.RoadType, true
	case ColumnRoadConditions:
		return r.RoadConditions, true
	case ColumnWeatherConditions:
		return r.WeatherConditions, true
	case ColumnLightConditions:
		return r.LightConditions, true
	case ColumnGender:
		return r.Gender, true
	case ColumnAgeGroup:
		return r.AgeGroup, true
	}
	return "", false
}

// SetCategory overwrites the value of a nominal column. Used by the
// bucketing step; closed-domain columns are not settable.
func (r *EnrichedRecord) SetCategory(column, value string) bool {
	switch column {
	case ColumnRoadType:
		r.RoadType = value
	case ColumnRoadConditions:
		r.RoadConditions = value
	case ColumnWeatherConditions:
		r.WeatherConditions = value
	case ColumnLightConditions:
		r.LightConditions = value
	case ColumnGender:
		r.Gender = value
	case ColumnAgeGroup:
		r.AgeGroup = value
	default:
		return false
	}
	return true
}

// WeekdayOrder is the calendar ordering used by weekday time series.
var WeekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
