package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Station is one row of the station table as exposed by /api/v1.0/stations.
type Station struct {
	Name      string `json:"name"`
	Code      string `json:"station"`
	Elevation Float  `json:"elevation"`
}

// DatedTemperature is a (date, tobs) pair. It encodes as a two-element
// JSON array rather than an object.
type DatedTemperature struct {
	Date        string
	Temperature Float
}

func (d DatedTemperature) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{d.Date, d.Temperature})
}

// StationTemperature is an observation joined with its station's name.
// Temperature is whole degrees, truncated toward zero.
type StationTemperature struct {
	Station     string `json:"Station"`
	Date        string `json:"Date"`
	Temperature int    `json:"Temperature"`
}

// TemperatureSummary carries the AVG/MAX/MIN of tobs over a date range.
// EndDate is empty for open-ended ranges and then omitted from the JSON.
type TemperatureSummary struct {
	StartDate string `json:"Start Date"`
	EndDate   string `json:"End Date,omitempty"`
	Average   Float  `json:"Average Temperature"`
	Max       Float  `json:"Max Temperature"`
	Min       Float  `json:"Minimum Temperature"`
}

// DateRange bounds observation dates inclusively. Dates are compared as
// stored strings and are never parsed. An empty End leaves the range open.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) Open() bool {
	return r.End == ""
}

// Float is a float64 that always encodes with a fractional part, so 70
// goes out as 70.0.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &json.UnsupportedValueError{Str: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	b := strconv.AppendFloat(nil, v, 'f', -1, 64)
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		b = append(b, '.', '0')
	}
	return b, nil
}
