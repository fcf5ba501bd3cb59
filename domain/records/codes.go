package records

import (
	"fmt"
	"math"
)

// Severity codes as carried by both datasets.
const (
	SeverityUnknown = 0
	SeverityFatal   = 1
	SeveritySerious = 2
	SeveritySlight  = 3
)

var severityLabels = map[int]string{
	SeverityFatal:   "Fatal",
	SeveritySerious: "Serious",
	SeveritySlight:  "Slight",
}

// SeverityLabel maps a severity code to its display label.
// Unmapped codes fall back to "Unknown".
func SeverityLabel(code int) string {
	if label, ok := severityLabels[code]; ok {
		return label
	}
	return "Unknown"
}

// MonthNames indexes calendar month names, January first.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var weatherNames = map[string]string{
	"1": "Fine",
	"2": "Raining",
	"3": "Snowing",
	"4": "Fine + High Winds",
	"5": "Raining + High Winds",
	"6": "Snowing + High Winds",
	"7": "Fog or Mist",
	"8": "Other",
	"9": "Unknown",
}

// WeatherName maps a weather condition code to its display name, with a
// generic fallback for unrecognized codes.
func WeatherName(code string) string {
	if name, ok := weatherNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Weather %s", code)
}

// Codes suppressed from both weather charts: snow, snow+wind, fog/mist,
// "other", plus the unknown markers.
var excludedWeather = map[string]bool{
	"":   true,
	"-1": true,
	"3":  true,
	"6":  true,
	"7":  true,
	"8":  true,
	"9":  true,
}

// WeatherChartable reports whether a weather code may appear in chart output.
func WeatherChartable(code string) bool {
	return !excludedWeather[code]
}

// MultiYearWeatherCodes is the fixed display order for the cross-year
// weather breakdown.
var MultiYearWeatherCodes = []string{"1", "2", "4", "5"}

var multiYearWeatherNames = map[string]string{
	"1": "Fine",
	"2": "Raining",
	"4": "Fine + Wind",
	"5": "Raining + Wind",
}

// MultiYearWeatherName maps one of the four cross-year codes to its short name.
func MultiYearWeatherName(code string) string {
	if name, ok := multiYearWeatherNames[code]; ok {
		return name
	}
	return WeatherName(code)
}

// Keys of the numeric fields consumed by the descriptive and correlation engines.
const (
	FieldSeverity     = "severity"
	FieldVehicles     = "vehicles"
	FieldCasualties   = "casualties"
	FieldSpeedLimit   = "speed_limit"
	FieldHour         = "hour"
	FieldCasualtyRate = "casualty_rate"
)

// NumericField extracts a numeric field by key, returning NaN for missing
// values so engines can filter uniformly.
func (r AccidentRecord) NumericField(key string) float64 {
	switch key {
	case FieldSeverity:
		return float64(r.SeverityNumeric)
	case FieldVehicles:
		return float64(r.Vehicles)
	case FieldCasualties:
		return float64(r.Casualties)
	case FieldSpeedLimit:
		return r.SpeedLimit
	case FieldHour:
		if r.Hour < 0 {
			return math.NaN()
		}
		return float64(r.Hour)
	case FieldCasualtyRate:
		return r.CasualtyRate
	}
	return math.NaN()
}
