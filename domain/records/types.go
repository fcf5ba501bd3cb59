package records

import "math"

// AccidentRecord is one parsed row of the primary accident table.
// Parse failures never reject a row: numeric counts fall back to 0,
// coordinates and casualty rate fall back to NaN so downstream engines
// can filter them, and missing temporal fields use sentinel values.
type AccidentRecord struct {
	Latitude  float64 `json:"latitude"`  // NaN when unparseable
	Longitude float64 `json:"longitude"` // NaN when unparseable

	Year  int `json:"year"`  // 0 when missing
	Month int `json:"month"` // 0 when missing, else 1-12
	Hour  int `json:"hour"`  // -1 when missing, else 0-23

	SeverityNumeric int    `json:"severity_numeric"` // 0 unknown, else 1-3
	Severity        string `json:"severity"`         // "Unknown" iff SeverityNumeric is 0

	Vehicles     int     `json:"vehicles"`
	Casualties   int     `json:"casualties"`
	SpeedLimit   float64 `json:"speed_limit"`   // 0 = unknown
	CasualtyRate float64 `json:"casualty_rate"` // NaN when unparseable

	RushHour      bool `json:"rush_hour"`
	Weekend       bool `json:"weekend"`
	Urban         bool `json:"urban"`
	Rain          bool `json:"rain"`
	Snow          bool `json:"snow"`
	Fog           bool `json:"fog"`
	Clear         bool `json:"clear"`
	Fatal         bool `json:"fatal"`
	Serious       bool `json:"serious"`
	MultiVehicle  bool `json:"multi_vehicle"`
	HasCasualties bool `json:"has_casualties"`

	Weather  string `json:"weather"` // raw condition code
	Region   string `json:"region"`
	AreaCode string `json:"area_code,omitempty"` // administrative area, empty when absent
	Date     string `json:"date,omitempty"`
}

// HasCoordinates reports whether both coordinates parsed successfully.
func (r AccidentRecord) HasCoordinates() bool {
	return !math.IsNaN(r.Latitude) && !math.IsNaN(r.Longitude)
}

// SupplementalRecord is one parsed row of the secondary accident table.
// Only rows whose date parsed and whose year falls in [2010, 2015] survive
// loading; this set exists to backfill severity and feed multi-year trends.
type SupplementalRecord struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Day   int `json:"day"`   // 0 when the date failed to parse
	Month int `json:"month"` // 0 when the date failed to parse
	Year  int `json:"year"`  // 0 when the date failed to parse
	Hour  int `json:"hour"`  // -1 when missing

	Severity   int     `json:"severity"` // 0 missing, else 1-3
	Weather    string  `json:"weather"`
	Vehicles   int     `json:"vehicles"`
	Casualties int     `json:"casualties"`
	SpeedLimit float64 `json:"speed_limit"`
	AreaCode   string  `json:"area_code"`
}

// HasCoordinates reports whether both coordinates parsed successfully.
func (r SupplementalRecord) HasCoordinates() bool {
	return !math.IsNaN(r.Latitude) && !math.IsNaN(r.Longitude)
}

// AuthorityMap resolves administrative-area codes to display names.
// Built once during loading, read-only afterwards.
type AuthorityMap struct {
	names map[string]string
}

// NewAuthorityMap creates an empty authority map
func NewAuthorityMap() *AuthorityMap {
	return &AuthorityMap{names: make(map[string]string)}
}

// Set registers a code/name pair. Later duplicates overwrite earlier ones.
func (m *AuthorityMap) Set(code, name string) {
	m.names[code] = name
}

// Name resolves a code; ok is false on a miss and the caller must fall back.
func (m *AuthorityMap) Name(code string) (string, bool) {
	name, ok := m.names[code]
	return name, ok
}

// Len returns the number of known codes
func (m *AuthorityMap) Len() int {
	return len(m.names)
}

// Dataset is the finalized, immutable snapshot handed to the analysis
// engines once loading and severity reconciliation have completed.
// Engines hold read-only access; nothing mutates it after construction.
type Dataset struct {
	Primary      []AccidentRecord
	Supplemental []SupplementalRecord
	Authorities  *AuthorityMap
}
