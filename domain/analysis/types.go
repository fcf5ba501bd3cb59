package analysis

import (
	"time"

	"crashlens/domain/core"
	"crashlens/domain/records"
)

// FieldSummary holds descriptive statistics for one numeric field.
type FieldSummary struct {
	Field  string  `json:"field"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"` // population standard deviation
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`

	Shape DistributionShape `json:"shape"`
}

// DistributionShape describes the shape of a field's distribution.
type DistributionShape struct {
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"`
	NormalityP float64 `json:"normality_p"`
	IsNormal   bool    `json:"is_normal"`
}

// SummaryCounts are the plain categorical counts over the primary set.
type SummaryCounts struct {
	TotalRecords       int `json:"total_records"`
	DistinctRegions    int `json:"distinct_regions"`
	DistinctSeverities int `json:"distinct_severities"`
	RushHour           int `json:"rush_hour"`
	Weekend            int `json:"weekend"`
	Urban              int `json:"urban"`
	Fatal              int `json:"fatal"`
	Serious            int `json:"serious"`
	MultiVehicle       int `json:"multi_vehicle"`
}

// DescriptiveReport bundles the descriptive engine's output.
// Fields with zero eligible values are omitted rather than reported.
type DescriptiveReport struct {
	Fields []FieldSummary `json:"fields"`
	Counts SummaryCounts  `json:"counts"`
}

// HotSpot is one surviving grid cell from the clustering engine.
// The centroid is the mean member position, not the cell's geometric center.
type HotSpot struct {
	CellX int `json:"cell_x"`
	CellY int `json:"cell_y"`
	Count int `json:"count"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	MeanSeverity   float64 `json:"mean_severity"`
	MeanVehicles   float64 `json:"mean_vehicles"`
	MeanCasualties float64 `json:"mean_casualties"`

	AreaName string `json:"area_name"`

	Records []records.AccidentRecord `json:"-"`
}

// TrendPoint is one bucket of a temporal grouping.
type TrendPoint struct {
	Key             int     `json:"key"` // month 1-12, year, or hour 0-23
	Label           string  `json:"label"`
	Count           int     `json:"count"`
	MeanSeverity    float64 `json:"mean_severity"`
	TotalCasualties int     `json:"total_casualties,omitempty"`
}

// WeatherCount is one ranked entry of the single-period weather chart.
type WeatherCount struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WeatherYearBreakdown is the multi-year cross-tabulation of the four
// retained weather codes. Counts is indexed [code][year], zero-filled.
type WeatherYearBreakdown struct {
	Years  []int    `json:"years"`
	Codes  []string `json:"codes"`
	Names  []string `json:"names"`
	Counts [][]int  `json:"counts"`
}

// TrendReport bundles every temporal grouping.
type TrendReport struct {
	Monthly            []TrendPoint         `json:"monthly"` // always 12 entries
	YearlyPrimary      []TrendPoint         `json:"yearly_primary"`
	YearlySupplemental []TrendPoint         `json:"yearly_supplemental"`
	Hourly             []TrendPoint         `json:"hourly"`
	Weather            []WeatherCount       `json:"weather"`
	WeatherByYear      WeatherYearBreakdown `json:"weather_by_year"`
}

// Matrix is a square Pearson correlation matrix over a fixed field order.
type Matrix struct {
	Fields []string    `json:"fields"`
	Values [][]float64 `json:"values"`
}

// At returns the coefficient for the field pair (i, j).
func (m Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// KeyCorrelation is one reported pair with |coefficient| > 0.3.
type KeyCorrelation struct {
	FieldA      string  `json:"field_a"`
	FieldB      string  `json:"field_b"`
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"` // Strong, Moderate, Weak
}

// CorrelationReport bundles the correlation engine's output.
type CorrelationReport struct {
	Matrix Matrix           `json:"matrix"`
	Key    []KeyCorrelation `json:"key_correlations"`
}

// Report is the complete output of one analysis run, a plain data bundle
// with no rendering concerns.
type Report struct {
	RunID       core.RunID        `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Descriptive DescriptiveReport `json:"descriptive"`
	HotSpots    []HotSpot         `json:"hot_spots"`
	Trends      TrendReport       `json:"trends"`
	Correlation CorrelationReport `json:"correlation"`
}

// RunSummary is the persisted footprint of one analysis run.
type RunSummary struct {
	RunID             core.RunID `json:"run_id" db:"run_id"`
	GeneratedAt       time.Time  `json:"generated_at" db:"generated_at"`
	PrimaryCount      int        `json:"primary_count" db:"primary_count"`
	SupplementalCount int        `json:"supplemental_count" db:"supplemental_count"`
	ReconciledCount   int        `json:"reconciled_count" db:"reconciled_count"`
	HotSpotCount      int        `json:"hot_spot_count" db:"hot_spot_count"`
	KeyCorrelations   int        `json:"key_correlations" db:"key_correlations"`
	ReportMarkdown    string     `json:"report_markdown" db:"report_markdown"`
}
