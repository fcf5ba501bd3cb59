package engine

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"crashlens/domain/analysis"
	"crashlens/domain/records"
)

// descriptiveField pairs a numeric field key with an optional value filter.
type descriptiveField struct {
	key    string
	filter func(float64) bool
}

var positiveOnly = func(v float64) bool { return v > 0 }

// The fixed field set summarized by the descriptive engine. Speed limit and
// casualty rate carry 0 as an unknown marker, so both filter to positives.
var descriptiveFields = []descriptiveField{
	{key: records.FieldSeverity},
	{key: records.FieldVehicles},
	{key: records.FieldCasualties},
	{key: records.FieldSpeedLimit, filter: positiveOnly},
	{key: records.FieldCasualtyRate, filter: positiveOnly},
	{key: records.FieldHour},
}

// DescriptiveEngine computes per-field summary statistics and plain
// categorical counts over the primary record set.
type DescriptiveEngine struct{}

// NewDescriptiveEngine creates a descriptive statistics engine
func NewDescriptiveEngine() *DescriptiveEngine {
	return &DescriptiveEngine{}
}

// Summarize computes summaries for every configured field. A field with no
// eligible values after filtering is omitted rather than reported.
func (e *DescriptiveEngine) Summarize(ds *records.Dataset) analysis.DescriptiveReport {
	report := analysis.DescriptiveReport{
		Counts: countCategories(ds.Primary),
	}

	for _, field := range descriptiveFields {
		values := collectField(ds.Primary, field.key, field.filter)
		if len(values) == 0 {
			continue
		}
		report.Fields = append(report.Fields, summarizeField(field.key, values))
	}

	return report
}

func collectField(recs []records.AccidentRecord, key string, filter func(float64) bool) []float64 {
	values := make([]float64, 0, len(recs))
	for _, rec := range recs {
		v := rec.NumericField(key)
		if math.IsNaN(v) {
			continue
		}
		if filter != nil && !filter(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}

func summarizeField(key string, values []float64) analysis.FieldSummary {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	stdDev, _ := stats.StandardDeviationPopulation(values)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return analysis.FieldSummary{
		Field:  key,
		Count:  len(values),
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
		StdDev: stdDev,
		Q1:     quantile(sorted, 0.25),
		Q3:     quantile(sorted, 0.75),
		Shape:  analyzeShape(values, mean, stdDev),
	}
}

// quantile interpolates linearly between the two nearest order statistics.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func countCategories(recs []records.AccidentRecord) analysis.SummaryCounts {
	counts := analysis.SummaryCounts{TotalRecords: len(recs)}

	regions := make(map[string]bool)
	severities := make(map[string]bool)
	for _, rec := range recs {
		regions[rec.Region] = true
		severities[rec.Severity] = true

		if rec.RushHour {
			counts.RushHour++
		}
		if rec.Weekend {
			counts.Weekend++
		}
		if rec.Urban {
			counts.Urban++
		}
		if rec.Fatal {
			counts.Fatal++
		}
		if rec.Serious {
			counts.Serious++
		}
		if rec.MultiVehicle {
			counts.MultiVehicle++
		}
	}

	counts.DistinctRegions = len(regions)
	counts.DistinctSeverities = len(severities)
	return counts
}

// analyzeShape computes skewness, kurtosis and an approximate normality
// p-value from the standardized third and fourth moments.
func analyzeShape(values []float64, mean, stdDev float64) analysis.DistributionShape {
	if len(values) < 4 || stdDev == 0 {
		return analysis.DistributionShape{}
	}

	n := float64(len(values))
	sumCubed := 0.0
	sumFourth := 0.0
	for _, v := range values {
		d := (v - mean) / stdDev
		cubed := d * d * d
		sumCubed += cubed
		sumFourth += cubed * d
	}

	skewness := sumCubed / n
	kurtosis := sumFourth / n

	// Jarque-Bera statistic, chi-squared with 2 degrees of freedom.
	jb := n / 6 * (skewness*skewness + (kurtosis-3)*(kurtosis-3)/4)
	chi := distuv.ChiSquared{K: 2}
	pValue := 1 - chi.CDF(jb)

	return analysis.DistributionShape{
		Skewness:   skewness,
		Kurtosis:   kurtosis,
		NormalityP: pValue,
		IsNormal:   pValue > 0.05,
	}
}
