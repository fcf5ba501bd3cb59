package engine

import (
	"fmt"
	"sort"
	"strconv"

	"crashlens/domain/analysis"
	"crashlens/domain/records"
)

const (
	// multiYearBaseYear clips supplemental multi-year charts.
	multiYearBaseYear = 2010
	// multiYearMaxSpan limits them to six consecutive years.
	multiYearMaxSpan = 6
	// weatherChartLimit keeps the top entries of the single-period chart.
	weatherChartLimit = 10
)

// TrendEngine groups records by calendar month, year, hour of day and
// weather category.
type TrendEngine struct{}

// NewTrendEngine creates a trend aggregation engine
func NewTrendEngine() *TrendEngine {
	return &TrendEngine{}
}

// Aggregate runs every temporal grouping over the dataset.
func (e *TrendEngine) Aggregate(ds *records.Dataset) analysis.TrendReport {
	return analysis.TrendReport{
		Monthly:            e.monthly(ds.Primary),
		YearlyPrimary:      e.yearlyPrimary(ds.Primary),
		YearlySupplemental: e.yearlySupplemental(ds.Supplemental),
		Hourly:             e.hourly(ds.Primary),
		Weather:            e.weather(ds.Primary),
		WeatherByYear:      e.weatherByYear(ds.Supplemental),
	}
}

// monthly produces exactly 12 entries, January through December. Months
// absent from the data report count 0 and mean severity 0 rather than
// being omitted.
func (e *TrendEngine) monthly(recs []records.AccidentRecord) []analysis.TrendPoint {
	var counts [12]int
	var sevSums [12]float64

	for _, rec := range recs {
		if rec.Month < 1 || rec.Month > 12 {
			continue
		}
		counts[rec.Month-1]++
		sevSums[rec.Month-1] += float64(rec.SeverityNumeric)
	}

	points := make([]analysis.TrendPoint, 12)
	for i := 0; i < 12; i++ {
		point := analysis.TrendPoint{
			Key:   i + 1,
			Label: records.MonthNames[i],
			Count: counts[i],
		}
		if counts[i] > 0 {
			point.MeanSeverity = sevSums[i] / float64(counts[i])
		}
		points[i] = point
	}
	return points
}

func (e *TrendEngine) yearlyPrimary(recs []records.AccidentRecord) []analysis.TrendPoint {
	counts := make(map[int]int)
	for _, rec := range recs {
		if rec.Year == 0 {
			continue
		}
		counts[rec.Year]++
	}

	points := make([]analysis.TrendPoint, 0, len(counts))
	for year, count := range counts {
		points = append(points, analysis.TrendPoint{
			Key:   year,
			Label: strconv.Itoa(year),
			Count: count,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}

func (e *TrendEngine) yearlySupplemental(recs []records.SupplementalRecord) []analysis.TrendPoint {
	type yearAgg struct {
		count      int
		sevSum     float64
		casualties int
	}
	byYear := make(map[int]*yearAgg)

	for _, rec := range recs {
		agg := byYear[rec.Year]
		if agg == nil {
			agg = &yearAgg{}
			byYear[rec.Year] = agg
		}
		agg.count++
		agg.sevSum += float64(rec.Severity)
		agg.casualties += rec.Casualties
	}

	points := make([]analysis.TrendPoint, 0, len(byYear))
	for year, agg := range byYear {
		points = append(points, analysis.TrendPoint{
			Key:             year,
			Label:           strconv.Itoa(year),
			Count:           agg.count,
			MeanSeverity:    agg.sevSum / float64(agg.count),
			TotalCasualties: agg.casualties,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}

func (e *TrendEngine) hourly(recs []records.AccidentRecord) []analysis.TrendPoint {
	counts := make(map[int]int)
	sevSums := make(map[int]float64)
	for _, rec := range recs {
		if rec.Hour < 0 || rec.Hour > 23 {
			continue
		}
		counts[rec.Hour]++
		sevSums[rec.Hour] += float64(rec.SeverityNumeric)
	}

	points := make([]analysis.TrendPoint, 0, len(counts))
	for hour, count := range counts {
		points = append(points, analysis.TrendPoint{
			Key:          hour,
			Label:        fmt.Sprintf("%02d:00", hour),
			Count:        count,
			MeanSeverity: sevSums[hour] / float64(count),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}

// weather ranks the chartable condition codes by record count, descending,
// keeping the top 10. Excluded codes never appear regardless of count.
func (e *TrendEngine) weather(recs []records.AccidentRecord) []analysis.WeatherCount {
	counts := make(map[string]int)
	var order []string

	for _, rec := range recs {
		if !records.WeatherChartable(rec.Weather) {
			continue
		}
		if _, seen := counts[rec.Weather]; !seen {
			order = append(order, rec.Weather)
		}
		counts[rec.Weather]++
	}

	ranked := make([]analysis.WeatherCount, 0, len(order))
	for _, code := range order {
		ranked = append(ranked, analysis.WeatherCount{
			Code:  code,
			Name:  records.WeatherName(code),
			Count: counts[code],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	if len(ranked) > weatherChartLimit {
		ranked = ranked[:weatherChartLimit]
	}
	return ranked
}

// weatherByYear cross-tabulates the four retained codes against the
// supplemental years, zero-filling absent combinations. The year range is
// clipped to 2010 onward and at most six consecutive years.
func (e *TrendEngine) weatherByYear(recs []records.SupplementalRecord) analysis.WeatherYearBreakdown {
	breakdown := analysis.WeatherYearBreakdown{
		Codes: append([]string(nil), records.MultiYearWeatherCodes...),
	}
	for _, code := range breakdown.Codes {
		breakdown.Names = append(breakdown.Names, records.MultiYearWeatherName(code))
	}

	minYear, maxYear := 0, 0
	for _, rec := range recs {
		if minYear == 0 || rec.Year < minYear {
			minYear = rec.Year
		}
		if rec.Year > maxYear {
			maxYear = rec.Year
		}
	}
	if minYear == 0 {
		breakdown.Counts = make([][]int, len(breakdown.Codes))
		for i := range breakdown.Counts {
			breakdown.Counts[i] = []int{}
		}
		return breakdown
	}

	start := minYear
	if start < multiYearBaseYear {
		start = multiYearBaseYear
	}
	end := maxYear
	if end > start+multiYearMaxSpan-1 {
		end = start + multiYearMaxSpan - 1
	}
	for year := start; year <= end; year++ {
		breakdown.Years = append(breakdown.Years, year)
	}

	yearIndex := make(map[int]int, len(breakdown.Years))
	for i, year := range breakdown.Years {
		yearIndex[year] = i
	}
	codeIndex := make(map[string]int, len(breakdown.Codes))
	for i, code := range breakdown.Codes {
		codeIndex[code] = i
	}

	breakdown.Counts = make([][]int, len(breakdown.Codes))
	for i := range breakdown.Counts {
		breakdown.Counts[i] = make([]int, len(breakdown.Years))
	}

	for _, rec := range recs {
		ci, okCode := codeIndex[rec.Weather]
		yi, okYear := yearIndex[rec.Year]
		if !okCode || !okYear {
			continue
		}
		breakdown.Counts[ci][yi]++
	}

	return breakdown
}
