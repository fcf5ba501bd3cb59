// Package report turns an analysis report into a markdown insights summary
// for the dashboard's overview page and the persisted run history.
package report

import (
	"fmt"
	"strings"

	"crashlens/domain/analysis"
)

const topHotSpotCount = 10

// Generate renders the report as markdown.
func Generate(rep *analysis.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Accident Analysis %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Run `%s` over %d records (%d regions).\n\n",
		rep.RunID, rep.Descriptive.Counts.TotalRecords, rep.Descriptive.Counts.DistinctRegions)

	writeCounts(&b, rep.Descriptive.Counts)
	writeHotSpots(&b, rep.HotSpots)
	writeCorrelations(&b, rep.Correlation.Key)
	writeTrends(&b, rep.Trends)

	return b.String()
}

func writeCounts(b *strings.Builder, c analysis.SummaryCounts) {
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(b, "- Fatal accidents: %d\n", c.Fatal)
	fmt.Fprintf(b, "- Serious accidents: %d\n", c.Serious)
	fmt.Fprintf(b, "- Multi-vehicle: %d\n", c.MultiVehicle)
	fmt.Fprintf(b, "- Rush hour: %d, weekend: %d, urban: %d\n\n", c.RushHour, c.Weekend, c.Urban)
}

func writeHotSpots(b *strings.Builder, spots []analysis.HotSpot) {
	b.WriteString("## Hot Spots\n\n")
	if len(spots) == 0 {
		b.WriteString("No clusters reached the minimum size.\n\n")
		return
	}

	limit := len(spots)
	if limit > topHotSpotCount {
		limit = topHotSpotCount
	}
	b.WriteString("| # | Area | Accidents | Mean Severity |\n")
	b.WriteString("|---|------|-----------|---------------|\n")
	for i := 0; i < limit; i++ {
		s := spots[i]
		fmt.Fprintf(b, "| %d | %s | %d | %.2f |\n", i+1, s.AreaName, s.Count, s.MeanSeverity)
	}
	b.WriteString("\n")
}

func writeCorrelations(b *strings.Builder, key []analysis.KeyCorrelation) {
	b.WriteString("## Key Correlations\n\n")
	if len(key) == 0 {
		b.WriteString("No pair exceeded the reporting threshold.\n\n")
		return
	}
	for _, k := range key {
		fmt.Fprintf(b, "- **%s** vs **%s**: %.3f (%s)\n", k.FieldA, k.FieldB, k.Coefficient, k.Strength)
	}
	b.WriteString("\n")
}

func writeTrends(b *strings.Builder, t analysis.TrendReport) {
	b.WriteString("## Trends\n\n")

	if peak, ok := peakPoint(t.Monthly); ok {
		fmt.Fprintf(b, "- Busiest month: %s (%d accidents)\n", peak.Label, peak.Count)
	}
	if peak, ok := peakPoint(t.Hourly); ok {
		fmt.Fprintf(b, "- Busiest hour: %s (%d accidents)\n", peak.Label, peak.Count)
	}
	if len(t.Weather) > 0 {
		fmt.Fprintf(b, "- Leading weather condition: %s (%d accidents)\n", t.Weather[0].Name, t.Weather[0].Count)
	}
	b.WriteString("\n")
}

func peakPoint(points []analysis.TrendPoint) (analysis.TrendPoint, bool) {
	var peak analysis.TrendPoint
	found := false
	for _, p := range points {
		if p.Count > 0 && (!found || p.Count > peak.Count) {
			peak = p
			found = true
		}
	}
	return peak, found
}
