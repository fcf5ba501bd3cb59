package engine

import (
	"fmt"
	"math"
	"sort"

	"crashlens/domain/analysis"
	"crashlens/domain/records"
)

const (
	// gridCellSize is the clustering resolution in degrees, about 1.1 km
	// of latitude.
	gridCellSize = 0.01
	// minClusterSize is the smallest member count that qualifies as a hot spot.
	minClusterSize = 5
	// maxHotSpots caps the ranked result.
	maxHotSpots = 50
	// areaMatchRadius bounds the supplemental-record search used for the
	// area-name fallback, per axis.
	areaMatchRadius = 0.001
)

type gridKey struct {
	x int
	y int
}

// HotSpotEngine buckets accidents into a fixed geographic grid and ranks
// the densest cells.
type HotSpotEngine struct{}

// NewHotSpotEngine creates a hot-spot clustering engine
func NewHotSpotEngine() *HotSpotEngine {
	return &HotSpotEngine{}
}

// Identify groups records by grid cell, discards cells below the minimum
// cluster size, and returns up to 50 clusters ordered by descending count.
// Ties keep discovery order.
func (e *HotSpotEngine) Identify(ds *records.Dataset) []analysis.HotSpot {
	cells := make(map[gridKey][]records.AccidentRecord)
	var order []gridKey

	for _, rec := range ds.Primary {
		if !rec.HasCoordinates() {
			continue
		}
		key := gridKey{
			x: int(math.Floor(rec.Latitude / gridCellSize)),
			y: int(math.Floor(rec.Longitude / gridCellSize)),
		}
		if _, seen := cells[key]; !seen {
			order = append(order, key)
		}
		cells[key] = append(cells[key], rec)
	}

	var spots []analysis.HotSpot
	for _, key := range order {
		members := cells[key]
		if len(members) < minClusterSize {
			continue
		}
		spots = append(spots, e.buildCluster(key, members, ds))
	}

	sort.SliceStable(spots, func(i, j int) bool {
		return spots[i].Count > spots[j].Count
	})

	if len(spots) > maxHotSpots {
		spots = spots[:maxHotSpots]
	}
	return spots
}

func (e *HotSpotEngine) buildCluster(key gridKey, members []records.AccidentRecord, ds *records.Dataset) analysis.HotSpot {
	var latSum, lonSum, sevSum, vehSum, casSum float64
	for _, m := range members {
		latSum += m.Latitude
		lonSum += m.Longitude
		sevSum += float64(m.SeverityNumeric)
		vehSum += float64(m.Vehicles)
		casSum += float64(m.Casualties)
	}
	n := float64(len(members))

	spot := analysis.HotSpot{
		CellX:          key.x,
		CellY:          key.y,
		Count:          len(members),
		Latitude:       latSum / n,
		Longitude:      lonSum / n,
		MeanSeverity:   sevSum / n,
		MeanVehicles:   vehSum / n,
		MeanCasualties: casSum / n,
		Records:        members,
	}
	spot.AreaName = e.resolveAreaName(members[0], ds)
	return spot
}

// resolveAreaName walks the lookup fallback chain: the sample member's own
// area code, then any supplemental record within areaMatchRadius of the
// sample, then a formatted coordinate string.
func (e *HotSpotEngine) resolveAreaName(sample records.AccidentRecord, ds *records.Dataset) string {
	if sample.AreaCode != "" {
		if name, ok := ds.Authorities.Name(sample.AreaCode); ok {
			return name
		}
	}

	for _, sup := range ds.Supplemental {
		if sup.AreaCode == "" || !sup.HasCoordinates() {
			continue
		}
		if math.Abs(sup.Latitude-sample.Latitude) <= areaMatchRadius &&
			math.Abs(sup.Longitude-sample.Longitude) <= areaMatchRadius {
			if name, ok := ds.Authorities.Name(sup.AreaCode); ok {
				return name
			}
		}
	}

	return fmt.Sprintf("%.3f, %.3f", sample.Latitude, sample.Longitude)
}
