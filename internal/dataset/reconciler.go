package dataset

import (
	"math"

	"crashlens/domain/records"
	"crashlens/internal"
)

// coordKey is a 3-decimal-degree grid key, roughly 100m at UK latitudes.
type coordKey struct {
	lat float64
	lon float64
}

func roundCoord(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func keyFor(lat, lon float64) coordKey {
	return coordKey{lat: roundCoord(lat), lon: roundCoord(lon)}
}

// buildSeverityIndex indexes supplemental severities by rounded coordinate.
// Only records carrying severity and both coordinates participate; on a key
// collision the first-seen record wins and is never overwritten.
func buildSeverityIndex(supplemental []records.SupplementalRecord) map[coordKey]int {
	index := make(map[coordKey]int)
	for _, rec := range supplemental {
		if rec.Severity == records.SeverityUnknown || !rec.HasCoordinates() {
			continue
		}
		key := keyFor(rec.Latitude, rec.Longitude)
		if _, seen := index[key]; seen {
			continue
		}
		index[key] = rec.Severity
	}
	return index
}

// ReconcileSeverity backfills missing primary severities by spatial lookup
// against the supplemental set. A record with a valid severity is never
// touched, so running the reconciler again changes nothing. Returns the
// number of records filled.
func ReconcileSeverity(primary []records.AccidentRecord, supplemental []records.SupplementalRecord) int {
	index := buildSeverityIndex(supplemental)
	if len(index) == 0 {
		return 0
	}

	filled := 0
	for i := range primary {
		rec := &primary[i]
		if rec.SeverityNumeric != records.SeverityUnknown && rec.Severity != "Unknown" {
			continue
		}
		if !rec.HasCoordinates() {
			continue
		}

		severity, ok := index[keyFor(rec.Latitude, rec.Longitude)]
		if !ok {
			continue
		}

		// An unmapped code still adopts the numeric value; only the label
		// falls back to "Unknown".
		rec.SeverityNumeric = severity
		rec.Severity = records.SeverityLabel(severity)
		filled++
	}

	internal.DefaultLogger.Info("[Reconciler] severity backfilled for %d of %d primary records", filled, len(primary))
	return filled
}
