package dataset

import (
	"math"
	"strconv"
	"strings"

	"crashlens/adapters/tabular"
	"crashlens/domain/records"
	"crashlens/internal"
)

// Supplemental records outside this year range are dropped at load time;
// the set exists only for multi-year trends and severity backfill.
const (
	supplementalMinYear = 2010
	supplementalMaxYear = 2015
)

// LoadPrimary parses the primary accident table into typed records.
// Every row survives: per-cell parse failures fall back to the documented
// defaults instead of rejecting the record.
func LoadPrimary(table *tabular.TableData) []records.AccidentRecord {
	out := make([]records.AccidentRecord, 0, len(table.Rows))

	for _, row := range table.Rows {
		rec := records.AccidentRecord{
			Latitude:  parseFloatOr(row["Latitude"], math.NaN()),
			Longitude: parseFloatOr(row["Longitude"], math.NaN()),

			Year:  parseIntOr(row["Year"], 0),
			Month: parseIntOr(row["Month"], 0),
			Hour:  parseIntOr(row["Hour"], -1),

			SeverityNumeric: parseIntOr(row["SeverityNumeric"], 0),

			Vehicles:     parseIntOr(row["NumberOfVehicles"], 0),
			Casualties:   parseIntOr(row["NumberOfCasualties"], 0),
			SpeedLimit:   parseFloatOr(row["SpeedLimit"], 0),
			CasualtyRate: parseFloatOr(row["CasualtyRate"], math.NaN()),

			RushHour:      parseBool(row["RushHour"]),
			Weekend:       parseBool(row["Weekend"]),
			Urban:         parseBool(row["Urban"]),
			Rain:          parseBool(row["Rain"]),
			Snow:          parseBool(row["Snow"]),
			Fog:           parseBool(row["Fog"]),
			Clear:         parseBool(row["Clear"]),
			Fatal:         parseBool(row["Fatal"]),
			Serious:       parseBool(row["Serious"]),
			MultiVehicle:  parseBool(row["MultiVehicle"]),
			HasCasualties: parseBool(row["HasCasualties"]),

			Weather:  row["Weather"],
			Region:   row["Region"],
			AreaCode: row["LocalAuthority"],
			Date:     row["Date"],
		}

		// Label must read "Unknown" exactly while the numeric code is 0,
		// so the reconciler can recognize unresolved rows later.
		if rec.SeverityNumeric == records.SeverityUnknown {
			rec.Severity = "Unknown"
		} else if label := row["Severity"]; label != "" {
			rec.Severity = label
		} else {
			rec.Severity = records.SeverityLabel(rec.SeverityNumeric)
		}

		out = append(out, rec)
	}

	internal.DefaultLogger.Info("[Loader] primary table parsed: %d records", len(out))
	return out
}

// LoadSupplemental parses the secondary accident table. The Date column is
// "DD/MM/YYYY"; a split that does not yield exactly 3 parts voids the date
// and, since the year is then missing, drops the record. Records with a year
// outside [2010, 2015] are dropped as well.
func LoadSupplemental(table *tabular.TableData) []records.SupplementalRecord {
	out := make([]records.SupplementalRecord, 0, len(table.Rows))
	dropped := 0

	for _, row := range table.Rows {
		day, month, year := parseSlashDate(row["Date"])
		if year < supplementalMinYear || year > supplementalMaxYear {
			dropped++
			continue
		}

		rec := records.SupplementalRecord{
			Latitude:  parseFloatOr(row["Latitude"], math.NaN()),
			Longitude: parseFloatOr(row["Longitude"], math.NaN()),

			Day:   day,
			Month: month,
			Year:  year,
			Hour:  parseClockHour(row["Time"]),

			Severity:   parseIntOr(row["Accident_Severity"], 0),
			Weather:    row["Weather_Conditions"],
			Vehicles:   parseIntOr(row["Number_of_Vehicles"], 0),
			Casualties: parseIntOr(row["Number_of_Casualties"], 0),
			SpeedLimit: parseFloatOr(row["Speed_limit"], 0),
			AreaCode:   row["Local_Authority_(Highway)"],
		}

		out = append(out, rec)
	}

	internal.DefaultLogger.Info("[Loader] supplemental table parsed: %d records kept, %d outside %d-%d dropped",
		len(out), dropped, supplementalMinYear, supplementalMaxYear)
	return out
}

// LoadAuthorities builds the code-to-name map from the two-column reference
// table. A duplicate code overwrites the earlier entry.
func LoadAuthorities(table *tabular.TableData) *records.AuthorityMap {
	m := records.NewAuthorityMap()
	for _, row := range table.Rows {
		code := row["Code"]
		if code == "" {
			continue
		}
		m.Set(code, row["Label"])
	}
	internal.DefaultLogger.Info("[Loader] authority table parsed: %d codes", m.Len())
	return m
}

// parseSlashDate splits a "DD/MM/YYYY" value. Anything but exactly three
// parts, or a part that is not an integer, voids the whole date.
func parseSlashDate(raw string) (day, month, year int) {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return 0, 0, 0
	}
	d, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return 0, 0, 0
	}
	return d, m, y
}

// parseClockHour extracts the hour from an "HH:MM" value, -1 when absent.
func parseClockHour(raw string) int {
	if raw == "" {
		return -1
	}
	first := strings.Split(raw, ":")[0]
	return parseIntOr(first, -1)
}

func parseFloatOr(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseIntOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

// parseBool follows the source convention: a flag is set iff the cell is
// the literal string "True". "true", "TRUE" and everything else are false.
func parseBool(raw string) bool {
	return raw == "True"
}
