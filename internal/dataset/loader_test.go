package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashlens/adapters/tabular"
)

func primaryTable(rows ...tabular.RawRowData) *tabular.TableData {
	return &tabular.TableData{
		Headers: []string{"Latitude", "Longitude", "SeverityNumeric", "Severity", "Year", "Month", "Hour"},
		Rows:    rows,
	}
}

func TestLoadPrimaryParsesTypedFields(t *testing.T) {
	table := primaryTable(tabular.RawRowData{
		"Latitude":           "51.5074",
		"Longitude":          "-0.1278",
		"SeverityNumeric":    "2",
		"Severity":           "Serious",
		"Year":               "2014",
		"Month":              "3",
		"Hour":               "8",
		"NumberOfVehicles":   "2",
		"NumberOfCasualties": "1",
		"SpeedLimit":         "30",
		"CasualtyRate":       "0.5",
		"RushHour":           "True",
		"Weekend":            "True",
		"Weather":            "1",
		"Region":             "London",
	})

	recs := LoadPrimary(table)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.InDelta(t, 51.5074, rec.Latitude, 1e-9)
	assert.InDelta(t, -0.1278, rec.Longitude, 1e-9)
	assert.Equal(t, 2, rec.SeverityNumeric)
	assert.Equal(t, "Serious", rec.Severity)
	assert.Equal(t, 2014, rec.Year)
	assert.Equal(t, 3, rec.Month)
	assert.Equal(t, 8, rec.Hour)
	assert.Equal(t, 2, rec.Vehicles)
	assert.Equal(t, 1, rec.Casualties)
	assert.InDelta(t, 30.0, rec.SpeedLimit, 1e-9)
	assert.InDelta(t, 0.5, rec.CasualtyRate, 1e-9)
	assert.True(t, rec.RushHour)
	assert.True(t, rec.Weekend)
	assert.Equal(t, "1", rec.Weather)
	assert.Equal(t, "London", rec.Region)
}

func TestLoadPrimaryFallbacks(t *testing.T) {
	table := primaryTable(tabular.RawRowData{
		"Latitude":           "not-a-number",
		"Longitude":          "",
		"SeverityNumeric":    "garbage",
		"Severity":           "Slight",
		"Hour":               "",
		"NumberOfVehicles":   "x",
		"NumberOfCasualties": "",
		"CasualtyRate":       "bad",
	})

	recs := LoadPrimary(table)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.True(t, math.IsNaN(rec.Latitude))
	assert.True(t, math.IsNaN(rec.Longitude))
	assert.False(t, rec.HasCoordinates())
	assert.Equal(t, 0, rec.Vehicles)
	assert.Equal(t, 0, rec.Casualties)
	assert.Equal(t, -1, rec.Hour)
	assert.True(t, math.IsNaN(rec.CasualtyRate))

	// Unparseable severity numeric forces the label to Unknown even when
	// the raw label column carried a value.
	assert.Equal(t, 0, rec.SeverityNumeric)
	assert.Equal(t, "Unknown", rec.Severity)
}

func TestLoadPrimaryBooleanLiteralIsExact(t *testing.T) {
	for raw, want := range map[string]bool{
		"True":  true,
		"true":  false,
		"TRUE":  false,
		"1":     false,
		"False": false,
		"":      false,
	} {
		recs := LoadPrimary(primaryTable(tabular.RawRowData{"Urban": raw}))
		require.Len(t, recs, 1)
		assert.Equalf(t, want, recs[0].Urban, "raw value %q", raw)
	}
}

func supplementalRow(date, timeOfDay string) tabular.RawRowData {
	return tabular.RawRowData{
		"Date":                      date,
		"Time":                      timeOfDay,
		"Latitude":                  "51.5",
		"Longitude":                 "-0.1",
		"Accident_Severity":         "2",
		"Number_of_Vehicles":        "2",
		"Number_of_Casualties":      "1",
		"Speed_limit":               "30",
		"Weather_Conditions":        "1",
		"Local_Authority_(Highway)": "E10000002",
	}
}

func TestLoadSupplementalDateAndTimeDecomposition(t *testing.T) {
	table := &tabular.TableData{Rows: []tabular.RawRowData{supplementalRow("15/06/2012", "08:30")}}

	recs := LoadSupplemental(table)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, 15, rec.Day)
	assert.Equal(t, 6, rec.Month)
	assert.Equal(t, 2012, rec.Year)
	assert.Equal(t, 8, rec.Hour)
	assert.Equal(t, 2, rec.Severity)
	assert.Equal(t, "E10000002", rec.AreaCode)
}

func TestLoadSupplementalMissingTimeYieldsSentinelHour(t *testing.T) {
	table := &tabular.TableData{Rows: []tabular.RawRowData{supplementalRow("15/06/2012", "")}}

	recs := LoadSupplemental(table)
	require.Len(t, recs, 1)
	assert.Equal(t, -1, recs[0].Hour)
}

func TestLoadSupplementalDropsBadDatesAndOutOfRangeYears(t *testing.T) {
	table := &tabular.TableData{Rows: []tabular.RawRowData{
		supplementalRow("2012-06-15", "08:30"), // wrong separator, date voided
		supplementalRow("15/06", "08:30"),      // two parts only
		supplementalRow("15/06/2009", "08:30"), // before 2010
		supplementalRow("15/06/2016", "08:30"), // after 2015
		supplementalRow("01/01/2010", "00:00"), // inclusive lower bound
		supplementalRow("31/12/2015", "23:59"), // inclusive upper bound
	}}

	recs := LoadSupplemental(table)
	require.Len(t, recs, 2)
	assert.Equal(t, 2010, recs[0].Year)
	assert.Equal(t, 2015, recs[1].Year)
}

func TestLoadAuthoritiesLastWriteWins(t *testing.T) {
	table := &tabular.TableData{Rows: []tabular.RawRowData{
		{"Code": "E10000002", "Label": "Buckinghamshire"},
		{"Code": "E10000003", "Label": "Cambridgeshire"},
		{"Code": "E10000002", "Label": "Buckinghamshire (revised)"},
		{"Code": "", "Label": "ignored"},
	}}

	m := LoadAuthorities(table)
	assert.Equal(t, 2, m.Len())

	name, ok := m.Name("E10000002")
	require.True(t, ok)
	assert.Equal(t, "Buckinghamshire (revised)", name)

	_, ok = m.Name("unknown-code")
	assert.False(t, ok)
}
