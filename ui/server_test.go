package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashlens/adapters/tabular"
	"crashlens/app"
	"crashlens/domain/analysis"
	"crashlens/internal/observability"
)

type memSource struct {
	table *tabular.TableData
}

func (s *memSource) ReadData() (*tabular.TableData, error) {
	return s.table, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()

	primary := &memSource{table: &tabular.TableData{Rows: []tabular.RawRowData{
		{
			"Latitude": "51.500", "Longitude": "-0.100",
			"SeverityNumeric": "2", "Severity": "Serious",
			"Year": "2014", "Month": "1", "Hour": "8",
			"NumberOfVehicles": "2", "NumberOfCasualties": "1",
			"Weather": "1", "Region": "London",
		},
	}}}
	supplemental := &memSource{table: &tabular.TableData{Rows: []tabular.RawRowData{
		{
			"Date": "15/06/2012", "Time": "08:30",
			"Latitude": "51.500", "Longitude": "-0.100",
			"Accident_Severity": "2", "Weather_Conditions": "1",
		},
	}}}
	authority := &memSource{table: &tabular.TableData{Rows: []tabular.RawRowData{
		{"Code": "E10000002", "Label": "Buckinghamshire"},
	}}}

	service := app.NewAnalysisService(primary, supplemental, authority,
		observability.NewMetricsForTesting(), nil)

	server := NewServer(service, nil, Config{})
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	require.NoError(t, server.Refresh(req))
	return server
}

func TestTrendEndpointServesSeries(t *testing.T) {
	server := testServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trends", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var trends analysis.TrendReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trends))
	assert.Len(t, trends.Monthly, 12)
	assert.Equal(t, 1, trends.Monthly[0].Count)
}

func TestSummaryEndpoint(t *testing.T) {
	server := testServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var counts analysis.SummaryCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts.TotalRecords)
}

func TestInsightsPageRendersHTML(t *testing.T) {
	server := testServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Overview")
}

func TestEndpointsUnavailableBeforeFirstRun(t *testing.T) {
	service := app.NewAnalysisService(
		&memSource{table: &tabular.TableData{Rows: []tabular.RawRowData{{}}}},
		&memSource{table: &tabular.TableData{Rows: []tabular.RawRowData{{}}}},
		&memSource{table: &tabular.TableData{Rows: []tabular.RawRowData{{}}}},
		observability.NewMetricsForTesting(), nil)
	server := NewServer(service, nil, Config{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hotspots", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunsEndpointWithoutRepository(t *testing.T) {
	server := testServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
