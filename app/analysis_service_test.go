package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashlens/adapters/tabular"
	"crashlens/domain/analysis"
	apperrors "crashlens/internal/errors"
	"crashlens/internal/observability"
)

// memSource serves an in-memory table, or fails when err is set.
type memSource struct {
	table *tabular.TableData
	err   error
}

func (s *memSource) ReadData() (*tabular.TableData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

// captureRepo records saved run summaries.
type captureRepo struct {
	saved []analysis.RunSummary
}

func (r *captureRepo) SaveRun(ctx context.Context, summary analysis.RunSummary) error {
	r.saved = append(r.saved, summary)
	return nil
}

func (r *captureRepo) ListRuns(ctx context.Context, limit int) ([]analysis.RunSummary, error) {
	return r.saved, nil
}

func primarySource() *memSource {
	rows := []tabular.RawRowData{
		{
			"Latitude": "51.500", "Longitude": "-0.100",
			"SeverityNumeric": "0", "Severity": "Unknown",
			"Year": "2014", "Month": "1", "Hour": "8",
			"NumberOfVehicles": "2", "NumberOfCasualties": "1",
			"SpeedLimit": "30", "Weather": "1", "Region": "London",
		},
		{
			"Latitude": "51.600", "Longitude": "-0.200",
			"SeverityNumeric": "3", "Severity": "Slight",
			"Year": "2014", "Month": "6", "Hour": "17",
			"NumberOfVehicles": "1", "NumberOfCasualties": "0",
			"SpeedLimit": "60", "Weather": "2", "Region": "London",
		},
	}
	return &memSource{table: &tabular.TableData{Rows: rows}}
}

func supplementalSource() *memSource {
	rows := []tabular.RawRowData{
		{
			"Date": "15/06/2012", "Time": "08:30",
			"Latitude": "51.500", "Longitude": "-0.100",
			"Accident_Severity": "2", "Weather_Conditions": "1",
			"Number_of_Vehicles": "2", "Number_of_Casualties": "1",
			"Local_Authority_(Highway)": "E10000002",
		},
	}
	return &memSource{table: &tabular.TableData{Rows: rows}}
}

func authoritySource() *memSource {
	rows := []tabular.RawRowData{
		{"Code": "E10000002", "Label": "Buckinghamshire"},
	}
	return &memSource{table: &tabular.TableData{Rows: rows}}
}

func TestRunProducesCompleteReport(t *testing.T) {
	repo := &captureRepo{}
	service := NewAnalysisService(
		primarySource(), supplementalSource(), authoritySource(),
		observability.NewMetricsForTesting(), repo,
	)

	rep, err := service.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, rep.RunID.IsEmpty())
	assert.False(t, rep.GeneratedAt.IsZero())
	assert.Len(t, rep.Trends.Monthly, 12)
	assert.Equal(t, 2, rep.Descriptive.Counts.TotalRecords)
	assert.Len(t, rep.Correlation.Matrix.Fields, 6)

	// The run footprint was persisted with the reconciliation count.
	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, rep.RunID, saved.RunID)
	assert.Equal(t, 2, saved.PrimaryCount)
	assert.Equal(t, 1, saved.SupplementalCount)
	assert.Equal(t, 1, saved.ReconciledCount)
	assert.NotEmpty(t, saved.ReportMarkdown)
}

func TestRunReconcilesSeverityThroughThePipeline(t *testing.T) {
	service := NewAnalysisService(
		primarySource(), supplementalSource(), authoritySource(),
		observability.NewMetricsForTesting(), nil,
	)

	rep, err := service.Run(context.Background())
	require.NoError(t, err)

	// The first primary record started unknown and matches the supplemental
	// record at (51.500, -0.100) carrying severity 2.
	counts := rep.Descriptive.Counts
	assert.Equal(t, 2, counts.DistinctSeverities) // Serious and Slight, no Unknown left
}

func TestRunFailsFastWhenSourceUnavailable(t *testing.T) {
	boom := errors.New("disk gone")
	service := NewAnalysisService(
		&memSource{err: boom}, supplementalSource(), authoritySource(),
		observability.NewMetricsForTesting(), nil,
	)

	rep, err := service.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, rep)
	assert.Equal(t, apperrors.CodeSourceUnavailable, apperrors.GetCode(err))
	assert.ErrorIs(t, err, boom)
}

func TestRunFailsFastWhenSupplementalUnavailable(t *testing.T) {
	service := NewAnalysisService(
		primarySource(), &memSource{err: errors.New("nope")}, authoritySource(),
		observability.NewMetricsForTesting(), nil,
	)

	_, err := service.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSourceUnavailable, apperrors.GetCode(err))
}
