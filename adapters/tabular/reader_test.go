package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDataParsesCSV(t *testing.T) {
	path := writeCSV(t, "Latitude, Longitude ,Severity\n51.5,-0.1,2\n 51.6 ,-0.2,3\n")

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"Latitude", "Longitude", "Severity"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "51.5", data.Rows[0]["Latitude"])
	assert.Equal(t, "51.6", data.Rows[1]["Latitude"]) // cells are trimmed
	assert.Equal(t, "3", data.Rows[1]["Severity"])
}

func TestReadDataToleratesShortRows(t *testing.T) {
	path := writeCSV(t, "A,B,C\n1,2\n")

	data, err := NewDataReader(path).ReadData()
	require.NoError(t, err)

	require.Len(t, data.Rows, 1)
	assert.Equal(t, "2", data.Rows[0]["B"])
	_, present := data.Rows[0]["C"]
	assert.False(t, present)
}

func TestReadDataRequiresHeaderAndOneRow(t *testing.T) {
	path := writeCSV(t, "A,B,C\n")

	_, err := NewDataReader(path).ReadData()
	assert.Error(t, err)
}

func TestReadDataMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv")).ReadData()
	assert.Error(t, err)
}

func TestNewDataReaderDetectsFileType(t *testing.T) {
	assert.Equal(t, "csv", NewDataReader("records.CSV").fileType)
	assert.Equal(t, "xlsx", NewDataReader("records.xlsx").fileType)
	assert.Equal(t, "xlsx", NewDataReader("records").fileType)
}
