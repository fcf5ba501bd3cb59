package tabular

// RawRowData represents a row of raw tabular data as string key-value pairs
type RawRowData map[string]string

// TableData represents a complete loaded table
type TableData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
