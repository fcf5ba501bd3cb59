package engine

import (
	"math"

	"crashlens/domain/analysis"
	"crashlens/domain/records"
)

// correlationFields is the fixed ordered field list indexing the matrix.
var correlationFields = []string{
	records.FieldSeverity,
	records.FieldVehicles,
	records.FieldCasualties,
	records.FieldSpeedLimit,
	records.FieldHour,
	records.FieldCasualtyRate,
}

// keyCorrelationFloor is the minimum |coefficient| worth reporting.
const keyCorrelationFloor = 0.3

// CorrelationEngine computes a symmetric Pearson correlation matrix over
// the fixed numeric field set.
type CorrelationEngine struct{}

// NewCorrelationEngine creates a correlation engine
func NewCorrelationEngine() *CorrelationEngine {
	return &CorrelationEngine{}
}

// Compute builds the full matrix, every ordered pair included. Each field's
// column is filtered for NaN independently; when the two filtered columns
// differ in length the entry is 0 rather than aligned by record. That is a
// deliberate conservative fallback carried over from the source behavior,
// not a computed zero correlation.
func (e *CorrelationEngine) Compute(ds *records.Dataset) analysis.CorrelationReport {
	columns := make([][]float64, len(correlationFields))
	for i, field := range correlationFields {
		columns[i] = collectField(ds.Primary, field, nil)
	}

	matrix := analysis.Matrix{
		Fields: append([]string(nil), correlationFields...),
		Values: make([][]float64, len(correlationFields)),
	}
	for i := range correlationFields {
		matrix.Values[i] = make([]float64, len(correlationFields))
		for j := range correlationFields {
			matrix.Values[i][j] = pearson(columns[i], columns[j])
		}
	}

	return analysis.CorrelationReport{
		Matrix: matrix,
		Key:    keyCorrelations(matrix),
	}
}

// pearson computes the Pearson coefficient: the sum of cross-deviation
// products over the root of the product of each column's squared-deviation
// sum. Empty columns, mismatched lengths, and zero variance all yield 0.
func pearson(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}

	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var cross, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cross += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return 0
	}
	return cross / denom
}

// keyCorrelations reports each off-diagonal pair once, strongest label wins.
func keyCorrelations(matrix analysis.Matrix) []analysis.KeyCorrelation {
	var key []analysis.KeyCorrelation
	for i := 0; i < len(matrix.Fields); i++ {
		for j := i + 1; j < len(matrix.Fields); j++ {
			r := matrix.At(i, j)
			if math.Abs(r) <= keyCorrelationFloor {
				continue
			}
			key = append(key, analysis.KeyCorrelation{
				FieldA:      matrix.Fields[i],
				FieldB:      matrix.Fields[j],
				Coefficient: r,
				Strength:    strengthLabel(r),
			})
		}
	}
	return key
}

func strengthLabel(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs > 0.7:
		return "Strong"
	case abs > 0.5:
		return "Moderate"
	default:
		return "Weak"
	}
}
