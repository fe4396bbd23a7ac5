// File: internal/simulation/stats_test.go
package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.5, Mean([]float64{1, 2, 3, 4}))
	assert.Equal(t, -1.0, Mean([]float64{-1}))
}

// TestSampleStdDev pins the Bessel-corrected (n-1) convention the rest of
// the module reports.
func TestSampleStdDev(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, SampleStdDev(nil))
	assert.Equal(t, 0.0, SampleStdDev([]float64{3.14}), "a single subject has no spread")

	// Variance of {1,2,3,4} about mean 2.5 is 5/3 with the n-1 divisor.
	assert.InDelta(t, math.Sqrt(5.0/3.0), SampleStdDev([]float64{1, 2, 3, 4}), 1e-12)

	assert.Equal(t, 0.0, SampleStdDev([]float64{2, 2, 2}))
}
