package support

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walkabout-eda/walkabout/internal/dataset"
)

var oneToTen = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"first quartile", oneToTen, 0.25, 3.25},
		{"median even", oneToTen, 0.5, 5.5},
		{"third quartile", oneToTen, 0.75, 7.75},
		{"min", oneToTen, 0, 1},
		{"max", oneToTen, 1, 10},
		{"unsorted input", []float64{5, 1, 3}, 0.5, 3},
		{"skips missing", []float64{math.NaN(), 4, 2, math.NaN()}, 0.5, 3},
		{"single value", []float64{7}, 0.25, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.values, tt.p), 1e-12)
		})
	}
}

func TestQuantile_Undefined(t *testing.T) {
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	assert.True(t, math.IsNaN(Quantile([]float64{math.NaN()}, 0.5)))
	assert.True(t, math.IsNaN(Quantile(oneToTen, 1.5)))
}

func TestMomentStatistics(t *testing.T) {
	assert.InDelta(t, 5.5, Mean(oneToTen), 1e-12)
	assert.InDelta(t, 82.5/9, Variance(oneToTen), 1e-12)
	assert.InDelta(t, math.Sqrt(82.5/9), Std(oneToTen), 1e-12)
	assert.InDelta(t, 5.5, Median(oneToTen), 1e-12)

	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Variance([]float64{3})), "variance needs two values")
}

func TestTrimean(t *testing.T) {
	assert.InDelta(t, 5.5, Trimean(oneToTen), 1e-12)

	// Skewed data pulls the trimean away from the median but far less than
	// the mean.
	skewed := []float64{1, 2, 3, 4, 100}
	assert.InDelta(t, (2+2*3+4)/4.0, Trimean(skewed), 1e-12)
	assert.True(t, math.IsNaN(Trimean(nil)))
}

func TestVarianceCoefficient(t *testing.T) {
	assert.InDelta(t, 5.0/3.0, VarianceCoefficient(oneToTen), 1e-12)
	assert.True(t, math.IsInf(VarianceCoefficient([]float64{-1, 1, -2, 2}), 0) ||
		math.IsNaN(VarianceCoefficient([]float64{-1, 1, -2, 2})))
}

func TestOutlierMask(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		inclusive bool
		want      []bool
	}{
		{
			name:      "clear outlier",
			values:    []float64{1, 2, 3, 4, 100},
			inclusive: true,
			want:      []bool{false, false, false, false, true},
		},
		{
			name:      "value on fence kept when inclusive",
			values:    []float64{1, 2, 3, 4, 7},
			inclusive: true,
			want:      []bool{false, false, false, false, false},
		},
		{
			name:      "value on fence flagged when exclusive",
			values:    []float64{1, 2, 3, 4, 7},
			inclusive: false,
			want:      []bool{false, false, false, false, true},
		},
		{
			name:      "missing never flagged",
			values:    []float64{1, math.NaN(), 2, 3, 4, 100},
			inclusive: true,
			want:      []bool{false, false, false, false, false, true},
		},
		{
			name:      "all missing",
			values:    []float64{math.NaN(), math.NaN()},
			inclusive: true,
			want:      []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutlierMask(tt.values, tt.inclusive))
		})
	}
}

func TestFences(t *testing.T) {
	lower, upper := Fences([]float64{1, 2, 3, 4, 7})
	assert.InDelta(t, -1, lower, 1e-12)
	assert.InDelta(t, 7, upper, 1e-12)
	assert.Equal(t, 2, CountTrue([]bool{true, false, true}))
}

func TestByColumn(t *testing.T) {
	f := dataset.MustNew(
		dataset.NewNumeric("a", oneToTen),
		dataset.NewText("label", make([]string, 10), nil),
	)

	tri := TrimeanByColumn(f)
	assert.Len(t, tri, 1)
	assert.InDelta(t, 5.5, tri["a"], 1e-12)

	vc := VarianceCoefficientByColumn(f)
	assert.InDelta(t, 5.0/3.0, vc["a"], 1e-12)
}
