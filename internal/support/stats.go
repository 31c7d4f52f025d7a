// Package support provides the supporting functions for exploratory data
// analysis: robust centre and spread measures, IQR outlier detection, and
// the cleaning helpers applied to a frame before it is profiled.
//
// All statistics skip missing (NaN) values. A statistic with too few
// values to be defined is NaN.
package support

import (
	"math"
	"sort"

	"github.com/walkabout-eda/walkabout/internal/dataset"
)

// OutlierFactor is the IQR multiplier for the outlier fences.
const OutlierFactor = 1.5

// present returns the non-missing values, sorted ascending.
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// Quantile returns the p-quantile of values, interpolating linearly between
// the two closest ranks.
func Quantile(values []float64, p float64) float64 {
	return quantileSorted(present(values), p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Quartiles returns the first quartile, median and third quartile.
func Quartiles(values []float64) (q1, q2, q3 float64) {
	sorted := present(values)
	return quantileSorted(sorted, 0.25), quantileSorted(sorted, 0.5), quantileSorted(sorted, 0.75)
}

// Median returns the 0.5 quantile.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Mean returns the arithmetic mean.
func Mean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Variance returns the sample variance (n-1 denominator).
func Variance(values []float64) float64 {
	mean := Mean(values)
	ss, n := 0.0, 0
	for _, v := range values {
		if !math.IsNaN(v) {
			d := v - mean
			ss += d * d
			n++
		}
	}
	if n < 2 {
		return math.NaN()
	}
	return ss / float64(n-1)
}

// Std returns the sample standard deviation.
func Std(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Trimean is a measure of the centre that combines the median's emphasis on
// centre values with the midhinge's attention to the extremes:
// (q1 + 2*median + q3) / 4.
func Trimean(values []float64) float64 {
	q1, q2, q3 := Quartiles(values)
	return (q1 + 2*q2 + q3) / 4
}

// VarianceCoefficient returns the variance divided by the mean. A zero mean
// yields an infinite or NaN result.
func VarianceCoefficient(values []float64) float64 {
	return Variance(values) / Mean(values)
}

// Fences returns the lower and upper IQR outlier fences,
// q1 - 1.5*iqr and q3 + 1.5*iqr.
func Fences(values []float64) (lower, upper float64) {
	q1, _, q3 := Quartiles(values)
	iqr := q3 - q1
	return q1 - OutlierFactor*iqr, q3 + OutlierFactor*iqr
}

// OutlierMask flags the values outside the IQR fences. With inclusive set,
// values lying exactly on a fence are kept; otherwise they count as
// outliers. Missing values are never flagged.
func OutlierMask(values []float64, inclusive bool) []bool {
	mask := make([]bool, len(values))
	lower, upper := Fences(values)
	if math.IsNaN(lower) {
		return mask
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if inclusive {
			mask[i] = v < lower || v > upper
		} else {
			mask[i] = v <= lower || v >= upper
		}
	}
	return mask
}

// CountTrue returns the number of set entries in a mask.
func CountTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}

// TrimeanByColumn returns the trimean of every numeric column.
func TrimeanByColumn(f *dataset.Frame) map[string]float64 {
	return byColumn(f, Trimean)
}

// VarianceCoefficientByColumn returns the variance coefficient of every
// numeric column.
func VarianceCoefficientByColumn(f *dataset.Frame) map[string]float64 {
	return byColumn(f, VarianceCoefficient)
}

func byColumn(f *dataset.Frame, stat func([]float64) float64) map[string]float64 {
	out := make(map[string]float64)
	for _, col := range f.Numeric() {
		out[col.Name] = stat(col.Num)
	}
	return out
}
