package math

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// DoseFloor is the smallest dose fed into families that are undefined at zero,
// e.g. power and logarithm terms.
const DoseFloor = 1e-10

// Format formats a float for reporting.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// Clamp boxes v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampAll boxes every parameter into its bounds in place and returns the slice.
func ClampAll(vv []float64, lo, hi []float64) []float64 {
	for i := range vv {
		vv[i] = Clamp(vv[i], lo[i], hi[i])
	}
	return vv
}

// FloorDose guards doses against the zero singularity.
func FloorDose(d float64) float64 {
	if d < DoseFloor {
		return DoseFloor
	}
	return d
}

// Median returns the median of the values without mutating the input.
func Median(vv []float64) float64 {
	if len(vv) == 0 {
		return math.NaN()
	}
	cp := append([]float64{}, vv...)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return 0.5 * (cp[n/2-1] + cp[n/2])
}

// MinMax returns the smallest and largest value.
func MinMax(vv []float64) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range vv {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Percentile returns the empirical q-quantile (q in 0..1) by linear interpolation.
func Percentile(vv []float64, q float64) float64 {
	if len(vv) == 0 {
		return math.NaN()
	}
	cp := append([]float64{}, vv...)
	sort.Float64s(cp)
	if q <= 0 {
		return cp[0]
	}
	if q >= 1 {
		return cp[len(cp)-1]
	}
	return stat.Quantile(q, stat.LinInterp, cp, nil)
}
