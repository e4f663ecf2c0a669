package buffer

import "math"

// Stats is a streaming set of statistical properties of a set of numbers.
// It aggregates per-fold cross-validation metrics without keeping the folds.
type Stats struct {
	count          int
	sum            float64
	min, max       float64
	mean, dSquared float64
}

// NewStats creates a new Stats.
func NewStats() *Stats {
	return &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}
}

// Push adds another element to the set.
func (s *Stats) Push(v float64) {
	s.count++
	s.sum += v
	diff := (v - s.mean) / float64(s.count)
	mean := s.mean + diff
	squaredDiff := (v - mean) * (v - s.mean)
	s.dSquared += squaredDiff
	s.mean = mean

	if s.min > v {
		s.min = v
	}
	if s.max < v {
		s.max = v
	}
}

// Count returns the number of elements pushed.
func (s *Stats) Count() int {
	return s.count
}

// Avg returns the mean of the pushed elements.
func (s *Stats) Avg() float64 {
	return s.mean
}

// Sum returns the sum of the pushed elements.
func (s *Stats) Sum() float64 {
	return s.sum
}

// Variance returns the population variance.
func (s *Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}
	return s.dSquared / float64(s.count)
}

// StDev returns the population standard deviation.
func (s *Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// Range returns the min and max of the pushed elements.
func (s *Stats) Range() (float64, float64) {
	return s.min, s.max
}
