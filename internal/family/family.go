// Package family defines the closed set of candidate dose-response curves.
// Each family exposes its parameter names, box bounds, a pure prediction
// function and the initial-guess strategies that seed multi-start fitting.
package family

import (
	"math"

	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/model"
)

// Family is one candidate response curve.
type Family interface {
	// Type returns the identity tag of the family.
	Type() model.ModelType
	// Params returns the ordered parameter names.
	Params() []string
	// Bounds returns the per-parameter box constraints, aligned with Params.
	Bounds() (lo, hi []float64)
	// Predict evaluates the curve at a single dose.
	// It must be defined for all doses >= 0.
	Predict(dose float64, params []float64) float64
	// DefaultGuess returns a parameter vector within bounds.
	DefaultGuess() []float64
	// DataGuesses returns additional physically motivated guesses derived
	// from the observations. May be empty.
	DataGuesses(doses, responses []float64) [][]float64
}

// Registry returns all candidate families in ranking order.
func Registry() []Family {
	return []Family{
		linear{},
		quadratic{},
		exponential{},
		logistic{},
		logLogistic{},
		probit{},
		hill{},
		piecewise{},
		weibull{},
		gompertz{},
	}
}

// Lookup returns the family with the given type tag.
func Lookup(t model.ModelType) (Family, bool) {
	for _, f := range Registry() {
		if f.Type() == t {
			return f, true
		}
	}
	return nil, false
}

// PredictAll evaluates the family at every dose.
func PredictAll(f Family, doses []float64, params []float64) []float64 {
	out := make([]float64, len(doses))
	for i, d := range doses {
		out[i] = f.Predict(d, params)
	}
	return out
}

// unbounded builds (-inf, +inf) bounds of size n.
func unbounded(n int) ([]float64, []float64) {
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := 0; i < n; i++ {
		lo[i] = math.Inf(-1)
		hi[i] = math.Inf(1)
	}
	return lo, hi
}

// shape of the observations, feeding the data-driven guesses
type profile struct {
	minResp, maxResp float64
	medianDose       float64
	maxDose          float64
}

func profileOf(doses, responses []float64) profile {
	minR, maxR := dosemath.MinMax(responses)
	_, maxD := dosemath.MinMax(doses)
	return profile{
		minResp:    minR,
		maxResp:    maxR,
		medianDose: dosemath.Median(doses),
		maxDose:    maxD,
	}
}

// span returns a non-degenerate response range.
func (p profile) span() float64 {
	s := p.maxResp - p.minResp
	if s <= 0 {
		return 1.0
	}
	return s
}

// midDose returns a strictly positive half-effect dose guess.
func (p profile) midDose() float64 {
	return dosemath.FloorDose(p.medianDose)
}
