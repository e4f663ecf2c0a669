// Package fit implements the robust multi-start nonlinear least-squares engine.
// Every initial guess is attempted with a projected Levenberg-Marquardt step
// first and a derivative-free Nelder-Mead simplex second; the lowest-cost
// converged attempt wins. There is no global-optimality guarantee.
package fit

import (
	"math"
	"math/rand"

	"github.com/drakos74/free-dose/internal/family"
	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/metrics"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/rs/zerolog/log"
)

// Options tunes the optimizer.
type Options struct {
	// MaxEvaluations caps function evaluations per attempt.
	MaxEvaluations int
	// Tolerance is the relative cost-improvement threshold for convergence.
	Tolerance float64
	// Perturbations is the number of randomly perturbed default guesses.
	Perturbations int
	// Seed makes the perturbed guesses reproducible.
	Seed int64
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		MaxEvaluations: 2000,
		Tolerance:      1e-10,
		Perturbations:  3,
		Seed:           1,
	}
}

// Result is one converged least-squares solution.
type Result struct {
	Params []float64
	// Cost is the sum of squared weight-scaled residuals.
	Cost float64
	// Residuals are the raw prediction errors, prediction - observation.
	Residuals []float64
	// Scaled are the weight-scaled residuals minimized by the optimizer.
	Scaled []float64
}

// Fit runs the multi-start optimization for one family.
// Candidates are the family default, its data-driven guesses and
// random +-50% perturbations of the default; failed candidates are
// discarded silently and only a fully failed run is an error.
func Fit(ds model.Dataset, f family.Family, opts Options) (Result, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	guesses := candidates(ds, f, opts, rng)
	return run(ds, f, guesses, opts)
}

// Refit runs a single-start optimization from the given guess,
// used by the resampling estimators to stay close to the original solution.
func Refit(ds model.Dataset, f family.Family, guess []float64, opts Options) (Result, error) {
	return run(ds, f, [][]float64{guess}, opts)
}

func run(ds model.Dataset, f family.Family, guesses [][]float64, opts Options) (Result, error) {
	lo, hi := f.Bounds()
	obj := newObjective(ds, f)

	best := Result{Cost: math.Inf(1)}
	converged := 0
	for _, guess := range guesses {
		start := dosemath.ClampAll(append([]float64{}, guess...), lo, hi)
		attempt, ok := levmar(obj, start, lo, hi, opts)
		if !ok {
			attempt, ok = simplex(obj, start, lo, hi, opts)
		}
		if !ok {
			continue
		}
		converged++
		if attempt.cost < best.Cost {
			best = Result{Params: attempt.params, Cost: attempt.cost}
		}
	}

	if converged == 0 {
		metrics.Observer.Increment(f.Type().String(), "failed")
		return Result{}, model.FittingError{Model: f.Type(), Attempts: len(guesses)}
	}
	metrics.Observer.Increment(f.Type().String(), "converged")

	best.Residuals, best.Scaled = obj.residuals(best.Params)
	log.Debug().
		Str("model", f.Type().String()).
		Int("candidates", len(guesses)).
		Int("converged", converged).
		Float64("cost", best.Cost).
		Msg("fit complete")
	return best, nil
}

func candidates(ds model.Dataset, f family.Family, opts Options, rng *rand.Rand) [][]float64 {
	lo, hi := f.Bounds()
	def := f.DefaultGuess()

	guesses := [][]float64{def}
	guesses = append(guesses, f.DataGuesses(ds.Doses, ds.Responses)...)
	for i := 0; i < opts.Perturbations; i++ {
		p := make([]float64, len(def))
		for j, v := range def {
			p[j] = v * (1 + 0.5*rng.NormFloat64())
		}
		guesses = append(guesses, dosemath.ClampAll(p, lo, hi))
	}
	return guesses
}

// objective evaluates weight-scaled residuals and their squared sum.
type objective struct {
	ds model.Dataset
	f  family.Family
}

func newObjective(ds model.Dataset, f family.Family) *objective {
	return &objective{ds: ds, f: f}
}

// residuals returns the raw and the weight-scaled residual vectors.
func (o *objective) residuals(params []float64) ([]float64, []float64) {
	n := o.ds.Size()
	raw := make([]float64, n)
	scaled := make([]float64, n)
	for i := 0; i < n; i++ {
		raw[i] = o.f.Predict(o.ds.Doses[i], params) - o.ds.Responses[i]
		scaled[i] = raw[i]
		if o.ds.Weights != nil {
			scaled[i] *= math.Sqrt(o.ds.Weights[i])
		}
	}
	return raw, scaled
}

// cost is the sum of squared scaled residuals, +inf for non-finite evaluations.
func (o *objective) cost(params []float64) float64 {
	_, scaled := o.residuals(params)
	sum := 0.0
	for _, r := range scaled {
		sum += r * r
	}
	if math.IsNaN(sum) {
		return math.Inf(1)
	}
	return sum
}

type attempt struct {
	params []float64
	cost   float64
}
