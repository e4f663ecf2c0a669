package fit

import (
	"math"

	dosemath "github.com/drakos74/free-dose/internal/math"
	"gonum.org/v1/gonum/optimize"
)

// simplex is the derivative-free fallback strategy: a Nelder-Mead search over
// the box-clamped objective. Clamping inside the objective keeps the bounds
// hard without a penalty term.
func simplex(obj *objective, guess []float64, lo, hi []float64, opts Options) (attempt, bool) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			p := dosemath.ClampAll(append([]float64{}, x...), lo, hi)
			return obj.cost(p)
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: opts.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   opts.Tolerance,
			Iterations: 50,
		},
	}

	result, err := optimize.Minimize(problem, append([]float64{}, guess...), settings, &optimize.NelderMead{})
	if err != nil || result == nil {
		return attempt{}, false
	}
	// an exhausted evaluation budget terminates with a limit status and a
	// nil error; only an actual convergence status counts as a fit.
	switch result.Status {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge, optimize.FunctionThreshold:
	default:
		return attempt{}, false
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return attempt{}, false
	}

	params := dosemath.ClampAll(append([]float64{}, result.X...), lo, hi)
	return attempt{params: params, cost: obj.cost(params)}, true
}
