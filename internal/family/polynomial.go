package family

import (
	"math"

	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/model"
)

// linear : y = intercept + slope * dose
type linear struct{}

func (linear) Type() model.ModelType { return model.Linear }

func (linear) Params() []string { return []string{"intercept", "slope"} }

func (linear) Bounds() ([]float64, []float64) { return unbounded(2) }

func (linear) Predict(dose float64, params []float64) float64 {
	return params[0] + params[1]*dose
}

func (linear) DefaultGuess() []float64 { return []float64{0, 1} }

func (linear) DataGuesses(doses, responses []float64) [][]float64 {
	cc, err := dosemath.FitPoly(doses, responses, 1)
	if err != nil || len(cc) != 2 {
		return nil
	}
	return [][]float64{cc}
}

// quadratic : y = a + b * dose + c * dose^2
type quadratic struct{}

func (quadratic) Type() model.ModelType { return model.Quadratic }

func (quadratic) Params() []string { return []string{"a", "b", "c"} }

func (quadratic) Bounds() ([]float64, []float64) { return unbounded(3) }

func (quadratic) Predict(dose float64, params []float64) float64 {
	return params[0] + params[1]*dose + params[2]*dose*dose
}

func (quadratic) DefaultGuess() []float64 { return []float64{0, 1, 0.1} }

func (quadratic) DataGuesses(doses, responses []float64) [][]float64 {
	cc, err := dosemath.FitPoly(doses, responses, 2)
	if err != nil || len(cc) != 3 {
		return nil
	}
	return [][]float64{cc}
}

// piecewise : linear with one breakpoint,
// y = intercept + slope1 * dose                            for dose <= break
// y = intercept + slope1 * break + slope2 * (dose - break) for dose >  break
type piecewise struct{}

func (piecewise) Type() model.ModelType { return model.PiecewiseLinear }

func (piecewise) Params() []string { return []string{"intercept", "slope1", "slope2", "break"} }

func (piecewise) Bounds() ([]float64, []float64) {
	lo, hi := unbounded(4)
	lo[3] = 0
	return lo, hi
}

func (piecewise) Predict(dose float64, params []float64) float64 {
	brk := params[3]
	if dose <= brk {
		return params[0] + params[1]*dose
	}
	return params[0] + params[1]*brk + params[2]*(dose-brk)
}

func (piecewise) DefaultGuess() []float64 { return []float64{0, 1, 0.5, 1} }

func (piecewise) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	slope := p.span() / math.Max(p.maxDose, 1)
	return [][]float64{
		{p.minResp, slope, slope / 2, p.midDose()},
	}
}
