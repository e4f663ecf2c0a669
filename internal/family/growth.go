package family

import (
	"math"

	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/model"
)

// exponential : y = a * exp(b * dose)
type exponential struct{}

func (exponential) Type() model.ModelType { return model.Exponential }

func (exponential) Params() []string { return []string{"a", "b"} }

func (exponential) Bounds() ([]float64, []float64) { return unbounded(2) }

func (exponential) Predict(dose float64, params []float64) float64 {
	return params[0] * math.Exp(params[1]*dose)
}

func (exponential) DefaultGuess() []float64 { return []float64{1, 0.1} }

func (exponential) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	guesses := [][]float64{
		{p.minResp, 1 / math.Max(p.maxDose, 1)},
	}
	// log-linear seed when all responses are strictly positive
	logs := make([]float64, len(responses))
	for i, r := range responses {
		if r <= 0 {
			return guesses
		}
		logs[i] = math.Log(r)
	}
	cc, err := dosemath.FitPoly(doses, logs, 1)
	if err == nil && len(cc) == 2 {
		guesses = append(guesses, []float64{math.Exp(cc[0]), cc[1]})
	}
	return guesses
}

// weibull : y = top * (1 - exp(-(dose / lambda)^k)), dose floored
type weibull struct{}

func (weibull) Type() model.ModelType { return model.Weibull }

func (weibull) Params() []string { return []string{"top", "lambda", "k"} }

func (weibull) Bounds() ([]float64, []float64) {
	lo, hi := unbounded(3)
	lo[1] = 0
	lo[2] = 0
	return lo, hi
}

func (weibull) Predict(dose float64, params []float64) float64 {
	d := dosemath.FloorDose(dose)
	lambda := dosemath.FloorDose(params[1])
	return params[0] * (1 - math.Exp(-math.Pow(d/lambda, params[2])))
}

func (weibull) DefaultGuess() []float64 { return []float64{1, 1, 1} }

func (weibull) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	return [][]float64{
		{p.maxResp, p.midDose(), 1},
		{p.maxResp, p.midDose(), 2},
	}
}

// gompertz : y = top * exp(-b * exp(-k * dose))
type gompertz struct{}

func (gompertz) Type() model.ModelType { return model.Gompertz }

func (gompertz) Params() []string { return []string{"top", "b", "k"} }

func (gompertz) Bounds() ([]float64, []float64) {
	lo, hi := unbounded(3)
	lo[1] = 0
	lo[2] = 0
	return lo, hi
}

func (gompertz) Predict(dose float64, params []float64) float64 {
	return params[0] * math.Exp(-params[1]*math.Exp(-params[2]*dose))
}

func (gompertz) DefaultGuess() []float64 { return []float64{1, 1, 1} }

func (gompertz) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	return [][]float64{
		{p.maxResp, 2, 1 / math.Max(p.midDose(), 1)},
	}
}
