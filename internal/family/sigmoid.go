package family

import (
	"math"

	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/model"
	"gonum.org/v1/gonum/stat/distuv"
)

// logistic : y = top / (1 + exp(-k * (dose - ec50)))
type logistic struct{}

func (logistic) Type() model.ModelType { return model.Logistic }

func (logistic) Params() []string { return []string{"top", "k", "ec50"} }

func (logistic) Bounds() ([]float64, []float64) {
	lo, hi := unbounded(3)
	lo[2] = 0
	return lo, hi
}

func (logistic) Predict(dose float64, params []float64) float64 {
	return params[0] / (1 + math.Exp(-params[1]*(dose-params[2])))
}

func (logistic) DefaultGuess() []float64 { return []float64{1, 1, 1} }

func (logistic) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	return [][]float64{
		{p.maxResp, 1, p.midDose()},
		{p.span(), 4 / math.Max(p.maxDose, 1), p.midDose()},
	}
}

// logLogistic : y = top / (1 + (ec50 / dose)^slope), dose floored above zero
type logLogistic struct{}

func (logLogistic) Type() model.ModelType { return model.LogLogistic }

func (logLogistic) Params() []string { return []string{"top", "ec50", "slope"} }

func (logLogistic) Bounds() ([]float64, []float64) {
	lo, hi := unbounded(3)
	lo[1] = 0
	lo[2] = 0
	return lo, hi
}

func (logLogistic) Predict(dose float64, params []float64) float64 {
	d := dosemath.FloorDose(dose)
	ec50 := dosemath.FloorDose(params[1])
	return params[0] / (1 + math.Pow(ec50/d, params[2]))
}

func (logLogistic) DefaultGuess() []float64 { return []float64{1, 1, 1} }

func (logLogistic) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	return [][]float64{
		{p.maxResp, p.midDose(), 1},
		{p.maxResp, p.midDose(), 2},
	}
}

// probit : y = top * CDF(a + b * ln(dose)), standard normal CDF, dose floored
type probit struct{}

func (probit) Type() model.ModelType { return model.Probit }

func (probit) Params() []string { return []string{"top", "a", "b"} }

func (probit) Bounds() ([]float64, []float64) { return unbounded(3) }

func (probit) Predict(dose float64, params []float64) float64 {
	d := dosemath.FloorDose(dose)
	return params[0] * distuv.UnitNormal.CDF(params[1]+params[2]*math.Log(d))
}

func (probit) DefaultGuess() []float64 { return []float64{1, 0, 1} }

func (probit) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	// centre the CDF argument at the median dose
	return [][]float64{
		{p.maxResp, -math.Log(p.midDose()), 1},
	}
}

// hill : y = top * dose^n / (ec50^n + dose^n), dose floored
type hill struct{}

func (hill) Type() model.ModelType { return model.Hill }

func (hill) Params() []string { return []string{"top", "ec50", "n"} }

func (hill) Bounds() ([]float64, []float64) {
	lo, hi := unbounded(3)
	lo[1] = 0
	lo[2] = 0
	return lo, hi
}

func (hill) Predict(dose float64, params []float64) float64 {
	d := dosemath.FloorDose(dose)
	ec50 := dosemath.FloorDose(params[1])
	dn := math.Pow(d, params[2])
	return params[0] * dn / (math.Pow(ec50, params[2]) + dn)
}

func (hill) DefaultGuess() []float64 { return []float64{1, 1, 1} }

func (hill) DataGuesses(doses, responses []float64) [][]float64 {
	p := profileOf(doses, responses)
	return [][]float64{
		{p.maxResp, p.midDose(), 1},
		{p.maxResp, p.midDose(), 2},
	}
}
