package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDataset(t *testing.T) {

	type test struct {
		doses     []float64
		responses []float64
		weights   []float64
		err       bool
	}

	tests := map[string]test{
		"valid": {
			doses:     []float64{0, 1, 2},
			responses: []float64{0.1, 0.5, 0.9},
		},
		"valid-weighted": {
			doses:     []float64{0, 1, 2},
			responses: []float64{0.1, 0.5, 0.9},
			weights:   []float64{1, 2, 0},
		},
		"length-mismatch": {
			doses:     []float64{0, 1, 2},
			responses: []float64{0.1, 0.5},
			err:       true,
		},
		"weights-mismatch": {
			doses:     []float64{0, 1, 2},
			responses: []float64{0.1, 0.5, 0.9},
			weights:   []float64{1},
			err:       true,
		},
		"negative-weight": {
			doses:     []float64{0, 1, 2},
			responses: []float64{0.1, 0.5, 0.9},
			weights:   []float64{1, -1, 1},
			err:       true,
		},
		"too-small": {
			doses:     []float64{0},
			responses: []float64{0.1},
			err:       true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := NewDataset(tt.doses, tt.responses, tt.weights)
			if tt.err {
				assert.Error(t, err)
				assert.IsType(t, ValidationError{}, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, len(tt.doses), ds.Size())
		})
	}
}

func TestDataset_Resample(t *testing.T) {

	ds, err := NewDataset(
		[]float64{0, 1, 2},
		[]float64{0.1, 0.5, 0.9},
		[]float64{1, 2, 3})
	assert.NoError(t, err)

	re := ds.Resample([]int{2, 2, 0})
	assert.Equal(t, []float64{2, 2, 0}, re.Doses)
	assert.Equal(t, []float64{0.9, 0.9, 0.1}, re.Responses)
	assert.Equal(t, []float64{3, 3, 1}, re.Weights)
}

func TestModelType_StringRoundTrip(t *testing.T) {

	for _, mt := range []ModelType{
		Linear, Quadratic, Exponential, Logistic, LogLogistic,
		Probit, Hill, PiecewiseLinear, Weibull, Gompertz,
	} {
		parsed, err := ParseModelType(mt.String())
		assert.NoError(t, err)
		assert.Equal(t, mt, parsed)
	}

	_, err := ParseModelType("nope")
	assert.Error(t, err)
}

func populated() *FitResult {
	r := NewFitResult(Linear, []string{"intercept", "slope"})
	r.Params["intercept"] = 0.14
	r.Params["slope"] = 0.23
	r.CI["intercept"] = Interval{Lower: 0.1, Upper: 0.18}
	r.CI["slope"] = Interval{Lower: 0.2, Upper: 0.26}
	r.BootstrapCI = map[string]Interval{
		"slope": {Lower: 0.19, Upper: 0.27},
	}
	r.StdErr["slope"] = 0.012
	r.PValues["slope"] = 0.0004
	r.Covariance = [][]float64{{0.001, -0.0002}, {-0.0002, 0.0001}}
	r.AIC = -12.5
	r.BIC = -13.2
	r.AICc = -6.5
	r.RSquared = 0.9796
	r.AdjRSquared = 0.9728
	r.RMSE = 0.0469
	r.MAE = 0.04
	r.CV = &CVSummary{Folds: 5, MeanMSE: 0.003, StdMSE: 0.002, MeanR2: 0.8, StdR2: 0.1, MSEs: []float64{1, 2, 3, 4, 5}}
	r.Residuals = []float64{0.04, -0.03, 0, -0.07, 0.06}
	r.Leverage = []float64{0.6, 0.3, 0.2, 0.3, 0.6}
	r.Cooks = []float64{0.5, 0.01, 0, 0.1, 0.7}
	return r
}

func TestFitResult_DictRoundTrip(t *testing.T) {

	r := populated()

	back, err := FromDict(r.ToDict())
	assert.NoError(t, err)
	assert.Equal(t, r, back)
}

func TestFitResult_JSONRoundTrip(t *testing.T) {

	r := populated()

	b, err := json.Marshal(r.ToDict())
	assert.NoError(t, err)

	var d map[string]interface{}
	assert.NoError(t, json.Unmarshal(b, &d))

	back, err := FromDict(d)
	assert.NoError(t, err)
	assert.Equal(t, r, back)
}

func TestFitResult_PartialRoundTrip(t *testing.T) {

	// covariance, bootstrap and CV may be absent
	r := NewFitResult(Hill, []string{"top", "ec50", "n"})
	r.Params["top"] = 1.0
	r.Params["ec50"] = 2.0
	r.Params["n"] = 1.5
	r.RMSE = 0.1

	back, err := FromDict(r.ToDict())
	assert.NoError(t, err)

	assert.Equal(t, r.Model, back.Model)
	assert.Equal(t, r.Params, back.Params)
	assert.Equal(t, r.RMSE, back.RMSE)
	assert.Nil(t, back.Covariance)
	assert.Nil(t, back.BootstrapCI)
	assert.Nil(t, back.CV)
	assert.True(t, math.IsNaN(back.AIC))
	assert.False(t, back.HasAIC())
}

func TestFitResult_JSONRoundTrip_UndefinedStatistics(t *testing.T) {

	// a two-point linear fit has zero degrees of freedom: the point estimates
	// exist but every criterion stays NaN, which encoding/json cannot carry
	r := NewFitResult(Linear, []string{"intercept", "slope"})
	r.Params["intercept"] = 0.1
	r.Params["slope"] = 0.2
	r.Residuals = []float64{0, 0}

	b, err := json.Marshal(r.ToDict())
	assert.NoError(t, err)

	var d map[string]interface{}
	assert.NoError(t, json.Unmarshal(b, &d))
	_, ok := d["aic"]
	assert.False(t, ok)

	back, err := FromDict(d)
	assert.NoError(t, err)
	assert.Equal(t, r.Params, back.Params)
	assert.True(t, math.IsNaN(back.AIC))
	assert.True(t, math.IsNaN(back.AdjRSquared))
	assert.True(t, math.IsNaN(back.RMSE))
}

func TestFitResult_ParamVector(t *testing.T) {

	r := populated()
	assert.Equal(t, []float64{0.14, 0.23}, r.ParamVector())
}
