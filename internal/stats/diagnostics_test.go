package stats

import (
	"math"
	"testing"

	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/fit"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/stretchr/testify/assert"
)

func annotated(t *testing.T, doses, responses []float64, modelType model.ModelType) *model.FitResult {
	ds, err := model.NewDataset(doses, responses, nil)
	assert.NoError(t, err)
	f, ok := family.Lookup(modelType)
	assert.True(t, ok)

	res, err := fit.Fit(ds, f, fit.DefaultOptions())
	assert.NoError(t, err)

	result := model.NewFitResult(f.Type(), f.Params())
	Annotate(result, ds, f, res, 0.05)
	return result
}

func TestAnnotate_Linear(t *testing.T) {

	result := annotated(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		model.Linear)

	assert.InDelta(t, 0.14, result.Params["intercept"], 1e-6)
	assert.InDelta(t, 0.23, result.Params["slope"], 1e-6)
	assert.True(t, result.RSquared > 0.9)
	assert.True(t, result.AdjRSquared > 0.9)
	assert.True(t, result.HasAIC())
	assert.False(t, math.IsNaN(result.BIC))
	assert.False(t, math.IsNaN(result.AICc))
	assert.False(t, math.IsNaN(result.RMSE))
	assert.False(t, math.IsNaN(result.MAE))

	// inference is available: n=5, p=2
	assert.Equal(t, 2, len(result.CI))
	assert.Equal(t, 2, len(result.StdErr))
	assert.Equal(t, 2, len(result.PValues))
	assert.NotNil(t, result.Covariance)

	for _, name := range result.ParamNames {
		ci := result.CI[name]
		assert.True(t, ci.Lower <= result.Params[name])
		assert.True(t, ci.Upper >= result.Params[name])
		p := result.PValues[name]
		assert.True(t, p >= 0 && p <= 1)
	}

	assert.Equal(t, 5, len(result.Residuals))
	assert.Equal(t, 5, len(result.Leverage))
	assert.Equal(t, 5, len(result.Cooks))
	for _, h := range result.Leverage {
		assert.True(t, h >= -1e-9 && h <= 1+1e-9)
	}
}

func TestAnnotate_NoDegreesOfFreedom(t *testing.T) {

	// 2 observations, 2-parameter model: dof = 0
	result := annotated(t,
		[]float64{0, 1},
		[]float64{0.1, 0.5},
		model.Linear)

	// point estimates and residual metrics stay available
	assert.InDelta(t, 0.1, result.Params["intercept"], 1e-6)
	assert.InDelta(t, 0.4, result.Params["slope"], 1e-6)
	assert.False(t, math.IsNaN(result.RMSE))
	assert.False(t, math.IsNaN(result.MAE))
	assert.False(t, math.IsNaN(result.RSquared))

	// inferential statistics are skipped
	assert.Equal(t, 0, len(result.CI))
	assert.Equal(t, 0, len(result.StdErr))
	assert.Equal(t, 0, len(result.PValues))
	assert.Nil(t, result.Covariance)
	assert.Nil(t, result.Leverage)
	assert.Nil(t, result.Cooks)
	assert.True(t, math.IsNaN(result.AdjRSquared))
}

func TestAnnotate_InformationCriteria(t *testing.T) {

	result := annotated(t,
		[]float64{0, 1, 2, 3, 4, 5, 6, 7},
		[]float64{0.02, 0.15, 0.31, 0.44, 0.62, 0.71, 0.88, 0.97},
		model.Linear)

	// n=8, p=2: AICc = AIC + 2p(p+1)/(n-p-1)
	assert.InDelta(t, result.AIC+12.0/5.0, result.AICc, 1e-9)
	// BIC penalizes harder than AIC for n >= 8
	assert.True(t, result.BIC > result.AIC)
}

func TestAnnotate_ConstantResponses(t *testing.T) {

	result := annotated(t,
		[]float64{0, 1, 2, 3},
		[]float64{0.5, 0.5, 0.5, 0.5},
		model.Linear)

	// TSS = 0 pins R² to zero
	assert.Equal(t, 0.0, result.RSquared)
	assert.InDelta(t, 0.0, result.RMSE, 1e-6)
}
