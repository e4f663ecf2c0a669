package ensemble

import (
	"testing"

	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/stretchr/testify/assert"
)

func options() Options {
	opts := DefaultOptions()
	// resampling is exercised in its own package
	opts.UseBootstrap = false
	opts.UseCV = false
	return opts
}

func selector(t *testing.T, doses, responses []float64, opts Options) *Selector {
	ds, err := model.NewDataset(doses, responses, nil)
	assert.NoError(t, err)
	return NewSelector(ds, opts)
}

func TestSelector_FitAll(t *testing.T) {

	s := selector(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		options())

	results := s.FitAll()
	assert.True(t, len(results) > 0)
	assert.Contains(t, results, model.Linear)

	linear := results[model.Linear]
	assert.InDelta(t, 0.23, linear.Params["slope"], 1e-6)
	assert.True(t, linear.RSquared > 0.9)
}

func TestSelector_FitAll_Parallel(t *testing.T) {

	opts := options()
	opts.Parallelism = 4

	s := selector(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		opts)

	results := s.FitAll()
	assert.Contains(t, results, model.Linear)
	assert.InDelta(t, 0.23, results[model.Linear].Params["slope"], 1e-6)
}

func TestSelector_FitAll_DegenerateData(t *testing.T) {

	// constant responses: whatever else happens, linear must survive
	s := selector(t,
		[]float64{0, 1, 2, 3},
		[]float64{0.5, 0.5, 0.5, 0.5},
		options())

	results := s.FitAll()
	assert.Contains(t, results, model.Linear)
	assert.InDelta(t, 0.0, results[model.Linear].Params["slope"], 1e-6)
}

func TestSelector_SelectBest(t *testing.T) {

	s := selector(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		options())
	s.FitAll()

	for _, criterion := range []Criterion{AIC, BIC, AICc, RSquared} {
		best, result, err := s.SelectBest(criterion)
		assert.NoError(t, err, "criterion %s", criterion)
		assert.NotNil(t, result)
		assert.Equal(t, best, result.Model)
	}

	_, _, err := s.SelectBest(Criterion("unknown"))
	assert.Error(t, err)
}

func TestSelector_SelectBest_Empty(t *testing.T) {

	s := selector(t,
		[]float64{0, 1},
		[]float64{0.1, 0.5},
		options())

	_, _, err := s.SelectBest(AIC)
	assert.Error(t, err)
	assert.IsType(t, model.NoFittedModelsError{}, err)
}

func TestSelector_PredictWithUncertainty(t *testing.T) {

	s := selector(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		options())
	s.FitAll()

	linear := model.Linear
	pred, sd, err := s.PredictWithUncertainty([]float64{0, 2, 4}, &linear)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(pred))
	assert.Equal(t, 3, len(sd))
	assert.InDelta(t, 0.14, pred[0], 1e-6)
	for _, u := range sd {
		assert.True(t, u >= 0)
	}

	// defaults to the AIC-best model when none is named
	pred, sd, err = s.PredictWithUncertainty([]float64{1}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(pred))
	assert.Equal(t, 1, len(sd))

	missing := model.ModelType(-1)
	_, _, err = s.PredictWithUncertainty([]float64{1}, &missing)
	assert.Error(t, err)
}

func TestWeights_SumToOne(t *testing.T) {

	s := selector(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		options())
	results := s.FitAll()

	weights := Weights(results)
	assert.Equal(t, len(results), countDefined(results))

	sum := 0.0
	for _, w := range weights {
		assert.True(t, w >= 0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func countDefined(results map[model.ModelType]*model.FitResult) int {
	n := 0
	for _, r := range results {
		if r.HasAIC() {
			n++
		}
	}
	return n
}

func TestWeights_NoAIC(t *testing.T) {

	results := map[model.ModelType]*model.FitResult{
		model.Linear: model.NewFitResult(model.Linear, []string{"intercept", "slope"}),
		model.Hill:   model.NewFitResult(model.Hill, []string{"top", "ec50", "n"}),
	}

	weights := Weights(results)
	assert.InDelta(t, 0.5, weights[model.Linear], 1e-9)
	assert.InDelta(t, 0.5, weights[model.Hill], 1e-9)
}

func TestAverage(t *testing.T) {

	s := selector(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		options())
	results := s.FitAll()

	doses := []float64{0, 1, 2, 3, 4}
	pred, variance, err := Average(results, doses)
	assert.NoError(t, err)
	assert.Equal(t, len(doses), len(pred))
	assert.Equal(t, len(doses), len(variance))

	for i := range doses {
		assert.True(t, variance[i] >= 0)
		// the ensemble stays within the observed response range, loosely
		assert.True(t, pred[i] > -1 && pred[i] < 2)
	}

	_, _, err = Average(map[model.ModelType]*model.FitResult{}, doses)
	assert.Error(t, err)
	assert.IsType(t, model.NoFittedModelsError{}, err)
}

func TestAverage_SingleModel(t *testing.T) {

	s := selector(t,
		[]float64{0, 1, 2, 3, 4},
		[]float64{0.1, 0.4, 0.6, 0.9, 1.0},
		options())
	f, _ := family.Lookup(model.Linear)
	_, err := s.Fit(f)
	assert.NoError(t, err)

	// a single model gets weight 1 and zero epistemic variance
	pred, variance, err := Average(s.Results(), []float64{2})
	assert.NoError(t, err)
	assert.InDelta(t, 0.6, pred[0], 1e-6)
	assert.InDelta(t, 0.0, variance[0], 1e-12)
}
