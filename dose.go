// Package dose fits parametric dose-response curves to paired observations,
// quantifies estimation uncertainty and selects or combines the competing
// families. It is the public surface over the internal fitting, diagnostics,
// resampling and ensemble packages.
package dose

import (
	"fmt"
	"math"

	"github.com/drakos74/free-dose/internal/ensemble"
	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/model"
)

// Re-exported identities of the internal domain model.
type (
	ModelType = model.ModelType
	FitResult = model.FitResult
	Interval  = model.Interval
	Criterion = ensemble.Criterion
)

const (
	Linear          = model.Linear
	Quadratic       = model.Quadratic
	Exponential     = model.Exponential
	Logistic        = model.Logistic
	LogLogistic     = model.LogLogistic
	Probit          = model.Probit
	Hill            = model.Hill
	PiecewiseLinear = model.PiecewiseLinear
	Weibull         = model.Weibull
	Gompertz        = model.Gompertz

	AIC      = ensemble.AIC
	BIC      = ensemble.BIC
	AICc     = ensemble.AICc
	RSquared = ensemble.RSquared
	CV       = ensemble.CV
)

// Options tunes the fitting pipeline.
type Options = ensemble.Options

// DefaultOptions returns the pipeline defaults: alpha 0.05, 1000 bootstrap
// samples, 5 cross-validation folds, sequential execution.
func DefaultOptions() Options {
	return ensemble.DefaultOptions()
}

// Engine fits dose-response models to one dataset.
type Engine struct {
	dataset  model.Dataset
	selector *ensemble.Selector
}

// New validates the observation arrays and builds an engine.
// Weights may be nil; a negative weight or a length mismatch is a ValidationError.
func New(doses, responses, weights []float64, opts Options) (*Engine, error) {
	ds, err := model.NewDataset(doses, responses, weights)
	if err != nil {
		return nil, err
	}
	return &Engine{
		dataset:  ds,
		selector: ensemble.NewSelector(ds, opts),
	}, nil
}

// Fit runs the full pipeline for a single family: multi-start least squares,
// diagnostics, bootstrap intervals and cross-validation per the options.
// It fails with a FittingError when no optimization attempt converges.
func (e *Engine) Fit(t ModelType) (*FitResult, error) {
	f, ok := family.Lookup(t)
	if !ok {
		return nil, model.ValidationError{Reason: fmt.Sprintf("unknown model type: %s", t)}
	}
	return e.selector.Fit(f)
}

// FitAll fits every family in the registry. Individual failures are logged
// and omitted; the returned map holds only the families that converged.
func (e *Engine) FitAll() map[ModelType]*FitResult {
	return e.selector.FitAll()
}

// SelectBestModel ranks the fitted families by the given criterion.
func (e *Engine) SelectBestModel(criterion Criterion) (ModelType, *FitResult, error) {
	return e.selector.SelectBest(criterion)
}

// Predict evaluates a family at the given doses. With nil params the fitted
// parameters are used; a NotFittedError is returned when the family has not
// been fitted and no parameters were supplied.
func (e *Engine) Predict(t ModelType, doses []float64, params []float64) ([]float64, error) {
	f, ok := family.Lookup(t)
	if !ok {
		return nil, model.ValidationError{Reason: fmt.Sprintf("unknown model type: %s", t)}
	}
	if params == nil {
		r, fitted := e.selector.Result(t)
		if !fitted {
			return nil, model.NotFittedError{Model: t}
		}
		params = r.ParamVector()
	}
	return family.PredictAll(f, doses, params), nil
}

// PredictWithUncertainty returns predictions and uncertainty estimates.
// With bayesian set it returns the Akaike-weighted ensemble prediction and
// the between-family epistemic standard deviation; otherwise it propagates
// the parameter covariance of the named (or AIC-best) family.
func (e *Engine) PredictWithUncertainty(doses []float64, t *ModelType, bayesian bool) ([]float64, []float64, error) {
	if bayesian {
		pred, variance, err := ensemble.Average(e.selector.Results(), doses)
		if err != nil {
			return nil, nil, err
		}
		sd := make([]float64, len(variance))
		for i, v := range variance {
			sd[i] = math.Sqrt(v)
		}
		return pred, sd, nil
	}
	return e.selector.PredictWithUncertainty(doses, t)
}

// Weights returns the Akaike weights of the fitted families.
func (e *Engine) Weights() map[ModelType]float64 {
	return ensemble.Weights(e.selector.Results())
}

// Results returns the collected FitResults.
func (e *Engine) Results() map[ModelType]*FitResult {
	return e.selector.Results()
}
