// Package ensemble orchestrates fitting the full family registry against one
// dataset, ranks the results by an information criterion and combines them
// into an Akaike-weighted model average.
package ensemble

import (
	"fmt"
	"math"
	"sync"

	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/fit"
	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/drakos74/free-dose/internal/resample"
	"github.com/drakos74/free-dose/internal/stats"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Criterion selects the ranking statistic for model comparison.
type Criterion string

const (
	AIC      Criterion = "aic"
	BIC      Criterion = "bic"
	AICc     Criterion = "aicc"
	RSquared Criterion = "r_squared"
	CV       Criterion = "cv"
)

// Options tunes the full fit-and-annotate pipeline per family.
type Options struct {
	Alpha            float64
	BootstrapSamples int
	CVFolds          int
	UseBootstrap     bool
	UseCV            bool
	Parallelism      int
	Seed             int64
	Fit              fit.Options
}

// DefaultOptions returns the pipeline defaults.
func DefaultOptions() Options {
	return Options{
		Alpha:            0.05,
		BootstrapSamples: 1000,
		CVFolds:          5,
		UseBootstrap:     true,
		UseCV:            true,
		Parallelism:      1,
		Seed:             1,
		Fit:              fit.DefaultOptions(),
	}
}

// Selector owns the FitResult collection for one dataset.
type Selector struct {
	id      string
	dataset model.Dataset
	opts    Options

	mutex   sync.Mutex
	results map[model.ModelType]*model.FitResult
}

// NewSelector creates a selector for the given dataset.
func NewSelector(ds model.Dataset, opts Options) *Selector {
	return &Selector{
		id:      uuid.New().String(),
		dataset: ds,
		opts:    opts,
		results: make(map[model.ModelType]*model.FitResult),
	}
}

// Fit runs the full pipeline for one family: multi-start optimization,
// diagnostics, and optionally bootstrap intervals and cross-validation.
func (s *Selector) Fit(f family.Family) (*model.FitResult, error) {
	res, err := fit.Fit(s.dataset, f, s.opts.Fit)
	if err != nil {
		return nil, fmt.Errorf("could not fit %s: %w", f.Type(), err)
	}

	result := model.NewFitResult(f.Type(), f.Params())
	stats.Annotate(result, s.dataset, f, res, s.opts.Alpha)

	if s.opts.UseBootstrap {
		result.BootstrapCI = resample.Bootstrap(s.dataset, f, res.Params, s.opts.Fit, resample.BootstrapOptions{
			Samples:     s.opts.BootstrapSamples,
			Alpha:       s.opts.Alpha,
			Parallelism: s.opts.Parallelism,
			Seed:        s.opts.Seed,
		})
	}
	if s.opts.UseCV {
		result.CV = resample.CrossValidate(s.dataset, f, res.Params, s.opts.CVFolds, s.opts.Seed, s.opts.Fit)
	}

	s.mutex.Lock()
	s.results[f.Type()] = result
	s.mutex.Unlock()
	return result, nil
}

// FitAll fits every family in the registry. Families that fail to converge
// are logged and omitted; FitAll itself never fails.
func (s *Selector) FitAll() map[model.ModelType]*model.FitResult {
	registry := family.Registry()

	workers := s.opts.Parallelism
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(len(registry))
	jobs := make(chan family.Family)
	for w := 0; w < workers; w++ {
		go func() {
			for f := range jobs {
				if _, err := s.Fit(f); err != nil {
					log.Warn().
						Str("id", s.id).
						Str("model", f.Type().String()).
						Err(err).
						Msg("family omitted from selection")
				}
				wg.Done()
			}
		}()
	}
	for _, f := range registry {
		jobs <- f
	}
	close(jobs)
	wg.Wait()

	return s.Results()
}

// Results returns a copy of the collected FitResults.
func (s *Selector) Results() map[model.ModelType]*model.FitResult {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make(map[model.ModelType]*model.FitResult, len(s.results))
	for t, r := range s.results {
		out[t] = r
	}
	return out
}

// Result returns the FitResult for one family, if it was fitted.
func (s *Selector) Result(t model.ModelType) (*model.FitResult, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	r, ok := s.results[t]
	return r, ok
}

// SelectBest picks the fitted family minimizing AIC/BIC/AICc or maximizing
// R²/CV-R², restricted to results where the criterion is defined.
func (s *Selector) SelectBest(criterion Criterion) (model.ModelType, *model.FitResult, error) {
	type scored struct {
		t     model.ModelType
		r     *model.FitResult
		value float64
	}

	var minimize bool
	switch criterion {
	case AIC, BIC, AICc:
		minimize = true
	case RSquared, CV:
		minimize = false
	default:
		return model.ModelType(-1), nil, fmt.Errorf("unknown criterion: %s", criterion)
	}

	candidates := make([]scored, 0)
	for t, r := range s.Results() {
		value := math.NaN()
		switch criterion {
		case AIC:
			value = r.AIC
		case BIC:
			value = r.BIC
		case AICc:
			value = r.AICc
		case RSquared:
			value = r.RSquared
		case CV:
			if r.CV != nil {
				value = r.CV.MeanR2
			}
		}
		if math.IsNaN(value) {
			continue
		}
		candidates = append(candidates, scored{t: t, r: r, value: value})
	}

	if len(candidates) == 0 {
		return model.ModelType(-1), nil, model.NoFittedModelsError{Criterion: string(criterion)}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if (minimize && c.value < best.value) || (!minimize && c.value > best.value) {
			best = c
		}
	}
	return best.t, best.r, nil
}

// PredictWithUncertainty returns point predictions and prediction standard
// deviations for one family, propagating the parameter covariance through the
// model Jacobian at each dose. A nil model type defaults to the AIC-best fit.
func (s *Selector) PredictWithUncertainty(doses []float64, t *model.ModelType) ([]float64, []float64, error) {
	var result *model.FitResult
	var modelType model.ModelType
	if t != nil {
		r, ok := s.Result(*t)
		if !ok {
			return nil, nil, model.NotFittedError{Model: *t}
		}
		result = r
		modelType = *t
	} else {
		best, r, err := s.SelectBest(AIC)
		if err != nil {
			return nil, nil, err
		}
		result = r
		modelType = best
	}

	f, ok := family.Lookup(modelType)
	if !ok {
		return nil, nil, fmt.Errorf("no family registered for %s", modelType)
	}

	params := result.ParamVector()
	predictions := family.PredictAll(f, doses, params)

	uncertainties := make([]float64, len(doses))
	if result.Covariance == nil {
		log.Warn().
			Str("id", s.id).
			Str("model", modelType.String()).
			Msg("no covariance available, prediction uncertainty defaults to zero")
		return predictions, uncertainties, nil
	}

	p := len(params)
	cov := mat.NewDense(p, p, nil)
	for i, row := range result.Covariance {
		for j, v := range row {
			cov.Set(i, j, v)
		}
	}

	for i, dose := range doses {
		jac := dosemath.Jacobian(func(pp []float64) []float64 {
			return []float64{f.Predict(dose, pp)}
		}, params, 1)

		var tmp mat.Dense
		tmp.Mul(jac, cov)
		var v mat.Dense
		v.Mul(&tmp, jac.T())

		variance := v.At(0, 0)
		if variance < 0 {
			variance = 0
		}
		uncertainties[i] = math.Sqrt(variance)
	}
	return predictions, uncertainties, nil
}
