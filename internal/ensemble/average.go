package ensemble

import (
	"math"

	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// Weights computes the Akaike weights of a FitResult collection:
// w_i = exp(-delta_i/2) / sum exp(-delta_j/2) with delta_i = AIC_i - min AIC,
// over all results with a defined AIC. When none defines an AIC the weights
// are equal. They sum to 1 by construction.
func Weights(results map[model.ModelType]*model.FitResult) map[model.ModelType]float64 {
	weights := make(map[model.ModelType]float64, len(results))
	if len(results) == 0 {
		return weights
	}

	minAIC := math.Inf(1)
	defined := 0
	for _, r := range results {
		if r.HasAIC() {
			defined++
			if r.AIC < minAIC {
				minAIC = r.AIC
			}
		}
	}

	if defined == 0 {
		log.Warn().Int("models", len(results)).Msg("no model defines AIC, using equal weights")
		for t := range results {
			weights[t] = 1 / float64(len(results))
		}
		return weights
	}

	raw := make(map[model.ModelType]float64, defined)
	total := 0.0
	for t, r := range results {
		if !r.HasAIC() {
			continue
		}
		w := math.Exp(-0.5 * (r.AIC - minAIC))
		if math.IsNaN(w) {
			w = 0
		}
		raw[t] = w
		total += w
	}

	if total == 0 {
		// degenerate spread of AIC values, fall back to the minimum alone
		for t, r := range results {
			if r.HasAIC() && r.AIC == minAIC {
				weights[t] = 1
				return weights
			}
		}
	}

	for t, w := range raw {
		weights[t] = w / total
	}
	return weights
}

// Average computes the weighted ensemble prediction at the given doses and
// its epistemic variance, the weighted squared deviation of each model's
// prediction from the ensemble mean. It captures disagreement between
// families, not within-model parameter uncertainty.
func Average(results map[model.ModelType]*model.FitResult, doses []float64) ([]float64, []float64, error) {
	if len(results) == 0 {
		return nil, nil, model.NoFittedModelsError{}
	}

	weights := Weights(results)

	predictions := make(map[model.ModelType][]float64, len(results))
	for t, r := range results {
		f, ok := family.Lookup(t)
		if !ok {
			continue
		}
		predictions[t] = family.PredictAll(f, doses, r.ParamVector())
	}

	mean := make([]float64, len(doses))
	for t, pred := range predictions {
		scaled := append([]float64{}, pred...)
		floats.Scale(weights[t], scaled)
		floats.Add(mean, scaled)
	}

	variance := make([]float64, len(doses))
	for t, pred := range predictions {
		w := weights[t]
		for i := range doses {
			diff := pred[i] - mean[i]
			variance[i] += w * diff * diff
		}
	}
	return mean, variance, nil
}
