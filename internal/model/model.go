package model

import (
	"fmt"
	"strings"
)

// ModelType identifies one of the candidate response families.
type ModelType int

const (
	Linear ModelType = iota
	Quadratic
	Exponential
	Logistic
	LogLogistic
	Probit
	Hill
	PiecewiseLinear
	Weibull
	Gompertz
)

var modelTypeNames = map[ModelType]string{
	Linear:          "linear",
	Quadratic:       "quadratic",
	Exponential:     "exponential",
	Logistic:        "logistic",
	LogLogistic:     "log-logistic",
	Probit:          "probit",
	Hill:            "hill",
	PiecewiseLinear: "piecewise-linear",
	Weibull:         "weibull",
	Gompertz:        "gompertz",
}

var modelTypeFromString = map[string]ModelType{}

func init() {
	for t, name := range modelTypeNames {
		modelTypeFromString[name] = t
	}
}

// String returns the canonical name of the model type.
func (t ModelType) String() string {
	if name, ok := modelTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseModelType resolves a canonical name back to its ModelType.
func ParseModelType(name string) (ModelType, error) {
	if t, ok := modelTypeFromString[strings.ToLower(name)]; ok {
		return t, nil
	}
	return ModelType(-1), fmt.Errorf("unknown model type: %s", name)
}

// Dataset is an immutable set of paired dose-response observations.
// Weights are optional; when present they scale the residuals during fitting.
type Dataset struct {
	Doses     []float64
	Responses []float64
	Weights   []float64
}

// NewDataset validates and wraps the raw observation arrays.
func NewDataset(doses, responses, weights []float64) (Dataset, error) {
	if len(doses) != len(responses) {
		return Dataset{}, ValidationError{
			Reason: fmt.Sprintf("doses and responses length mismatch [ %d | %d ]", len(doses), len(responses)),
		}
	}
	if len(doses) < 2 {
		return Dataset{}, ValidationError{
			Reason: fmt.Sprintf("need at least 2 observations, got %d", len(doses)),
		}
	}
	if weights != nil {
		if len(weights) != len(doses) {
			return Dataset{}, ValidationError{
				Reason: fmt.Sprintf("weights length mismatch [ %d | %d ]", len(weights), len(doses)),
			}
		}
		for i, w := range weights {
			if w < 0 {
				return Dataset{}, ValidationError{
					Reason: fmt.Sprintf("negative weight %f at index %d", w, i),
				}
			}
		}
	}
	return Dataset{Doses: doses, Responses: responses, Weights: weights}, nil
}

// Size returns the number of observations.
func (d Dataset) Size() int {
	return len(d.Doses)
}

// Resample builds a new dataset from the given observation indices.
// Indices may repeat, as in a bootstrap draw.
func (d Dataset) Resample(indices []int) Dataset {
	doses := make([]float64, len(indices))
	responses := make([]float64, len(indices))
	var weights []float64
	if d.Weights != nil {
		weights = make([]float64, len(indices))
	}
	for i, idx := range indices {
		doses[i] = d.Doses[idx]
		responses[i] = d.Responses[idx]
		if weights != nil {
			weights[i] = d.Weights[idx]
		}
	}
	return Dataset{Doses: doses, Responses: responses, Weights: weights}
}
