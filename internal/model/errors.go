package model

import "fmt"

// ValidationError flags malformed input: length mismatches or negative weights.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// FittingError flags a model family for which every multi-start attempt failed.
type FittingError struct {
	Model    ModelType
	Attempts int
}

func (e FittingError) Error() string {
	return fmt.Sprintf("could not fit %s: all %d attempts failed to converge", e.Model, e.Attempts)
}

// NotFittedError flags a prediction request without parameters or a prior fit.
type NotFittedError struct {
	Model ModelType
}

func (e NotFittedError) Error() string {
	return fmt.Sprintf("%s has not been fitted and no parameters were given", e.Model)
}

// NoFittedModelsError flags selection or averaging over an empty
// or criterion-incompatible result set.
type NoFittedModelsError struct {
	Criterion string
}

func (e NoFittedModelsError) Error() string {
	if e.Criterion == "" {
		return "no fitted models available"
	}
	return fmt.Sprintf("no fitted model defines criterion %s", e.Criterion)
}
