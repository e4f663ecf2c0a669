package model

import (
	"fmt"
	"math"
)

// Interval is a (lower, upper) confidence bound pair.
type Interval struct {
	Lower float64
	Upper float64
}

// CVSummary aggregates out-of-sample metrics across cross-validation folds.
type CVSummary struct {
	Folds   int
	MeanMSE float64
	StdMSE  float64
	MeanR2  float64
	StdR2   float64
	MSEs    []float64
}

// FitResult is the immutable outcome of fitting one family to one dataset.
// Statistics that could not be computed stay NaN (scalars) or absent (maps);
// downstream selection must tolerate partially populated results.
type FitResult struct {
	Model      ModelType
	ParamNames []string
	Params     map[string]float64

	CI          map[string]Interval
	BootstrapCI map[string]Interval
	StdErr      map[string]float64
	PValues     map[string]float64
	Covariance  [][]float64

	AIC         float64
	BIC         float64
	AICc        float64
	RSquared    float64
	AdjRSquared float64
	RMSE        float64
	MAE         float64

	CV *CVSummary

	Residuals []float64
	Leverage  []float64
	Cooks     []float64
}

// NewFitResult seeds a result with every scalar undefined.
func NewFitResult(t ModelType, names []string) *FitResult {
	return &FitResult{
		Model:       t,
		ParamNames:  names,
		Params:      make(map[string]float64, len(names)),
		CI:          make(map[string]Interval),
		StdErr:      make(map[string]float64),
		PValues:     make(map[string]float64),
		AIC:         math.NaN(),
		BIC:         math.NaN(),
		AICc:        math.NaN(),
		RSquared:    math.NaN(),
		AdjRSquared: math.NaN(),
		RMSE:        math.NaN(),
		MAE:         math.NaN(),
	}
}

// ParamVector returns the point estimates in declaration order.
func (r *FitResult) ParamVector() []float64 {
	vv := make([]float64, len(r.ParamNames))
	for i, name := range r.ParamNames {
		vv[i] = r.Params[name]
	}
	return vv
}

// HasAIC reports whether the information criteria were computed.
func (r *FitResult) HasAIC() bool {
	return !math.IsNaN(r.AIC)
}

// String returns a one-line summary of the fit.
func (r *FitResult) String() string {
	return fmt.Sprintf("FitResult{%s, AIC: %.4f, R²: %.4f, RMSE: %.4f}", r.Model, r.AIC, r.RSquared, r.RMSE)
}

// ToDict flattens the result into plain nested maps and lists,
// a shape that marshals directly to JSON. Statistics that were never
// computed (NaN scalars, nil covariance, nil cv) are omitted, since
// encoding/json cannot represent NaN.
func (r *FitResult) ToDict() map[string]interface{} {
	d := map[string]interface{}{
		"model":       r.Model.String(),
		"param_names": append([]string{}, r.ParamNames...),
		"params":      copyFloatMap(r.Params),
		"ci":          intervalsToDict(r.CI),
		"std_err":     copyFloatMap(r.StdErr),
		"p_values":    copyFloatMap(r.PValues),
	}
	putFloat(d, "aic", r.AIC)
	putFloat(d, "bic", r.BIC)
	putFloat(d, "aicc", r.AICc)
	putFloat(d, "r_squared", r.RSquared)
	putFloat(d, "adj_r_squared", r.AdjRSquared)
	putFloat(d, "rmse", r.RMSE)
	putFloat(d, "mae", r.MAE)
	if r.BootstrapCI != nil {
		d["bootstrap_ci"] = intervalsToDict(r.BootstrapCI)
	}
	if r.Covariance != nil {
		cov := make([][]float64, len(r.Covariance))
		for i, row := range r.Covariance {
			cov[i] = append([]float64{}, row...)
		}
		d["covariance"] = cov
	}
	if r.CV != nil {
		d["cv"] = map[string]interface{}{
			"folds":    r.CV.Folds,
			"mean_mse": r.CV.MeanMSE,
			"std_mse":  r.CV.StdMSE,
			"mean_r2":  r.CV.MeanR2,
			"std_r2":   r.CV.StdR2,
			"mses":     append([]float64{}, r.CV.MSEs...),
		}
	}
	if r.Residuals != nil {
		d["residuals"] = append([]float64{}, r.Residuals...)
	}
	if r.Leverage != nil {
		d["leverage"] = append([]float64{}, r.Leverage...)
	}
	if r.Cooks != nil {
		d["cooks_distance"] = append([]float64{}, r.Cooks...)
	}
	return d
}

// FromDict rebuilds a FitResult from the shape produced by ToDict.
// It also tolerates the widened types a JSON round-trip produces.
func FromDict(d map[string]interface{}) (*FitResult, error) {
	name, ok := d["model"].(string)
	if !ok {
		return nil, fmt.Errorf("missing model type in dict")
	}
	t, err := ParseModelType(name)
	if err != nil {
		return nil, fmt.Errorf("could not parse model type: %w", err)
	}
	r := NewFitResult(t, toStrings(d["param_names"]))
	r.Params = toFloatMap(d["params"])
	r.CI = toIntervals(d["ci"])
	r.StdErr = toFloatMap(d["std_err"])
	r.PValues = toFloatMap(d["p_values"])
	if v, ok := d["bootstrap_ci"]; ok {
		r.BootstrapCI = toIntervals(v)
	}
	r.AIC = toFloat(d["aic"])
	r.BIC = toFloat(d["bic"])
	r.AICc = toFloat(d["aicc"])
	r.RSquared = toFloat(d["r_squared"])
	r.AdjRSquared = toFloat(d["adj_r_squared"])
	r.RMSE = toFloat(d["rmse"])
	r.MAE = toFloat(d["mae"])
	if v, ok := d["covariance"]; ok {
		r.Covariance = toMatrix(v)
	}
	if v, ok := d["cv"].(map[string]interface{}); ok {
		r.CV = &CVSummary{
			Folds:   int(toFloat(v["folds"])),
			MeanMSE: toFloat(v["mean_mse"]),
			StdMSE:  toFloat(v["std_mse"]),
			MeanR2:  toFloat(v["mean_r2"]),
			StdR2:   toFloat(v["std_r2"]),
			MSEs:    toFloats(v["mses"]),
		}
	}
	if v, ok := d["residuals"]; ok {
		r.Residuals = toFloats(v)
	}
	if v, ok := d["leverage"]; ok {
		r.Leverage = toFloats(v)
	}
	if v, ok := d["cooks_distance"]; ok {
		r.Cooks = toFloats(v)
	}
	return r, nil
}

func putFloat(d map[string]interface{}, key string, v float64) {
	if !math.IsNaN(v) {
		d[key] = v
	}
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	c := make(map[string]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func intervalsToDict(m map[string]Interval) map[string][]float64 {
	c := make(map[string][]float64, len(m))
	for k, v := range m {
		c[k] = []float64{v.Lower, v.Upper}
	}
	return c
}

func toFloat(v interface{}) float64 {
	switch f := v.(type) {
	case float64:
		return f
	case int:
		return float64(f)
	}
	return math.NaN()
}

func toFloats(v interface{}) []float64 {
	switch vv := v.(type) {
	case []float64:
		return append([]float64{}, vv...)
	case []interface{}:
		ff := make([]float64, len(vv))
		for i, f := range vv {
			ff[i] = toFloat(f)
		}
		return ff
	}
	return nil
}

func toStrings(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string{}, vv...)
	case []interface{}:
		ss := make([]string, len(vv))
		for i, s := range vv {
			ss[i], _ = s.(string)
		}
		return ss
	}
	return nil
}

func toFloatMap(v interface{}) map[string]float64 {
	m := make(map[string]float64)
	switch vv := v.(type) {
	case map[string]float64:
		for k, f := range vv {
			m[k] = f
		}
	case map[string]interface{}:
		for k, f := range vv {
			m[k] = toFloat(f)
		}
	}
	return m
}

func toIntervals(v interface{}) map[string]Interval {
	m := make(map[string]Interval)
	switch vv := v.(type) {
	case map[string][]float64:
		for k, pair := range vv {
			if len(pair) == 2 {
				m[k] = Interval{Lower: pair[0], Upper: pair[1]}
			}
		}
	case map[string]interface{}:
		for k, pair := range vv {
			ff := toFloats(pair)
			if len(ff) == 2 {
				m[k] = Interval{Lower: ff[0], Upper: ff[1]}
			}
		}
	}
	return m
}

func toMatrix(v interface{}) [][]float64 {
	switch vv := v.(type) {
	case [][]float64:
		c := make([][]float64, len(vv))
		for i, row := range vv {
			c[i] = append([]float64{}, row...)
		}
		return c
	case []interface{}:
		c := make([][]float64, len(vv))
		for i, row := range vv {
			c[i] = toFloats(row)
		}
		return c
	}
	return nil
}
