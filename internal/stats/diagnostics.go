// Package stats computes the inferential annotations of a converged fit:
// parameter covariance, confidence intervals, p-values, information criteria,
// goodness-of-fit metrics and outlier diagnostics. Statistics that cannot be
// computed are left absent and logged, never turned into errors.
package stats

import (
	"math"

	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/fit"
	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Annotate fills the statistical fields of a fresh FitResult from a converged
// least-squares solution at significance level alpha.
func Annotate(result *model.FitResult, ds model.Dataset, f family.Family, res fit.Result, alpha float64) {
	n := ds.Size()
	p := len(res.Params)
	dof := n - p

	for i, name := range result.ParamNames {
		result.Params[name] = res.Params[i]
	}
	result.Residuals = append([]float64{}, res.Residuals...)

	rss := res.Cost
	errorMetrics(result, ds, res, rss, n, dof)
	criteria(result, rss, n, p)

	if dof <= 0 {
		log.Warn().
			Str("model", f.Type().String()).
			Int("n", n).
			Int("p", p).
			Msg("no degrees of freedom, skipping inferential statistics")
		return
	}

	jac := predictionJacobian(ds, f, res.Params)
	cov, ok := covariance(jac, rss, dof)
	if !ok {
		log.Warn().
			Str("model", f.Type().String()).
			Msg("covariance unavailable, skipping confidence intervals")
		return
	}
	result.Covariance = toRows(cov)

	sigma2 := rss / float64(dof)
	inference(result, res.Params, cov, dof, alpha)
	outliers(result, jac, res.Scaled, sigma2, n, p)
}

// errorMetrics computes the residual-based metrics, reported even when
// inference is impossible.
func errorMetrics(result *model.FitResult, ds model.Dataset, res fit.Result, rss float64, n, dof int) {
	result.RMSE = math.Sqrt(rss / float64(n))

	mae := 0.0
	for _, r := range res.Residuals {
		mae += math.Abs(r)
	}
	result.MAE = mae / float64(n)

	mean := 0.0
	for _, y := range ds.Responses {
		mean += y
	}
	mean /= float64(n)
	tss := 0.0
	for _, y := range ds.Responses {
		tss += (y - mean) * (y - mean)
	}

	if tss == 0 {
		result.RSquared = 0
		return
	}
	result.RSquared = 1 - rss/tss
	if n > 1 && dof > 0 {
		result.AdjRSquared = 1 - (rss/float64(dof))/(tss/float64(n-1))
	}
}

// criteria computes the Gaussian-residual information criteria.
func criteria(result *model.FitResult, rss float64, n, p int) {
	nf := float64(n)
	logLik := -0.5*nf*math.Log(2*math.Pi*rss/nf) - 0.5*nf
	result.AIC = 2*float64(p) - 2*logLik
	result.BIC = float64(p)*math.Log(nf) - 2*logLik
	if n > p+1 {
		result.AICc = result.AIC + 2*float64(p)*float64(p+1)/float64(n-p-1)
	} else {
		result.AICc = result.AIC
	}
}

// predictionJacobian is the n x p Jacobian of the weight-scaled predictions,
// estimated by central differences.
func predictionJacobian(ds model.Dataset, f family.Family, params []float64) *mat.Dense {
	jac := dosemath.Jacobian(func(pp []float64) []float64 {
		out := family.PredictAll(f, ds.Doses, pp)
		if ds.Weights != nil {
			for i := range out {
				out[i] *= math.Sqrt(ds.Weights[i])
			}
		}
		return out
	}, params, ds.Size())
	return jac
}

// covariance is residual-variance times the pseudo-inverse of JtJ.
// The pseudo-inverse lets near-singular Jacobians degrade instead of failing.
func covariance(jac *mat.Dense, rss float64, dof int) (*mat.Dense, bool) {
	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	pinv, err := dosemath.PseudoInverse(&jtj)
	if err != nil {
		return nil, false
	}

	sigma2 := 1.0
	if dof > 0 {
		sigma2 = rss / float64(dof)
	}
	pinv.Scale(sigma2, pinv)
	return pinv, true
}

// inference derives standard errors, asymptotic CIs and two-sided p-values.
func inference(result *model.FitResult, params []float64, cov *mat.Dense, dof int, alpha float64) {
	q := quantile(1-alpha/2, dof)
	for i, name := range result.ParamNames {
		variance := cov.At(i, i)
		if variance < 0 || math.IsNaN(variance) {
			continue
		}
		se := math.Sqrt(variance)
		result.StdErr[name] = se
		result.CI[name] = model.Interval{
			Lower: params[i] - q*se,
			Upper: params[i] + q*se,
		}
		if se > 0 {
			t := math.Abs(params[i] / se)
			result.PValues[name] = 2 * (1 - cdf(t, dof))
		}
	}
}

// outliers computes leverage and Cook's distance, defined only when n > p.
func outliers(result *model.FitResult, jac *mat.Dense, scaled []float64, sigma2 float64, n, p int) {
	if n <= p {
		return
	}
	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)
	pinv, err := dosemath.PseudoInverse(&jtj)
	if err != nil {
		log.Warn().Msg("hat matrix unavailable, skipping outlier diagnostics")
		return
	}

	var hat mat.Dense
	var tmp mat.Dense
	tmp.Mul(jac, pinv)
	hat.Mul(&tmp, jac.T())

	leverage := make([]float64, n)
	cooks := make([]float64, n)
	for i := 0; i < n; i++ {
		h := hat.At(i, i)
		leverage[i] = h
		if h >= 1 || sigma2 == 0 {
			cooks[i] = math.NaN()
			continue
		}
		standardized := scaled[i] / math.Sqrt(sigma2)
		cooks[i] = (standardized * standardized / float64(p)) * h / ((1 - h) * (1 - h))
	}
	result.Leverage = leverage
	result.Cooks = cooks
}

// quantile returns the two-sided critical value: Student-t when dof > 0,
// standard normal otherwise.
func quantile(q float64, dof int) float64 {
	if dof > 0 {
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}.Quantile(q)
	}
	return distuv.UnitNormal.Quantile(q)
}

func cdf(x float64, dof int) float64 {
	if dof > 0 {
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}.CDF(x)
	}
	return distuv.UnitNormal.CDF(x)
}

func toRows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}
