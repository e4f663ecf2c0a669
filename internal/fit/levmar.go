package fit

import (
	"math"

	dosemath "github.com/drakos74/free-dose/internal/math"
	"gonum.org/v1/gonum/mat"
)

const (
	lmMaxIterations = 100
	lmLambdaInit    = 1e-3
	lmLambdaMax     = 1e12
	lmGradTol       = 1e-10
)

// levmar is a projected Levenberg-Marquardt step: the damped normal equations
// are solved on the weight-scaled residuals and every step is clamped back
// into the parameter box, so bounds act as hard constraints.
func levmar(obj *objective, guess []float64, lo, hi []float64, opts Options) (attempt, bool) {
	p := append([]float64{}, guess...)
	cost := obj.cost(p)
	if math.IsInf(cost, 1) {
		return attempt{}, false
	}

	evals := 1
	lambda := lmLambdaInit
	converged := false

	for iter := 0; iter < lmMaxIterations && evals < opts.MaxEvaluations; iter++ {
		jac := dosemath.Jacobian(func(params []float64) []float64 {
			_, scaled := obj.residuals(params)
			return scaled
		}, p, obj.ds.Size())
		evals += 2 * len(p)

		_, scaled := obj.residuals(p)
		r := mat.NewVecDense(len(scaled), scaled)

		var a mat.Dense
		a.Mul(jac.T(), jac)
		var g mat.VecDense
		g.MulVec(jac.T(), r)

		if mat.Norm(&g, math.Inf(1)) < lmGradTol {
			converged = true
			break
		}

		improved := false
		for lambda <= lmLambdaMax {
			var damped mat.Dense
			damped.CloneFrom(&a)
			np := len(p)
			for i := 0; i < np; i++ {
				d := a.At(i, i)
				if d == 0 {
					d = 1
				}
				damped.Set(i, i, a.At(i, i)+lambda*d)
			}

			delta := mat.NewVecDense(np, nil)
			if err := delta.SolveVec(&damped, &g); err != nil {
				lambda *= 10
				continue
			}

			next := make([]float64, np)
			for i := 0; i < np; i++ {
				next[i] = p[i] - delta.AtVec(i)
			}
			dosemath.ClampAll(next, lo, hi)

			nextCost := obj.cost(next)
			evals++
			if nextCost < cost {
				improvement := cost - nextCost
				p = next
				cost = nextCost
				lambda = math.Max(lambda/10, 1e-12)
				improved = true
				if improvement < opts.Tolerance*(1+cost) {
					converged = true
				}
				break
			}
			lambda *= 10
		}

		if !improved || converged {
			if improved || iter > 0 {
				converged = true
			}
			break
		}
	}

	if !converged || math.IsInf(cost, 1) || math.IsNaN(cost) {
		return attempt{}, false
	}
	return attempt{params: p, cost: cost}, true
}
