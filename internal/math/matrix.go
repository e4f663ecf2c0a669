package math

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobianStep is the central-difference step used for diagnostic Jacobians.
const JacobianStep = 1e-8

// PseudoInverse computes the Moore-Penrose inverse through a thin SVD,
// zeroing singular values below a relative tolerance so that near-singular
// systems degrade instead of failing.
func PseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}
	r, c := a.Dims()
	values := svd.Values(nil)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	max := 0.0
	for _, s := range values {
		if s > max {
			max = s
		}
	}
	tol := 1e-14 * float64(maxInt(r, c)) * max

	k := len(values)
	sInv := mat.NewDense(k, k, nil)
	for i, s := range values {
		if s > tol {
			sInv.Set(i, i, 1/s)
		}
	}

	pinv := mat.NewDense(c, r, nil)
	var tmp mat.Dense
	tmp.Mul(&v, sInv)
	pinv.Mul(&tmp, u.T())
	return pinv, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Jacobian estimates the n x p Jacobian of f at params by central differences.
// f maps a parameter vector to an n-vector of predictions.
func Jacobian(f func(params []float64) []float64, params []float64, n int) *mat.Dense {
	p := len(params)
	jac := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		h := JacobianStep * math.Max(1.0, math.Abs(params[j]))
		up := append([]float64{}, params...)
		down := append([]float64{}, params...)
		up[j] += h
		down[j] -= h
		fu := f(up)
		fd := f(down)
		for i := 0; i < n; i++ {
			jac.Set(i, j, (fu[i]-fd[i])/(2*h))
		}
	}
	return jac
}
