package resample

import (
	"math/rand"

	"github.com/drakos74/free-dose/internal/buffer"
	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/fit"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/rs/zerolog/log"
)

// CrossValidate estimates out-of-sample error by k-fold partitioning.
// Each fold refits on the remaining observations from the original best-fit
// guess and scores mean-squared-error and R² on the held-out fold.
// Failed folds are skipped; when every fold fails the result is nil.
func CrossValidate(ds model.Dataset, f family.Family, origin []float64, folds int, seed int64, fitOpts fit.Options) *model.CVSummary {
	n := ds.Size()
	if folds < 2 {
		folds = 2
	}
	if folds > n {
		folds = n
	}

	rng := rand.New(rand.NewSource(seed))
	indices := rng.Perm(n)

	mse := buffer.NewStats()
	r2 := buffer.NewStats()
	mses := make([]float64, 0, folds)

	for k := 0; k < folds; k++ {
		lo := k * n / folds
		hi := (k + 1) * n / folds
		test := indices[lo:hi]
		train := make([]int, 0, n-len(test))
		train = append(train, indices[:lo]...)
		train = append(train, indices[hi:]...)
		if len(train) < 1 || len(test) < 1 {
			continue
		}

		res, err := fit.Refit(ds.Resample(train), f, origin, fitOpts)
		if err != nil {
			log.Warn().
				Str("model", f.Type().String()).
				Int("fold", k).
				Msg("cross-validation fold failed to refit")
			continue
		}

		foldMSE, foldR2 := score(ds, f, res.Params, test)
		mse.Push(foldMSE)
		r2.Push(foldR2)
		mses = append(mses, foldMSE)
	}

	if mse.Count() == 0 {
		log.Warn().
			Str("model", f.Type().String()).
			Int("folds", folds).
			Msg("no cross-validation fold succeeded")
		return nil
	}

	return &model.CVSummary{
		Folds:   mse.Count(),
		MeanMSE: mse.Avg(),
		StdMSE:  mse.StDev(),
		MeanR2:  r2.Avg(),
		StdR2:   r2.StDev(),
		MSEs:    mses,
	}
}

// score evaluates MSE and R² on the held-out observations.
func score(ds model.Dataset, f family.Family, params []float64, test []int) (float64, float64) {
	rss := 0.0
	mean := 0.0
	for _, idx := range test {
		pred := f.Predict(ds.Doses[idx], params)
		diff := pred - ds.Responses[idx]
		rss += diff * diff
		mean += ds.Responses[idx]
	}
	nt := float64(len(test))
	mean /= nt

	tss := 0.0
	for _, idx := range test {
		diff := ds.Responses[idx] - mean
		tss += diff * diff
	}

	r2 := 0.0
	if tss > 0 {
		r2 = 1 - rss/tss
	}
	return rss / nt, r2
}
