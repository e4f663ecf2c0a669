// Package resample estimates uncertainty by refitting on resampled data:
// bootstrap percentile intervals and k-fold cross-validation. Trials are
// independent, seeded per-trial and dispatched across a small worker pool.
package resample

import (
	"math/rand"
	"sync"

	"github.com/drakos74/free-dose/internal/concurrent"
	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/fit"
	dosemath "github.com/drakos74/free-dose/internal/math"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/rs/zerolog/log"
)

// BootstrapOptions tunes the bootstrap resampler.
type BootstrapOptions struct {
	// Samples is the number of resampling trials.
	Samples int
	// Alpha is the significance level of the percentile intervals.
	Alpha float64
	// Parallelism is the worker count for independent trials.
	Parallelism int
	// Seed is the base seed; trial i draws from Seed + i.
	Seed int64
}

// DefaultBootstrapOptions returns the resampler defaults.
func DefaultBootstrapOptions() BootstrapOptions {
	return BootstrapOptions{
		Samples:     1000,
		Alpha:       0.05,
		Parallelism: 1,
		Seed:        1,
	}
}

// Bootstrap estimates empirical per-parameter confidence intervals by
// refitting the family on datasets resampled with replacement, seeded from
// the original best-fit parameters. Zero converged trials yield an empty map,
// letting the caller fall back to the asymptotic intervals.
func Bootstrap(ds model.Dataset, f family.Family, origin []float64, fitOpts fit.Options, opts BootstrapOptions) map[string]model.Interval {
	n := ds.Size()

	workers := opts.Parallelism
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(opts.Samples)
	counter := concurrent.NewCounter(&wg)

	trials := make(chan int)
	for w := 0; w < workers; w++ {
		go func() {
			for trial := range trials {
				rng := rand.New(rand.NewSource(opts.Seed + int64(trial)))
				indices := make([]int, n)
				for i := range indices {
					indices[i] = rng.Intn(n)
				}
				res, err := fit.Refit(ds.Resample(indices), f, origin, fitOpts)
				if err != nil {
					counter.Track(nil)
					continue
				}
				counter.Track(res.Params)
			}
		}()
	}
	for trial := 0; trial < opts.Samples; trial++ {
		trials <- trial
	}
	close(trials)
	wg.Wait()

	samples := counter.Values()
	if len(samples) == 0 {
		log.Warn().
			Str("model", f.Type().String()).
			Int("trials", opts.Samples).
			Msg("no bootstrap trial converged, falling back to asymptotic intervals")
		return map[string]model.Interval{}
	}

	intervals := make(map[string]model.Interval, len(origin))
	for j, name := range f.Params() {
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = s[j]
		}
		intervals[name] = model.Interval{
			Lower: dosemath.Percentile(values, opts.Alpha/2),
			Upper: dosemath.Percentile(values, 1-opts.Alpha/2),
		}
	}
	log.Debug().
		Str("model", f.Type().String()).
		Int("converged", len(samples)).
		Int("trials", opts.Samples).
		Msg("bootstrap complete")
	return intervals
}
