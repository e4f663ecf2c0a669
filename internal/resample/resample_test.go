package resample

import (
	"testing"

	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/fit"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/stretchr/testify/assert"
)

var (
	doses     = []float64{0, 1, 2, 3, 4}
	responses = []float64{0.1, 0.4, 0.6, 0.9, 1.0}
)

func fitted(t *testing.T) (model.Dataset, family.Family, []float64) {
	ds, err := model.NewDataset(doses, responses, nil)
	assert.NoError(t, err)
	f, _ := family.Lookup(model.Linear)
	res, err := fit.Fit(ds, f, fit.DefaultOptions())
	assert.NoError(t, err)
	return ds, f, res.Params
}

func TestBootstrap(t *testing.T) {

	ds, f, origin := fitted(t)

	opts := DefaultBootstrapOptions()
	opts.Samples = 200
	opts.Seed = 7

	intervals := Bootstrap(ds, f, origin, fit.DefaultOptions(), opts)
	assert.Equal(t, 2, len(intervals))

	for name, ci := range intervals {
		assert.True(t, ci.Lower <= ci.Upper, "inverted interval for %s", name)
	}

	// the slope interval should cover the full-sample estimate
	slope := intervals["slope"]
	assert.True(t, slope.Lower <= origin[1]+0.1)
	assert.True(t, slope.Upper >= origin[1]-0.1)
}

func TestBootstrap_WidensAsAlphaDecreases(t *testing.T) {

	ds, f, origin := fitted(t)

	wide := DefaultBootstrapOptions()
	wide.Samples = 200
	wide.Seed = 7
	wide.Alpha = 0.5

	narrow := wide
	narrow.Alpha = 0.05

	// identical seeds replay the same trials, so the lower-alpha interval
	// is wider or equal by construction of the percentiles
	ciWide := Bootstrap(ds, f, origin, fit.DefaultOptions(), wide)
	ciNarrow := Bootstrap(ds, f, origin, fit.DefaultOptions(), narrow)

	for _, name := range f.Params() {
		w := ciWide[name].Upper - ciWide[name].Lower
		n := ciNarrow[name].Upper - ciNarrow[name].Lower
		assert.True(t, n >= w-1e-12, "interval for %s narrowed as alpha decreased", name)
	}
}

func TestBootstrap_Parallel(t *testing.T) {

	ds, f, origin := fitted(t)

	sequential := DefaultBootstrapOptions()
	sequential.Samples = 100
	sequential.Seed = 3
	sequential.Parallelism = 1

	parallel := sequential
	parallel.Parallelism = 4

	// per-trial seeding makes the result independent of the worker count
	a := Bootstrap(ds, f, origin, fit.DefaultOptions(), sequential)
	b := Bootstrap(ds, f, origin, fit.DefaultOptions(), parallel)
	for _, name := range f.Params() {
		assert.InDelta(t, a[name].Lower, b[name].Lower, 1e-12)
		assert.InDelta(t, a[name].Upper, b[name].Upper, 1e-12)
	}
}

func TestCrossValidate(t *testing.T) {

	ds, f, origin := fitted(t)

	summary := CrossValidate(ds, f, origin, 5, 1, fit.DefaultOptions())
	assert.NotNil(t, summary)
	assert.Equal(t, 5, summary.Folds)
	assert.Equal(t, 5, len(summary.MSEs))
	assert.True(t, summary.MeanMSE >= 0)
	assert.True(t, summary.StdMSE >= 0)
}

func TestCrossValidate_LeaveOneOut(t *testing.T) {

	ds, f, origin := fitted(t)

	// folds capped at n, every fold holds out exactly one observation
	summary := CrossValidate(ds, f, origin, ds.Size(), 1, fit.DefaultOptions())
	assert.NotNil(t, summary)
	assert.Equal(t, ds.Size(), len(summary.MSEs))
}
