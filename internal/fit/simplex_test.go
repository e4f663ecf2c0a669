package fit

import (
	"testing"

	"github.com/drakos74/free-dose/internal/family"
	"github.com/drakos74/free-dose/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSimplex_RejectsExhaustedBudget(t *testing.T) {

	ds := dataset(t,
		[]float64{0, 1, 2, 3, 4, 5, 6, 7},
		[]float64{0.02, 0.05, 0.2, 0.5, 0.8, 0.95, 0.98, 1.0},
		nil)
	f, _ := family.Lookup(model.Logistic)
	lo, hi := f.Bounds()
	obj := newObjective(ds, f)

	// the budget runs out before the search can even build its simplex,
	// which terminates with a limit status and a nil error
	opts := DefaultOptions()
	opts.MaxEvaluations = 2
	_, ok := simplex(obj, f.DefaultGuess(), lo, hi, opts)
	assert.False(t, ok)

	// the same search with a real budget converges
	opts.MaxEvaluations = 2000
	attempt, ok := simplex(obj, f.DefaultGuess(), lo, hi, opts)
	assert.True(t, ok)
	assert.True(t, attempt.cost < obj.cost(f.DefaultGuess()))
}
