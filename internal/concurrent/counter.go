package concurrent

import (
	"sync"
	"sync/atomic"
)

// Counter is a synchronous counter for tracking finished resampling trials
// and collecting their results across workers.
type Counter struct {
	waitGroup *sync.WaitGroup
	mutex     sync.Mutex
	count     uint64
	vv        [][]float64
}

// NewCounter creates a new counter.
func NewCounter(waitGroup *sync.WaitGroup) *Counter {
	return &Counter{
		waitGroup: waitGroup,
		vv:        make([][]float64, 0),
	}
}

// Track counts one finished trial and keeps its parameter vector, if any.
func (c *Counter) Track(v []float64) {
	atomic.AddUint64(&c.count, 1)
	if v != nil {
		c.mutex.Lock()
		c.vv = append(c.vv, v)
		c.mutex.Unlock()
	}
	if c.waitGroup != nil {
		c.waitGroup.Done()
	}
}

// Get returns the current count.
func (c *Counter) Get() int {
	return int(atomic.LoadUint64(&c.count))
}

// Values returns the tracked parameter vectors.
func (c *Counter) Values() [][]float64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([][]float64{}, c.vv...)
}
