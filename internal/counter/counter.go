package counter

import "sync/atomic"

// Counter is a progress counter safe for concurrent use. A Counter may carry the
// number of units it is expected to reach; zero means unknown.
type Counter struct {
	count atomic.Int64
	total atomic.Int64
}

// NewCounter creates and initializes a new Counter
func NewCounter() *Counter {
	return &Counter{}
}

// Add adds a value to the counter safely
func (c *Counter) Add(value int) {
	c.count.Add(int64(value))
}

// Count returns the current count safely
func (c *Counter) Count() int {
	return int(c.count.Load())
}

// AddTotal raises the expected total, for work discovered while counting.
func (c *Counter) AddTotal(value int) {
	c.total.Add(int64(value))
}

func (c *Counter) Total() int {
	return int(c.total.Load())
}

// Done reports whether the counter reached a known total.
func (c *Counter) Done() bool {
	total := c.Total()
	return total > 0 && c.Count() >= total
}
