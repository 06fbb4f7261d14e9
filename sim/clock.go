package sim

// Clock owns simulated time for one run. Time advances in integer ticks;
// TicksPerSecond only matters when converting exported samples to
// wall-clock seconds, the engine itself never sees it.
//
// Clock is explicit state rather than a package global so that multiple
// independent simulations can run in the same process.
type Clock struct {
	now            int64
	TicksPerSecond float64
}

// NewClock returns a Clock at tick zero.
func NewClock(ticksPerSecond float64) *Clock {
	return &Clock{TicksPerSecond: ticksPerSecond}
}

// Now returns the current tick.
func (c *Clock) Now() int64 {
	return c.now
}

// Advance moves the clock forward by one tick and returns the new value.
func (c *Clock) Advance() int64 {
	c.now++
	return c.now
}

// Seconds converts a tick count to simulated seconds.
func (c *Clock) Seconds(tick int64) float64 {
	if c.TicksPerSecond <= 0 {
		return float64(tick)
	}
	return float64(tick) / c.TicksPerSecond
}
