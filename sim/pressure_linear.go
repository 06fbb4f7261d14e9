package sim

import (
	"fmt"
)

// LinearController is the reference pressure controller: the added delay
// is the aggregated view backlog times a fixed gain. Zero backlog yields
// zero delay; gain zero makes the controller a no-op.
type LinearController struct {
	gain      float64
	aggregate BacklogAggregate
}

// NewLinearController creates a LinearController with the given gain and
// backlog aggregation rule.
func NewLinearController(gain float64, aggregate BacklogAggregate) (*LinearController, error) {
	if gain < 0 {
		return nil, fmt.Errorf("linear controller: gain must be >= 0, got %v", gain)
	}
	return &LinearController{gain: gain, aggregate: aggregate}, nil
}

// ComputeDelay returns gain * aggregated backlog, truncated to whole ticks.
func (lc *LinearController) ComputeDelay(st PressureState) int64 {
	ql := aggregateBacklog(st.ViewBacklogs, lc.aggregate)
	return int64(lc.gain * float64(ql))
}
