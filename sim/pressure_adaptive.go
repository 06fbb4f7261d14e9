package sim

import (
	"fmt"
)

// adaptiveGainStep is the multiplicative per-tick gain adjustment.
const adaptiveGainStep = 0.001

// adaptiveDeadband is the relative distance from the target backlog within
// which the gain is left alone, to avoid oscillating around the perfect
// gain.
const adaptiveDeadband = 0.1

// AdaptiveController is a linear controller whose gain is retuned every
// evaluation so the view backlog converges on a configured target length.
// A backlog above the target nudges the gain up, a non-empty backlog below
// the target nudges it down; an empty backlog carries no information (the
// delay would be zero at any gain) and leaves the gain unchanged.
//
// The gain is internal tuning state, not simulator state; the controller
// still only reads the PressureState it is handed.
type AdaptiveController struct {
	targetBacklog int
	gain          float64
	aggregate     BacklogAggregate
}

// NewAdaptiveController creates an AdaptiveController aiming at
// targetBacklog with the given starting gain (1.0 when zero).
func NewAdaptiveController(targetBacklog int, initialGain float64, aggregate BacklogAggregate) (*AdaptiveController, error) {
	if targetBacklog <= 0 {
		return nil, fmt.Errorf("adaptive controller: target_backlog must be > 0, got %d", targetBacklog)
	}
	if initialGain < 0 {
		return nil, fmt.Errorf("adaptive controller: gain must be >= 0, got %v", initialGain)
	}
	if initialGain == 0 {
		initialGain = 1.0
	}
	return &AdaptiveController{
		targetBacklog: targetBacklog,
		gain:          initialGain,
		aggregate:     aggregate,
	}, nil
}

// Gain exposes the current gain for metrics and tests.
func (ac *AdaptiveController) Gain() float64 {
	return ac.gain
}

// ComputeDelay retunes the gain toward the target backlog and returns
// gain * aggregated backlog, truncated to whole ticks.
func (ac *AdaptiveController) ComputeDelay(st PressureState) int64 {
	ql := aggregateBacklog(st.ViewBacklogs, ac.aggregate)
	target := float64(ac.targetBacklog)
	diff := float64(ql) - target
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff/target < adaptiveDeadband:
		// close enough, don't chase the perfect gain
	case ql > ac.targetBacklog:
		ac.gain *= 1 + adaptiveGainStep
	case ql > 0:
		ac.gain *= 1 - adaptiveGainStep
	}
	return int64(ac.gain * float64(ql))
}
