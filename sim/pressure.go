// Defines the PressureController interface, the read-only state snapshot
// it consumes, and the by-name factory for the concrete controllers.

package sim

import (
	"fmt"
)

// PressureState is the observable state a controller may consult. It is a
// snapshot taken by the coordinator once per tick; controllers must treat
// it as read-only and must not reach back into Coordinator or Replica
// state.
type PressureState struct {
	Tick int64
	// ViewBacklogs holds each replica's pending view-update count, in the
	// coordinator's replica order. Replicas without a view report zero.
	ViewBacklogs []int
	// BackgroundWrites is the current count of acknowledged-but-incomplete
	// writes.
	BackgroundWrites int
}

// PressureController converts backlog state into an additional
// acknowledgement delay in ticks. Returning zero means no added delay.
// Implementations may keep internal tuning state (the adaptive controller
// does) but never write-specific state, and never mutate simulator state.
type PressureController interface {
	ComputeDelay(st PressureState) int64
}

// BacklogAggregate selects how per-replica view backlogs are folded into
// the single pressure signal.
type BacklogAggregate string

const (
	// AggregateMax uses the largest backlog. This is the default: slowing
	// the client to keep the worst queue under control drives the smaller
	// queues to zero.
	AggregateMax BacklogAggregate = "max"
	// AggregateSum uses the total backlog. A shrinking small queue can
	// mask a still-growing large one, so max is usually the better choice.
	AggregateSum BacklogAggregate = "sum"
)

// aggregateBacklog folds the per-replica backlogs per the configured rule.
func aggregateBacklog(backlogs []int, agg BacklogAggregate) int {
	total := 0
	largest := 0
	for _, b := range backlogs {
		total += b
		if b > largest {
			largest = b
		}
	}
	if agg == AggregateSum {
		return total
	}
	return largest
}

// Controller names accepted by NewPressureController and scenario configs.
const (
	ControllerNone     = "none"
	ControllerLinear   = "linear"
	ControllerAdaptive = "adaptive"
)

// NewPressureController creates a pressure controller by name.
// Valid names: "none", "linear", "adaptive". A nil controller (no pressure
// feedback) is returned for "none" and the empty string.
func NewPressureController(cfg PressureConfig) (PressureController, error) {
	agg := cfg.Aggregate
	if agg == "" {
		agg = AggregateMax
	}
	if agg != AggregateMax && agg != AggregateSum {
		return nil, fmt.Errorf("pressure: unknown aggregate %q; valid aggregates: [max, sum]", cfg.Aggregate)
	}
	switch cfg.Controller {
	case ControllerNone, "":
		return nil, nil
	case ControllerLinear:
		return NewLinearController(cfg.Gain, agg)
	case ControllerAdaptive:
		return NewAdaptiveController(cfg.TargetBacklog, cfg.Gain, agg)
	default:
		return nil, fmt.Errorf("pressure: unknown controller %q; valid controllers: [none, linear, adaptive]", cfg.Controller)
	}
}
