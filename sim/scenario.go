// Builds a validated Scenario into a live, fully independent object graph.

package sim

import (
	"fmt"
)

// Build wires the scenario into a Simulator. Every call produces an
// entirely independent graph (clock, replicas, coordinator, workload,
// recorder) with no state shared across runs.
func (sc *Scenario) Build() (*Simulator, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	clock := NewClock(sc.TicksPerSecond)

	replicas := make([]*Replica, 0, len(sc.Replicas))
	for _, rc := range sc.Replicas {
		r, err := NewReplica(rc.ID, rc.BaseRate, rc.ViewRate)
		if err != nil {
			return nil, err
		}
		replicas = append(replicas, r)
	}

	controller, err := NewPressureController(sc.Coordinator.Pressure)
	if err != nil {
		return nil, err
	}

	coord, err := NewCoordinator(sc.Coordinator.ID, replicas,
		sc.Coordinator.WriteCL, sc.Coordinator.MaxBackgroundWrites, controller)
	if err != nil {
		return nil, err
	}
	if sc.Coordinator.Pressure.JitterTicks > 0 {
		rng := NewPartitionedRNG(sc.Seed).ForSubsystem(SubsystemPressure)
		coord.SetPressureJitter(sc.Coordinator.Pressure.JitterTicks, rng)
	}

	workload := NewWorkloadGenerator(coord, sc.Workload.concurrencyFn(),
		sc.Workload.StartTick, sc.Workload.DurationTicks)

	horizon := sc.HorizonTicks
	if horizon == 0 {
		horizon = sc.Workload.StartTick + sc.Workload.DurationTicks
	}

	return &Simulator{
		Clock:       clock,
		Replicas:    replicas,
		Coordinator: coord,
		Workload:    workload,
		Recorder:    NewRecorder(coord, sc.Output.WindowTicks),
		Horizon:     horizon,
	}, nil
}

// MustBuild is Build for scenarios known to be valid (the built-in cases);
// it panics on configuration errors.
func (sc *Scenario) MustBuild() *Simulator {
	s, err := sc.Build()
	if err != nil {
		panic(fmt.Sprintf("scenario %q: %v", sc.Name, err))
	}
	return s
}
