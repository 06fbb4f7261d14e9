// Built-in scenario cases. These mirror the classic flow-control
// experiments: base-table-only quorum throttling with unequal and
// near-equal replicas, and materialized views slower than their base
// tables with the pressure controller keeping the backlog in check.

package sim

import (
	"fmt"
)

// BuiltinScenarios returns the named canned cases in a stable order.
func BuiltinScenarios() []Scenario {
	return []Scenario{
		{
			// Three base replicas at 10000/9000/8000 writes per second
			// (0.1/0.09/0.08 per tick at 100000 ticks/s). With CL=2,
			// throughput settles at the 2nd-fastest replica until the
			// background cap saturates, then drops to the slowest.
			Name:           "base-unequal",
			TicksPerSecond: 100000,
			Replicas: []ReplicaConfig{
				{ID: "1", BaseRate: 0.1},
				{ID: "2", BaseRate: 0.09},
				{ID: "3", BaseRate: 0.08},
			},
			Coordinator: CoordinatorConfig{ID: "1", WriteCL: 2, MaxBackgroundWrites: 300},
			Workload:    WorkloadClientConfig{Concurrency: 50, DurationTicks: 100000},
			Output:      OutputConfig{Dir: "out"},
		},
		{
			// One replica 1% slower than the other two.
			Name:           "base-one-slower",
			TicksPerSecond: 100000,
			Replicas: []ReplicaConfig{
				{ID: "1", BaseRate: 0.1},
				{ID: "2", BaseRate: 0.1},
				{ID: "3", BaseRate: 0.099},
			},
			Coordinator: CoordinatorConfig{ID: "1", WriteCL: 2, MaxBackgroundWrites: 300},
			Workload:    WorkloadClientConfig{Concurrency: 50, DurationTicks: 200000},
			Output:      OutputConfig{Dir: "out"},
		},
		{
			// Views with mixed speeds, some faster than their base table
			// and some slower. The adaptive controller must slow the
			// client to the pace of the slowest view.
			Name:           "views-mixed",
			TicksPerSecond: 100000,
			Replicas: []ReplicaConfig{
				{ID: "1", BaseRate: 0.1, ViewRate: 0.06},
				{ID: "2", BaseRate: 0.09, ViewRate: 0.04},
				{ID: "3", BaseRate: 0.08, ViewRate: 0.11},
			},
			Coordinator: CoordinatorConfig{
				ID: "1", WriteCL: 2, MaxBackgroundWrites: 300,
				Pressure: PressureConfig{Controller: ControllerAdaptive, TargetBacklog: 200},
			},
			Workload: WorkloadClientConfig{Concurrency: 50, DurationTicks: 200000},
			Output:   OutputConfig{Dir: "out"},
		},
		{
			// All views equally slow.
			Name:           "views-equal-slow",
			TicksPerSecond: 100000,
			Replicas: []ReplicaConfig{
				{ID: "1", BaseRate: 0.1, ViewRate: 0.03},
				{ID: "2", BaseRate: 0.1, ViewRate: 0.03},
				{ID: "3", BaseRate: 0.099, ViewRate: 0.03},
			},
			Coordinator: CoordinatorConfig{
				ID: "1", WriteCL: 2, MaxBackgroundWrites: 300,
				Pressure: PressureConfig{Controller: ControllerAdaptive, TargetBacklog: 200},
			},
			Workload: WorkloadClientConfig{Concurrency: 50, DurationTicks: 200000},
			Output:   OutputConfig{Dir: "out"},
		},
	}
}

// ScenarioByName returns the built-in case with the given name.
func ScenarioByName(name string) (*Scenario, error) {
	for _, sc := range BuiltinScenarios() {
		if sc.Name == name {
			return &sc, nil
		}
	}
	return nil, fmt.Errorf("unknown built-in scenario %q", name)
}
