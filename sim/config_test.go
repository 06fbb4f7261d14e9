package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validScenario() Scenario {
	return Scenario{
		Name:           "test",
		TicksPerSecond: 100000,
		Replicas: []ReplicaConfig{
			{ID: "1", BaseRate: 0.1},
			{ID: "2", BaseRate: 0.09},
		},
		Coordinator: CoordinatorConfig{ID: "1", WriteCL: 1, MaxBackgroundWrites: 100},
		Workload:    WorkloadClientConfig{Concurrency: 10, DurationTicks: 1000},
	}
}

func TestScenarioValidate_AcceptsValidConfig(t *testing.T) {
	sc := validScenario()
	assert.NoError(t, sc.Validate())
}

func TestScenarioValidate_RejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"empty replica list", func(sc *Scenario) { sc.Replicas = nil }},
		{"empty replica id", func(sc *Scenario) { sc.Replicas[0].ID = "" }},
		{"duplicate replica id", func(sc *Scenario) { sc.Replicas[1].ID = "1" }},
		{"zero base rate", func(sc *Scenario) { sc.Replicas[0].BaseRate = 0 }},
		{"negative base rate", func(sc *Scenario) { sc.Replicas[0].BaseRate = -1 }},
		{"negative view rate", func(sc *Scenario) { sc.Replicas[0].ViewRate = -1 }},
		{"write_cl zero", func(sc *Scenario) { sc.Coordinator.WriteCL = 0 }},
		{"write_cl above replica count", func(sc *Scenario) { sc.Coordinator.WriteCL = 3 }},
		{"negative cap", func(sc *Scenario) { sc.Coordinator.MaxBackgroundWrites = -1 }},
		{"unknown controller", func(sc *Scenario) { sc.Coordinator.Pressure.Controller = "pid" }},
		{"unknown aggregate", func(sc *Scenario) {
			sc.Coordinator.Pressure = PressureConfig{Controller: ControllerLinear, Aggregate: "median"}
		}},
		{"negative gain", func(sc *Scenario) {
			sc.Coordinator.Pressure = PressureConfig{Controller: ControllerLinear, Gain: -1}
		}},
		{"adaptive without target", func(sc *Scenario) {
			sc.Coordinator.Pressure = PressureConfig{Controller: ControllerAdaptive}
		}},
		{"negative jitter", func(sc *Scenario) {
			sc.Coordinator.Pressure = PressureConfig{Controller: ControllerLinear, JitterTicks: -1}
		}},
		{"zero duration", func(sc *Scenario) { sc.Workload.DurationTicks = 0 }},
		{"negative start tick", func(sc *Scenario) { sc.Workload.StartTick = -1 }},
		{"no concurrency profile", func(sc *Scenario) { sc.Workload.Concurrency = 0 }},
		{"two concurrency profiles", func(sc *Scenario) { sc.Workload.Ramp = &RampConfig{From: 1, To: 2} }},
		{"negative phase concurrency", func(sc *Scenario) {
			sc.Workload.Concurrency = 0
			sc.Workload.Phases = []PhaseConfig{{Concurrency: -1, Ticks: 10}}
		}},
		{"zero phase ticks", func(sc *Scenario) {
			sc.Workload.Concurrency = 0
			sc.Workload.Phases = []PhaseConfig{{Concurrency: 1, Ticks: 0}}
		}},
		{"negative ramp endpoint", func(sc *Scenario) {
			sc.Workload.Concurrency = 0
			sc.Workload.Ramp = &RampConfig{From: -1, To: 10}
		}},
		{"horizon before workload end", func(sc *Scenario) { sc.HorizonTicks = 500 }},
		{"negative horizon", func(sc *Scenario) { sc.HorizonTicks = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc := validScenario()
			tc.mutate(&sc)
			assert.Error(t, sc.Validate())
		})
	}
}

func TestLoadScenario_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `
name: views-equal-slow
ticks_per_second: 100000
seed: 7
replicas:
  - id: "1"
    base_rate: 0.1
    view_rate: 0.03
  - id: "2"
    base_rate: 0.099
coordinator:
  id: "1"
  write_cl: 2
  max_background_writes: 300
  pressure:
    controller: adaptive
    target_backlog: 200
    aggregate: max
workload:
  concurrency: 50
  duration_ticks: 200000
output:
  dir: out
  window_ticks: 2000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "views-equal-slow", sc.Name)
	assert.Equal(t, int64(7), sc.Seed)
	require.Len(t, sc.Replicas, 2)
	assert.Equal(t, 0.03, sc.Replicas[0].ViewRate)
	assert.Equal(t, 2, sc.Coordinator.WriteCL)
	assert.Equal(t, ControllerAdaptive, sc.Coordinator.Pressure.Controller)
	assert.Equal(t, AggregateMax, sc.Coordinator.Pressure.Aggregate)
	assert.Equal(t, 200, sc.Coordinator.Pressure.TargetBacklog)
	assert.Equal(t, 50, sc.Workload.Concurrency)
	assert.Equal(t, int64(2000), sc.Output.WindowTicks)
}

func TestLoadScenario_RejectsInvalidFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "missing file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("replicas: 3"), 0o644))
	_, err = LoadScenario(path)
	assert.Error(t, err, "malformed yaml")

	path2 := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path2, []byte("replicas: []\n"), 0o644))
	_, err = LoadScenario(path2)
	assert.Error(t, err, "fails validation")
}

func TestConcurrencyFnSelection(t *testing.T) {
	wc := WorkloadClientConfig{Concurrency: 5, DurationTicks: 100}
	assert.Equal(t, 5, wc.concurrencyFn()(0))

	wc = WorkloadClientConfig{
		Phases:        []PhaseConfig{{Concurrency: 2, Ticks: 10}, {Concurrency: 4, Ticks: 10}},
		DurationTicks: 20,
	}
	fn := wc.concurrencyFn()
	assert.Equal(t, 2, fn(5))
	assert.Equal(t, 4, fn(15))

	wc = WorkloadClientConfig{Ramp: &RampConfig{From: 0, To: 10}, DurationTicks: 100}
	fn = wc.concurrencyFn()
	assert.Equal(t, 0, fn(0))
	assert.Equal(t, 10, fn(100))
}
