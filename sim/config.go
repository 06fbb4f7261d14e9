// Scenario configuration: the YAML schema describing a run and its
// validation. A Scenario is pure data; Build (scenario.go) turns it into a
// live object graph.

package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReplicaConfig defines one replica: identity and service rates in
// completions per tick. ViewRate zero means no materialized view.
type ReplicaConfig struct {
	ID       string  `yaml:"id"`
	BaseRate float64 `yaml:"base_rate"`
	ViewRate float64 `yaml:"view_rate,omitempty"`
}

// PressureConfig selects and parameterizes the pressure controller.
type PressureConfig struct {
	Controller    string           `yaml:"controller,omitempty"` // none (default), linear, adaptive
	Gain          float64          `yaml:"gain,omitempty"`
	Aggregate     BacklogAggregate `yaml:"aggregate,omitempty"`      // max (default) or sum
	TargetBacklog int              `yaml:"target_backlog,omitempty"` // adaptive only
	JitterTicks   int64            `yaml:"jitter_ticks,omitempty"`   // 0 = no jitter
}

// CoordinatorConfig defines the coordinator topology and flow control.
type CoordinatorConfig struct {
	ID                  string         `yaml:"id"`
	WriteCL             int            `yaml:"write_cl"`
	MaxBackgroundWrites int            `yaml:"max_background_writes"`
	Pressure            PressureConfig `yaml:"pressure,omitempty"`
}

// PhaseConfig is one piece of a piecewise-constant concurrency profile.
type PhaseConfig struct {
	Concurrency int   `yaml:"concurrency"`
	Ticks       int64 `yaml:"ticks"`
}

// RampConfig describes a linear concurrency ramp over the workload
// duration.
type RampConfig struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// WorkloadClientConfig defines the closed-loop client. Exactly one of
// Concurrency, Phases or Ramp selects the concurrency profile.
type WorkloadClientConfig struct {
	Concurrency   int           `yaml:"concurrency,omitempty"`
	Phases        []PhaseConfig `yaml:"phases,omitempty"`
	Ramp          *RampConfig   `yaml:"ramp,omitempty"`
	StartTick     int64         `yaml:"start_tick,omitempty"`
	DurationTicks int64         `yaml:"duration_ticks"`
}

// OutputConfig controls metric export.
type OutputConfig struct {
	Dir         string `yaml:"dir,omitempty"`
	WindowTicks int64  `yaml:"window_ticks,omitempty"`
}

// Scenario is the complete data-driven description of one simulation run.
type Scenario struct {
	Name           string               `yaml:"name,omitempty"`
	TicksPerSecond float64              `yaml:"ticks_per_second,omitempty"`
	Seed           int64                `yaml:"seed,omitempty"`
	Replicas       []ReplicaConfig      `yaml:"replicas"`
	Coordinator    CoordinatorConfig    `yaml:"coordinator"`
	Workload       WorkloadClientConfig `yaml:"workload"`
	// HorizonTicks is the total simulated time; zero means the workload
	// window with no extra drain time.
	HorizonTicks int64        `yaml:"horizon_ticks,omitempty"`
	Output       OutputConfig `yaml:"output,omitempty"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario: parsing %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks the scenario for configuration errors. It is called by
// LoadScenario and Build; a scenario failing validation is fatal to the
// run, never silently corrected.
func (sc *Scenario) Validate() error {
	if len(sc.Replicas) == 0 {
		return fmt.Errorf("replica list must not be empty")
	}
	seen := make(map[string]bool, len(sc.Replicas))
	for _, rc := range sc.Replicas {
		if rc.ID == "" {
			return fmt.Errorf("replica id must not be empty")
		}
		if seen[rc.ID] {
			return fmt.Errorf("duplicate replica id %q", rc.ID)
		}
		seen[rc.ID] = true
		if rc.BaseRate <= 0 {
			return fmt.Errorf("replica %s: base_rate must be > 0, got %v", rc.ID, rc.BaseRate)
		}
		if rc.ViewRate < 0 {
			return fmt.Errorf("replica %s: view_rate must be >= 0, got %v", rc.ID, rc.ViewRate)
		}
	}
	if sc.Coordinator.WriteCL < 1 || sc.Coordinator.WriteCL > len(sc.Replicas) {
		return fmt.Errorf("write_cl %d out of range [1, %d]", sc.Coordinator.WriteCL, len(sc.Replicas))
	}
	if sc.Coordinator.MaxBackgroundWrites < 0 {
		return fmt.Errorf("max_background_writes must be >= 0, got %d", sc.Coordinator.MaxBackgroundWrites)
	}
	if err := sc.Coordinator.Pressure.validate(); err != nil {
		return err
	}
	if err := sc.Workload.validate(); err != nil {
		return err
	}
	if sc.HorizonTicks < 0 {
		return fmt.Errorf("horizon_ticks must be >= 0, got %d", sc.HorizonTicks)
	}
	if sc.HorizonTicks > 0 && sc.HorizonTicks < sc.Workload.StartTick+sc.Workload.DurationTicks {
		return fmt.Errorf("horizon_ticks %d ends before the workload window", sc.HorizonTicks)
	}
	return nil
}

func (pc *PressureConfig) validate() error {
	switch pc.Controller {
	case "", ControllerNone, ControllerLinear, ControllerAdaptive:
	default:
		return fmt.Errorf("pressure: unknown controller %q; valid controllers: [none, linear, adaptive]", pc.Controller)
	}
	switch pc.Aggregate {
	case "", AggregateMax, AggregateSum:
	default:
		return fmt.Errorf("pressure: unknown aggregate %q; valid aggregates: [max, sum]", pc.Aggregate)
	}
	if pc.Gain < 0 {
		return fmt.Errorf("pressure: gain must be >= 0, got %v", pc.Gain)
	}
	if pc.Controller == ControllerAdaptive && pc.TargetBacklog <= 0 {
		return fmt.Errorf("pressure: adaptive controller needs target_backlog > 0, got %d", pc.TargetBacklog)
	}
	if pc.JitterTicks < 0 {
		return fmt.Errorf("pressure: jitter_ticks must be >= 0, got %d", pc.JitterTicks)
	}
	return nil
}

func (wc *WorkloadClientConfig) validate() error {
	if wc.DurationTicks <= 0 {
		return fmt.Errorf("workload: duration_ticks must be > 0, got %d", wc.DurationTicks)
	}
	if wc.StartTick < 0 {
		return fmt.Errorf("workload: start_tick must be >= 0, got %d", wc.StartTick)
	}
	profiles := 0
	if wc.Concurrency > 0 {
		profiles++
	}
	if len(wc.Phases) > 0 {
		profiles++
	}
	if wc.Ramp != nil {
		profiles++
	}
	if profiles != 1 {
		return fmt.Errorf("workload: exactly one of concurrency, phases, ramp must be set")
	}
	if wc.Concurrency < 0 {
		return fmt.Errorf("workload: concurrency must be >= 0, got %d", wc.Concurrency)
	}
	for i, p := range wc.Phases {
		if p.Concurrency < 0 {
			return fmt.Errorf("workload: phase %d: concurrency must be >= 0, got %d", i, p.Concurrency)
		}
		if p.Ticks <= 0 {
			return fmt.Errorf("workload: phase %d: ticks must be > 0, got %d", i, p.Ticks)
		}
	}
	if wc.Ramp != nil && (wc.Ramp.From < 0 || wc.Ramp.To < 0) {
		return fmt.Errorf("workload: ramp endpoints must be >= 0, got from=%d to=%d", wc.Ramp.From, wc.Ramp.To)
	}
	return nil
}

// concurrencyFn compiles the configured profile into a ConcurrencyFn.
func (wc *WorkloadClientConfig) concurrencyFn() ConcurrencyFn {
	switch {
	case len(wc.Phases) > 0:
		phases := make([]ConcurrencyPhase, len(wc.Phases))
		for i, p := range wc.Phases {
			phases[i] = ConcurrencyPhase{Concurrency: p.Concurrency, Ticks: p.Ticks}
		}
		return PhasedConcurrency(phases, wc.StartTick)
	case wc.Ramp != nil:
		return RampConcurrency(wc.Ramp.From, wc.Ramp.To, wc.StartTick, wc.DurationTicks)
	default:
		return FixedConcurrency(wc.Concurrency)
	}
}
