// Package sim provides the core discrete-event simulation engine for
// replica-sim, a simulator of a replicated write path with quorum
// acknowledgement and flow control.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - clock.go: the tick counter that drives everything
//   - replica.go: the fractional-rate service model (base and view queues)
//   - write.go: Write lifecycle (issued → quorum → acknowledged → completed)
//   - coordinator.go: quorum bookkeeping, the background-write cap, and
//     pressure-delayed acknowledgement
//   - simulator.go: the tick loop and its fixed intra-tick ordering
//
// # Architecture
//
// A Scenario (config.go) is validated and built into an independent object
// graph (scenario.go): one Clock, N Replicas, one Coordinator, one
// WorkloadGenerator and one Recorder. Simulator.Run advances the Clock one
// tick at a time; within a tick the order is always replicas, coordinator,
// workload, metrics. Nothing blocks and nothing is shared across runs, so
// the same scenario always produces identical samples.
//
// # Key Interfaces
//
// PressureController (pressure.go) is the extension point: a pure function
// from observable backlog state to an added acknowledgement delay. The
// linear controller is the reference implementation; the adaptive
// controller adjusts its gain toward a target backlog. New controllers are
// added as variants in NewPressureController, not by touching the
// Coordinator.
package sim
