// Implements the closed-loop workload generator: a client that keeps a
// target number of writes outstanding against the coordinator and measures
// per-write acknowledgement latency.

package sim

import (
	"github.com/sirupsen/logrus"
)

// ConcurrencyFn maps a tick to the client's target number of outstanding
// (unacknowledged) writes at that tick.
type ConcurrencyFn func(tick int64) int

// FixedConcurrency returns a ConcurrencyFn holding a constant target.
func FixedConcurrency(n int) ConcurrencyFn {
	return func(int64) int { return n }
}

// RampConcurrency returns a ConcurrencyFn that moves linearly from `from`
// at startTick to `to` at startTick+durationTicks, holding `to` afterwards.
func RampConcurrency(from, to int, startTick, durationTicks int64) ConcurrencyFn {
	return func(tick int64) int {
		if durationTicks <= 0 || tick >= startTick+durationTicks {
			return to
		}
		if tick <= startTick {
			return from
		}
		progress := float64(tick-startTick) / float64(durationTicks)
		return from + int(progress*float64(to-from))
	}
}

// ConcurrencyPhase is one piece of a piecewise-constant concurrency
// profile.
type ConcurrencyPhase struct {
	Concurrency int
	Ticks       int64
}

// PhasedConcurrency returns a ConcurrencyFn stepping through the given
// phases starting at startTick. After the last phase the final
// concurrency is held.
func PhasedConcurrency(phases []ConcurrencyPhase, startTick int64) ConcurrencyFn {
	return func(tick int64) int {
		at := startTick
		for _, p := range phases {
			at += p.Ticks
			if tick < at {
				return p.Concurrency
			}
		}
		if len(phases) == 0 {
			return 0
		}
		return phases[len(phases)-1].Concurrency
	}
}

// WorkloadGenerator issues writes into a Coordinator, topping outstanding
// writes up to the target concurrency every tick during
// [startTick, endTick). A slot freed by an acknowledgement is refilled the
// same tick because the generator runs after coordinator evaluation.
// Writes are never cancelled; after endTick the outstanding ones drain.
type WorkloadGenerator struct {
	coord     *Coordinator
	target    ConcurrencyFn
	startTick int64
	endTick   int64

	issued    int64
	latencies []int64
}

// NewWorkloadGenerator creates a generator driving the given coordinator
// for durationTicks starting at startTick.
func NewWorkloadGenerator(coord *Coordinator, target ConcurrencyFn, startTick, durationTicks int64) *WorkloadGenerator {
	return &WorkloadGenerator{
		coord:     coord,
		target:    target,
		startTick: startTick,
		endTick:   startTick + durationTicks,
	}
}

// Tick records latencies for writes acknowledged this tick, then issues
// new writes until the outstanding count meets the current target.
func (wg *WorkloadGenerator) Tick(now int64) {
	for _, w := range wg.coord.AckedThisTick() {
		wg.latencies = append(wg.latencies, w.Latency())
	}
	if now < wg.startTick || now >= wg.endTick {
		return
	}
	want := wg.target(now)
	if want < 0 {
		logrus.Warnf("[tick %07d] workload: negative target concurrency %d, treating as zero", now, want)
		want = 0
	}
	for wg.coord.UnackedWrites() < want {
		wg.coord.Submit(now)
		wg.issued++
	}
}

// Issued is the total number of writes this generator has submitted.
func (wg *WorkloadGenerator) Issued() int64 {
	return wg.issued
}

// Latencies returns the acknowledgement latencies observed so far, in ack
// order. The slice is owned by the generator.
func (wg *WorkloadGenerator) Latencies() []int64 {
	return wg.latencies
}
