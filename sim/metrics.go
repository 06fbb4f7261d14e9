// Tracks per-tick simulation samples and end-of-run aggregates: ack
// throughput, background/foreground write counts, per-replica backlogs,
// pressure delay, and client latency statistics.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultWindowTicks is the averaging window for the smoothed throughput
// series.
const DefaultWindowTicks = 2000

// Sample is one per-tick observation. Samples are immutable once recorded
// and strictly ordered by tick; the recorder never revises one, so
// downstream consumers can stream them.
type Sample struct {
	Tick          int64
	Acks          int   // acknowledgements during this tick
	TotalWrites   int64 // cumulative submitted writes
	Background    int   // acked writes still running on replicas
	Foreground    int   // issued writes not yet acked
	PressureDelay int64 // controller delay computed this tick
	BaseBacklogs  []int // per-replica pending base writes, coordinator order
	ViewBacklogs  []int // per-replica pending view updates, coordinator order
}

// WindowSample is one point of the smoothed throughput series: the mean
// writes admitted per tick over the window ending at Tick. In the closed
// loop this equals the acknowledgement rate at steady state, and the
// initial concurrency fill shows up as a burst at the start of a run.
type WindowSample struct {
	Tick          int64
	WritesPerTick float64
}

// Recorder samples coordinator and replica state once per tick, after all
// updates for the tick have settled. It is the export surface consumed by
// the external plotting collaborator.
type Recorder struct {
	coord       *Coordinator
	windowTicks int64

	samples []Sample
	windows []WindowSample

	lastWindowWrites int64
}

// NewRecorder creates a Recorder for the coordinator's run. windowTicks
// controls the smoothed throughput series; zero selects
// DefaultWindowTicks.
func NewRecorder(coord *Coordinator, windowTicks int64) *Recorder {
	if windowTicks <= 0 {
		windowTicks = DefaultWindowTicks
	}
	return &Recorder{coord: coord, windowTicks: windowTicks}
}

// Record appends the sample for the current tick. Must run last within the
// tick, after replica, coordinator and workload updates.
func (r *Recorder) Record(now int64) {
	replicas := r.coord.Replicas()
	baseBacklogs := make([]int, len(replicas))
	viewBacklogs := make([]int, len(replicas))
	for i, rep := range replicas {
		baseBacklogs[i] = rep.BaseBacklog()
		viewBacklogs[i] = rep.ViewBacklog()
	}
	acks := len(r.coord.AckedThisTick())
	r.samples = append(r.samples, Sample{
		Tick:          now,
		Acks:          acks,
		TotalWrites:   r.coord.TotalWrites(),
		Background:    r.coord.BackgroundWrites(),
		Foreground:    r.coord.UnackedWrites(),
		PressureDelay: r.coord.CurrentPressureDelay(),
		BaseBacklogs:  baseBacklogs,
		ViewBacklogs:  viewBacklogs,
	})

	if now > 0 && now%r.windowTicks == 0 {
		total := r.coord.TotalWrites()
		r.windows = append(r.windows, WindowSample{
			Tick:          now,
			WritesPerTick: float64(total-r.lastWindowWrites) / float64(r.windowTicks),
		})
		r.lastWindowWrites = total
	}
}

// Samples returns the full per-tick sample log.
func (r *Recorder) Samples() []Sample {
	return r.samples
}

// Windows returns the smoothed throughput series.
func (r *Recorder) Windows() []WindowSample {
	return r.windows
}

// WindowTicks returns the configured averaging window.
func (r *Recorder) WindowTicks() int64 {
	return r.windowTicks
}

// Summary aggregates a finished run for reporting. Latency figures are in
// ticks; SimSeconds uses the clock's tick rate.
type Summary struct {
	TotalWrites int64
	TotalAcks   int64
	SimTicks    int64
	SimSeconds  float64

	MeanLatency float64
	P50Latency  float64
	P95Latency  float64
	P99Latency  float64
	MaxLatency  int64
}

// Summarize computes the end-of-run summary from the generator's observed
// latencies.
func Summarize(clock *Clock, coord *Coordinator, wg *WorkloadGenerator) Summary {
	s := Summary{
		TotalWrites: coord.TotalWrites(),
		TotalAcks:   coord.TotalAcks(),
		SimTicks:    clock.Now(),
		SimSeconds:  clock.Seconds(clock.Now()),
	}
	lats := wg.Latencies()
	if len(lats) == 0 {
		return s
	}
	sorted := make([]float64, len(lats))
	for i, l := range lats {
		sorted[i] = float64(l)
	}
	sort.Float64s(sorted)
	s.MeanLatency = stat.Mean(sorted, nil)
	s.P50Latency = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P95Latency = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	s.P99Latency = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	s.MaxLatency = int64(sorted[len(sorted)-1])
	return s
}

// Print displays the summary at the end of a run.
func (s Summary) Print() {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Simulated time       : %d ticks (%.3f s)\n", s.SimTicks, s.SimSeconds)
	fmt.Printf("Writes submitted     : %d\n", s.TotalWrites)
	fmt.Printf("Writes acknowledged  : %d\n", s.TotalAcks)
	if s.TotalAcks > 0 {
		fmt.Printf("Mean ack latency     : %.2f ticks\n", s.MeanLatency)
		fmt.Printf("P50 ack latency      : %.2f ticks\n", s.P50Latency)
		fmt.Printf("P95 ack latency      : %.2f ticks\n", s.P95Latency)
		fmt.Printf("P99 ack latency      : %.2f ticks\n", s.P99Latency)
		fmt.Printf("Max ack latency      : %d ticks\n", s.MaxLatency)
	}
}
