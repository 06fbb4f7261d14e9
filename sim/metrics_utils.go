// Export of recorded samples as gnuplot-consumable .dat files, one metric
// per file, "<tick> <value>" per line.

package sim

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// WriteDatFiles exports the recorded series into dir, creating it if
// needed. One file per metric:
//
//	replica_<id>_write_queue.dat            base-write backlog
//	replica_v<id>_write_queue.dat           view-update backlog (view replicas only)
//	coordinator_<id>_background_writes.dat
//	coordinator_<id>_foreground_writes.dat
//	coordinator_<id>_total_writes.dat
//	coordinator_<id>_pressure_delay.dat
//	coordinator_avg_throughput_<W>_ticks.dat
func (r *Recorder) WriteDatFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("metrics: creating output dir: %w", err)
	}

	replicas := r.coord.Replicas()
	for i, rep := range replicas {
		i := i
		err := r.writeSeries(dir, fmt.Sprintf("replica_%s_write_queue.dat", rep.ID),
			func(s Sample) int64 { return int64(s.BaseBacklogs[i]) })
		if err != nil {
			return err
		}
		if rep.HasView() {
			err := r.writeSeries(dir, fmt.Sprintf("replica_%s_write_queue.dat", rep.ViewID()),
				func(s Sample) int64 { return int64(s.ViewBacklogs[i]) })
			if err != nil {
				return err
			}
		}
	}

	coordSeries := []struct {
		name  string
		value func(Sample) int64
	}{
		{fmt.Sprintf("coordinator_%s_background_writes.dat", r.coord.ID), func(s Sample) int64 { return int64(s.Background) }},
		{fmt.Sprintf("coordinator_%s_foreground_writes.dat", r.coord.ID), func(s Sample) int64 { return int64(s.Foreground) }},
		{fmt.Sprintf("coordinator_%s_total_writes.dat", r.coord.ID), func(s Sample) int64 { return s.TotalWrites }},
		{fmt.Sprintf("coordinator_%s_pressure_delay.dat", r.coord.ID), func(s Sample) int64 { return s.PressureDelay }},
	}
	for _, series := range coordSeries {
		if err := r.writeSeries(dir, series.name, series.value); err != nil {
			return err
		}
	}

	return r.writeWindows(dir)
}

func (r *Recorder) writeSeries(dir, name string, value func(Sample) int64) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("metrics: creating %s: %w", name, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for _, s := range r.samples {
		fmt.Fprintf(bw, "%d %d\n", s.Tick, value(s))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("metrics: writing %s: %w", name, err)
	}
	return nil
}

func (r *Recorder) writeWindows(dir string) error {
	name := fmt.Sprintf("coordinator_avg_throughput_%d_ticks.dat", r.windowTicks)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("metrics: creating %s: %w", name, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for _, w := range r.windows {
		fmt.Fprintf(bw, "%d %g\n", w.Tick, w.WritesPerTick)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("metrics: writing %s: %w", name, err)
	}
	return nil
}
