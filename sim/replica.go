// Implements the Replica and its fractional-rate service model. A replica
// has a base-write channel and, when materialized views are configured, a
// view-update channel; each channel services its FIFO at a fractional
// number of completions per tick.

package sim

import (
	"fmt"
)

// serviceChannel models one capacity channel of a replica. Every tick it
// earns `rate` units of credit; each whole unit of credit pays for one
// completion, oldest write first.
//
// While the queue is empty, credit keeps accumulating but is capped at 1.
// That allows a single instantly-serviced write when load arrives after an
// idle period (the "burst" at the start of a run) without letting an idle
// channel bank unbounded catch-up capacity.
type serviceChannel struct {
	rate    float64
	credit  float64
	pending writeQueue
	// done holds the writes completed during the current tick until the
	// coordinator drains them.
	done []*Write
}

// tick advances the channel by one tick, moving any writes the accumulated
// credit pays for from pending to done.
func (sc *serviceChannel) tick() {
	sc.credit += sc.rate
	for sc.credit >= 1.0 && sc.pending.Len() > 0 {
		sc.credit -= 1.0
		sc.done = append(sc.done, sc.pending.Dequeue())
	}
	if sc.credit > 1.0 {
		// Queue is empty (the loop above would have spent the credit
		// otherwise). Keep at most one operation's worth of idle capacity.
		sc.credit = 1.0
	}
	if sc.credit < 0 || (sc.pending.Len() > 0 && sc.credit >= 1.0) {
		panic(fmt.Sprintf("internal invariant: service credit %v out of range with %d pending",
			sc.credit, sc.pending.Len()))
	}
}

// drain returns the completions produced since the last drain.
func (sc *serviceChannel) drain() []*Write {
	d := sc.done
	sc.done = nil
	return d
}

// Replica is one independent service unit of the replicated write path.
// Only the Coordinator mutates its inbound queues; the metrics layer reads
// backlog lengths.
type Replica struct {
	ID string

	base serviceChannel
	// view is nil when the replica has no materialized view.
	view *serviceChannel
}

// NewReplica creates a replica with the given service rates, in
// completions per tick. viewRate zero means no view replica; viewRate
// greater than zero attaches a view channel serviced independently of the
// base channel.
func NewReplica(id string, baseRate, viewRate float64) (*Replica, error) {
	if id == "" {
		return nil, fmt.Errorf("replica: id must not be empty")
	}
	if baseRate <= 0 {
		return nil, fmt.Errorf("replica %s: base_rate must be > 0, got %v", id, baseRate)
	}
	if viewRate < 0 {
		return nil, fmt.Errorf("replica %s: view_rate must be >= 0, got %v", id, viewRate)
	}
	r := &Replica{
		ID:   id,
		base: serviceChannel{rate: baseRate},
	}
	if viewRate > 0 {
		r.view = &serviceChannel{rate: viewRate}
	}
	return r, nil
}

// HasView reports whether this replica services materialized-view updates.
func (r *Replica) HasView() bool {
	return r.view != nil
}

// ViewID is the identity of the attached view replica in exported metrics.
func (r *Replica) ViewID() string {
	return "v" + r.ID
}

// BaseRate returns the configured base service rate in completions/tick.
func (r *Replica) BaseRate() float64 {
	return r.base.rate
}

// ViewRate returns the view service rate, zero when no view is attached.
func (r *Replica) ViewRate() float64 {
	if r.view == nil {
		return 0
	}
	return r.view.rate
}

// Submit enqueues a write's base operation and, when a view is attached,
// its view-update operation.
func (r *Replica) Submit(w *Write) {
	r.base.pending.Enqueue(w)
	if r.view != nil {
		r.view.pending.Enqueue(w)
	}
}

// Tick advances both channels by one simulation tick.
func (r *Replica) Tick() {
	r.base.tick()
	if r.view != nil {
		r.view.tick()
	}
}

// DrainBaseCompletions returns the base writes completed since the last
// drain, in completion (FIFO) order.
func (r *Replica) DrainBaseCompletions() []*Write {
	return r.base.drain()
}

// DrainViewCompletions returns the view updates completed since the last
// drain. Always empty for replicas without a view.
func (r *Replica) DrainViewCompletions() []*Write {
	if r.view == nil {
		return nil
	}
	return r.view.drain()
}

// BaseBacklog returns the number of pending base writes.
func (r *Replica) BaseBacklog() int {
	return r.base.pending.Len()
}

// ViewBacklog returns the number of pending view updates, zero when no
// view is attached.
func (r *Replica) ViewBacklog() int {
	if r.view == nil {
		return 0
	}
	return r.view.pending.Len()
}
