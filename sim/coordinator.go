// Implements the Coordinator: fan-out of writes to the replica set, quorum
// acknowledgement, the hard cap on background writes, and pressure-delayed
// acknowledgement.

package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Coordinator orchestrates writes across its replicas. It owns every live
// Write exclusively from Submit until full completion, and it is the only
// component that mutates replica inbound queues.
type Coordinator struct {
	ID       string
	replicas []*Replica

	writeCL       int
	maxBackground int
	controller    PressureController

	// jitterTicks > 0 adds one-sided uniform jitter in [0, jitterTicks) to
	// every non-zero pressure delay, drawn from jitterRNG.
	jitterTicks int64
	jitterRNG   *rand.Rand

	nViewOps int
	nextID   int64

	// live holds in-flight writes by ID. Ordered logic never iterates this
	// map; it exists so the live set is inspectable.
	live map[int64]*Write

	// pendingAck is the FIFO of writes that reached quorum but have not
	// cleared the background-write cap. The head blocks the rest, so
	// acknowledgement order is deterministic.
	pendingAck []*Write
	// delayedAck holds writes that cleared the cap but whose
	// acknowledgement is withheld by a pressure delay until ackDue. Each
	// holds a reserved background slot, counted in committed.
	delayedAck []*Write

	background int
	// committed counts writes waiting out a pressure delay. They reserve
	// their background slot for the duration, so the cap gate checks
	// background+committed and can never be oversubscribed.
	committed int
	unacked   int

	totalWrites int64
	totalAcks   int64

	// currentDelay is the controller delay computed this tick; applied to
	// every write clearing the cap this tick and sampled by the recorder.
	currentDelay int64

	ackedThisTick []*Write
}

// NewCoordinator validates the topology and returns a Coordinator.
// Configuration errors (empty replica list, write_CL outside [1, N],
// negative cap) are fatal to the scenario and reported here, never at
// runtime.
func NewCoordinator(id string, replicas []*Replica, writeCL, maxBackgroundWrites int, controller PressureController) (*Coordinator, error) {
	if id == "" {
		return nil, fmt.Errorf("coordinator: id must not be empty")
	}
	if len(replicas) == 0 {
		return nil, fmt.Errorf("coordinator %s: replica list must not be empty", id)
	}
	if writeCL < 1 || writeCL > len(replicas) {
		return nil, fmt.Errorf("coordinator %s: write_CL %d out of range [1, %d]", id, writeCL, len(replicas))
	}
	if maxBackgroundWrites < 0 {
		return nil, fmt.Errorf("coordinator %s: max_background_writes must be >= 0, got %d", id, maxBackgroundWrites)
	}
	nViewOps := 0
	for _, r := range replicas {
		if r.HasView() {
			nViewOps++
		}
	}
	return &Coordinator{
		ID:            id,
		replicas:      replicas,
		writeCL:       writeCL,
		maxBackground: maxBackgroundWrites,
		controller:    controller,
		nViewOps:      nViewOps,
		live:          make(map[int64]*Write),
	}, nil
}

// SetPressureJitter enables deterministic one-sided jitter on pressure
// delays, drawn from the given RNG. Zero ticks disables jitter.
func (c *Coordinator) SetPressureJitter(ticks int64, rng *rand.Rand) {
	c.jitterTicks = ticks
	c.jitterRNG = rng
}

// Replicas returns the coordinator's replica list in configured order.
func (c *Coordinator) Replicas() []*Replica {
	return c.replicas
}

// WriteCL returns the configured consistency level.
func (c *Coordinator) WriteCL() int {
	return c.writeCL
}

// Submit creates a new write at the given tick and fans it out to every
// replica (base queue, plus view queue where views are configured).
func (c *Coordinator) Submit(now int64) *Write {
	w := NewWrite(c.nextID, now, len(c.replicas), c.nViewOps)
	c.nextID++
	for _, r := range c.replicas {
		r.Submit(w)
	}
	c.live[w.ID] = w
	c.unacked++
	c.totalWrites++
	logrus.Debugf("[tick %07d] coordinator %s: submitted write %d", now, c.ID, w.ID)
	return w
}

// Tick drains replica completions and evaluates acknowledgement for the
// current tick. Must run after every replica's Tick.
func (c *Coordinator) Tick(now int64) {
	c.ackedThisTick = c.ackedThisTick[:0]

	// Drain completions in replica order, oldest write first, so the
	// quorum bookkeeping is fully deterministic.
	for _, r := range c.replicas {
		for _, w := range r.DrainBaseCompletions() {
			w.BaseDoneAt[r.ID] = now
			w.baseCompletions++
			w.remainingOps--
			if w.baseCompletions == c.writeCL {
				w.QuorumTick = now
				w.State = StatePendingAck
				c.pendingAck = append(c.pendingAck, w)
			}
			c.noteProgress(w, now)
		}
		for _, w := range r.DrainViewCompletions() {
			w.ViewDoneAt[r.ViewID()] = now
			w.remainingOps--
			c.noteProgress(w, now)
		}
	}

	c.currentDelay = c.evalPressure(now)

	// Fire delayed acknowledgements that are due. Writes force-acked at
	// completion remain in the slice as tombstones and are dropped here.
	remaining := c.delayedAck[:0]
	for _, w := range c.delayedAck {
		switch {
		case w.Acked():
		case now >= w.ackDue:
			c.committed--
			c.ack(w, now)
		default:
			remaining = append(remaining, w)
		}
	}
	c.delayedAck = remaining

	// Move quorum-satisfied writes past the cap. The effective ack tick is
	// the max of the quorum tick, the tick the cap clears, and the
	// pressure delay added at that point. A write entering the delay
	// window keeps its slot reserved, so later writes cannot pass the gate
	// against it.
	for len(c.pendingAck) > 0 {
		w := c.pendingAck[0]
		if w.Acked() {
			c.pendingAck = c.pendingAck[1:]
			continue
		}
		if c.background+c.committed >= c.maxBackground {
			break
		}
		c.pendingAck = c.pendingAck[1:]
		delay := c.currentDelay
		if c.jitterTicks > 0 && delay > 0 {
			delay += c.jitterRNG.Int63n(c.jitterTicks)
		}
		if delay > 0 {
			w.ackDue = now + delay
			c.committed++
			c.delayedAck = append(c.delayedAck, w)
		} else {
			c.ack(w, now)
		}
	}
}

// noteProgress retires a write once its last replica operation finished.
// A write still awaiting a deferred acknowledgement at that point is
// acknowledged at its completion tick: the acknowledgement may never trail
// full completion.
func (c *Coordinator) noteProgress(w *Write, now int64) {
	if w.remainingOps > 0 {
		return
	}
	if w.remainingOps < 0 {
		panic(fmt.Sprintf("internal invariant: write %d completed %d ops too many", w.ID, -w.remainingOps))
	}
	w.CompletedTick = now
	if w.Acked() {
		c.background--
		if c.background < 0 {
			panic(fmt.Sprintf("internal invariant: negative background count at tick %d", now))
		}
	} else {
		// Clamped deferral: retired without ever entering background. A
		// write that was waiting out a pressure delay gives its reserved
		// slot back.
		if w.ackDue != TickUnset {
			c.committed--
			if c.committed < 0 {
				panic(fmt.Sprintf("internal invariant: negative committed count at tick %d", now))
			}
		}
		w.AckTick = now
		c.unacked--
		c.totalAcks++
		c.ackedThisTick = append(c.ackedThisTick, w)
	}
	w.State = StateCompleted
	delete(c.live, w.ID)
	logrus.Debugf("[tick %07d] coordinator %s: write %d fully completed", now, c.ID, w.ID)
}

// ack acknowledges a still-running write to the client and moves it to
// background.
func (c *Coordinator) ack(w *Write, now int64) {
	if w.Completed() && now > w.CompletedTick {
		panic(fmt.Sprintf("internal invariant: write %d acked at %d after completion at %d", w.ID, now, w.CompletedTick))
	}
	w.AckTick = now
	w.State = StateBackground
	c.background++
	c.unacked--
	c.totalAcks++
	c.ackedThisTick = append(c.ackedThisTick, w)
	logrus.Debugf("[tick %07d] coordinator %s: acked write %d (background=%d)", now, c.ID, w.ID, c.background)
}

// evalPressure consults the controller once for this tick. A controller
// returning a negative delay violates its contract; the delay is clamped
// to zero.
func (c *Coordinator) evalPressure(now int64) int64 {
	if c.controller == nil {
		return 0
	}
	backlogs := make([]int, len(c.replicas))
	for i, r := range c.replicas {
		backlogs[i] = r.ViewBacklog()
	}
	d := c.controller.ComputeDelay(PressureState{
		Tick:             now,
		ViewBacklogs:     backlogs,
		BackgroundWrites: c.background,
	})
	if d < 0 {
		logrus.Warnf("[tick %07d] coordinator %s: controller returned negative delay %d, treating as zero", now, c.ID, d)
		return 0
	}
	return d
}

// UnackedWrites is the number of issued writes the client has not been
// acknowledged for. A fixed-concurrency client tops up against this count.
func (c *Coordinator) UnackedWrites() int {
	return c.unacked
}

// BackgroundWrites is the count of acknowledged writes still running on
// the remaining replicas.
func (c *Coordinator) BackgroundWrites() int {
	return c.background
}

// LiveWrites is the number of writes not yet fully completed.
func (c *Coordinator) LiveWrites() int {
	return len(c.live)
}

// TotalWrites is the cumulative number of submitted writes.
func (c *Coordinator) TotalWrites() int64 {
	return c.totalWrites
}

// TotalAcks is the cumulative number of acknowledged writes.
func (c *Coordinator) TotalAcks() int64 {
	return c.totalAcks
}

// AckedThisTick returns the writes acknowledged during the current tick.
// The slice is reused across ticks; callers must not retain it.
func (c *Coordinator) AckedThisTick() []*Write {
	return c.ackedThisTick
}

// CurrentPressureDelay is the controller delay computed this tick.
func (c *Coordinator) CurrentPressureDelay() int64 {
	return c.currentDelay
}
