// Defines the Write struct that models one client write request in the
// simulation. Tracks creation, per-replica completion, quorum,
// acknowledgement and full-completion ticks.

package sim

import (
	"fmt"
)

// TickUnset marks a tick field that has not happened yet.
const TickUnset int64 = -1

// WriteState represents the lifecycle state of a write.
type WriteState string

const (
	// StateInFlight: issued, quorum not yet reached.
	StateInFlight WriteState = "in-flight"
	// StatePendingAck: quorum reached, acknowledgement withheld by the
	// background-write cap or a pressure delay.
	StatePendingAck WriteState = "pending-ack"
	// StateBackground: acknowledged to the client, still running on the
	// remaining replicas.
	StateBackground WriteState = "background"
	// StateCompleted: finished on all replicas (base and view), retired.
	StateCompleted WriteState = "completed"
)

// Write models a single client write's progress across the replica set.
// The Coordinator owns a Write exclusively from Submit until retirement.
type Write struct {
	ID          int64
	CreatedTick int64

	// remainingOps counts replica operations (base plus, when views are
	// configured, view) that have not completed yet. Zero means fully done.
	remainingOps int

	// baseCompletions counts replicas that finished the base write.
	// Acknowledgement becomes possible when it first reaches write_CL.
	baseCompletions int

	// Per-replica completion ticks, keyed by replica ID. Recorded for
	// latency analysis only; ordered logic never iterates these maps.
	BaseDoneAt map[string]int64
	ViewDoneAt map[string]int64

	QuorumTick    int64 // tick when baseCompletions first reached write_CL
	AckTick       int64 // tick when the client was acknowledged
	CompletedTick int64 // tick when all replica operations finished

	// ackDue is the earliest tick the pressure delay permits an
	// acknowledgement. TickUnset until the write first clears the cap.
	ackDue int64

	State WriteState
}

// NewWrite returns a Write created at the given tick, destined for
// nReplicas base operations plus nViewOps view operations.
func NewWrite(id int64, createdTick int64, nReplicas, nViewOps int) *Write {
	return &Write{
		ID:            id,
		CreatedTick:   createdTick,
		remainingOps:  nReplicas + nViewOps,
		BaseDoneAt:    make(map[string]int64, nReplicas),
		ViewDoneAt:    make(map[string]int64, nViewOps),
		QuorumTick:    TickUnset,
		AckTick:       TickUnset,
		CompletedTick: TickUnset,
		ackDue:        TickUnset,
		State:         StateInFlight,
	}
}

// Acked reports whether the client has been acknowledged.
func (w *Write) Acked() bool {
	return w.AckTick != TickUnset
}

// Completed reports whether every replica operation has finished.
func (w *Write) Completed() bool {
	return w.remainingOps == 0
}

// Latency returns the client-observed latency in ticks. Only valid after
// acknowledgement.
func (w *Write) Latency() int64 {
	return w.AckTick - w.CreatedTick
}

func (w *Write) String() string {
	return fmt.Sprintf("Write(ID: %d, State: %s, CreatedTick: %d, AckTick: %d)",
		w.ID, w.State, w.CreatedTick, w.AckTick)
}
