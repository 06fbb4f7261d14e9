// Implements the writeQueue, the FIFO of pending replica operations.
// Operations are enqueued on Submit and drained by the service loop.

package sim

import (
	"fmt"
	"strings"
)

// writeQueue is a FIFO of writes waiting for service on one replica
// channel (base or view). Completion order within a tick is always
// oldest-enqueued first.
type writeQueue struct {
	queue []*Write
}

// Enqueue adds a write to the back of the queue.
func (wq *writeQueue) Enqueue(w *Write) {
	wq.queue = append(wq.queue, w)
}

// Dequeue removes and returns the write at the front of the queue.
// Returns nil if the queue is empty.
func (wq *writeQueue) Dequeue() *Write {
	if len(wq.queue) == 0 {
		return nil
	}
	w := wq.queue[0]
	wq.queue = wq.queue[1:]
	return w
}

// Peek returns the front write without removing it, or nil when empty.
func (wq *writeQueue) Peek() *Write {
	if len(wq.queue) == 0 {
		return nil
	}
	return wq.queue[0]
}

// Len returns the number of pending writes.
func (wq *writeQueue) Len() int {
	return len(wq.queue)
}

func (wq *writeQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, w := range wq.queue {
		sb.WriteString(fmt.Sprint(w.ID))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
