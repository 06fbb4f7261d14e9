package sim

import (
	"testing"
)

func TestWriteQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with writes [1, 2]
	wq := &writeQueue{}
	w1 := &Write{ID: 1}
	w2 := &Write{ID: 2}
	wq.Enqueue(w1)
	wq.Enqueue(w2)

	// WHEN Peek() is called
	got := wq.Peek()

	// THEN it returns the front element without removing it
	if got != w1 {
		t.Errorf("Peek: got write %v, want %v", got.ID, w1.ID)
	}
	if wq.Len() != 2 {
		t.Errorf("Peek modified queue length: got %d, want 2", wq.Len())
	}
}

func TestWriteQueue_Peek_Empty_ReturnsNil(t *testing.T) {
	// GIVEN an empty queue
	wq := &writeQueue{}

	// WHEN Peek() is called
	got := wq.Peek()

	// THEN it returns nil
	if got != nil {
		t.Errorf("Peek on empty queue: got %v, want nil", got)
	}
}

func TestWriteQueue_Dequeue_IsFIFO(t *testing.T) {
	// GIVEN a queue with writes [1, 2, 3]
	wq := &writeQueue{}
	for i := int64(1); i <= 3; i++ {
		wq.Enqueue(&Write{ID: i})
	}

	// WHEN all writes are dequeued
	ids := make([]int64, 0, 3)
	for wq.Len() > 0 {
		ids = append(ids, wq.Dequeue().ID)
	}

	// THEN they come out in enqueue order
	want := []int64{1, 2, 3}
	for i, id := range ids {
		if id != want[i] {
			t.Errorf("Dequeue order[%d]: got %d, want %d", i, id, want[i])
		}
	}
}

func TestWriteQueue_Dequeue_Empty_ReturnsNil(t *testing.T) {
	wq := &writeQueue{}
	if got := wq.Dequeue(); got != nil {
		t.Errorf("Dequeue on empty queue: got %v, want nil", got)
	}
}

func TestWriteQueue_String(t *testing.T) {
	wq := &writeQueue{}
	wq.Enqueue(&Write{ID: 7})
	wq.Enqueue(&Write{ID: 8})
	if got, want := wq.String(), "[7 8]"; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}
