package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWrite_StartsInFlight(t *testing.T) {
	w := NewWrite(7, 42, 3, 2)

	assert.Equal(t, int64(7), w.ID)
	assert.Equal(t, int64(42), w.CreatedTick)
	assert.Equal(t, StateInFlight, w.State)
	assert.Equal(t, 5, w.remainingOps)
	assert.False(t, w.Acked())
	assert.False(t, w.Completed())
	assert.Equal(t, TickUnset, w.QuorumTick)
	assert.Equal(t, TickUnset, w.AckTick)
	assert.Equal(t, TickUnset, w.CompletedTick)
}

func TestWrite_Latency(t *testing.T) {
	w := NewWrite(0, 100, 1, 0)
	w.AckTick = 180
	assert.True(t, w.Acked())
	assert.Equal(t, int64(80), w.Latency())
}

func TestWrite_String_NamesIDAndState(t *testing.T) {
	w := NewWrite(3, 0, 1, 0)
	assert.Contains(t, w.String(), "ID: 3")
	assert.Contains(t, w.String(), string(StateInFlight))
}
