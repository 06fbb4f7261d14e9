package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	c := NewClock(100000)
	assert.Equal(t, int64(0), c.Now())
	for i := 0; i < 3; i++ {
		c.Advance()
	}
	assert.Equal(t, int64(3), c.Now())
	assert.Equal(t, 2.0, c.Seconds(200000))
}
