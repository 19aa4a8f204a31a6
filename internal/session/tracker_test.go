package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionTracker(t *testing.T) {
	tr := NewSubmissionTracker()
	assert.True(t, tr.Record("c1"))
	assert.True(t, tr.Record("c2"))
	assert.False(t, tr.Record("c1"))

	assert.Equal(t, 2, tr.Count())
	assert.True(t, tr.Has("c2"))
	assert.False(t, tr.Has("c9"))
	assert.Equal(t, []string{"c1", "c2"}, tr.IDs())

	tr.Reset()
	assert.Equal(t, 0, tr.Count())
	assert.False(t, tr.Has("c1"))
	assert.True(t, tr.Record("c1"))
}

func TestResultGateLifecycle(t *testing.T) {
	g := NewResultGate()
	assert.True(t, g.IsOpen(), "unarmed gate is open")

	g.Arm(3)
	assert.False(t, g.IsOpen())
	assert.Equal(t, 3, g.Remaining())

	g.Tick()
	g.Tick()
	assert.False(t, g.IsOpen())
	g.Tick()
	assert.True(t, g.IsOpen())

	// Ticking past zero stays at zero.
	g.Tick()
	assert.Equal(t, 0, g.Remaining())

	g.Arm(-5)
	assert.True(t, g.IsOpen())

	g.Arm(10)
	g.Disarm()
	assert.True(t, g.IsOpen())
}
