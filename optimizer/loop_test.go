//go:build unit
// +build unit

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

func TestOptimizeEmptyCircuit(t *testing.T) {
	c, err := gate.NewCircuit(2, 2)
	require.NoError(t, err)
	n := Optimize(c, 0)
	assert.Equal(t, 0, n)
	assert.Empty(t, c.Operations)
}

func TestOptimizeCancelsOppositeTRotations(t *testing.T) {
	c, err := gate.NewCircuit(2, 2)
	require.NoError(t, err)
	require.NoError(t, c.AppendRotation(basis(t, 2, []int{0}, []byte{'x'}), 1))
	require.NoError(t, c.AppendRotation(basis(t, 2, []int{0}, []byte{'x'}), -1))

	Optimize(c, 0)
	assert.Empty(t, c.Operations)
}

func TestOptimizeNeverIncreasesTCount(t *testing.T) {
	c, err := gate.NewCircuit(3, 3)
	require.NoError(t, err)
	bases := []byte{'x', 'z', 'y'}
	angles := []gate.Angle{1, 2, -1, 0, -2, 1, 2, -1, 1, 2, -2, 1}
	for i, a := range angles {
		q := i % 3
		ch := bases[i%len(bases)]
		require.NoError(t, c.AppendRotation(basis(t, 3, []int{q}, []byte{ch}), a))
	}

	before := c.TCount()
	Optimize(c, 0)
	after := c.TCount()
	assert.LessOrEqual(t, after, before)
}

func TestOptimizePreservesTrailingMeasurement(t *testing.T) {
	c, err := gate.NewCircuit(2, 2)
	require.NoError(t, err)
	require.NoError(t, c.AppendRotation(basis(t, 2, []int{0}, []byte{'x'}), 1))
	require.NoError(t, c.AppendRotation(basis(t, 2, []int{0}, []byte{'z'}), 2))
	c.AppendMeasurement(basis(t, 2, []int{1}, []byte{'z'}), true)

	Optimize(c, 0)

	found := false
	for _, op := range c.Operations {
		if _, ok := op.(*gate.Measurement); ok {
			found = true
		}
	}
	assert.True(t, found)
}
