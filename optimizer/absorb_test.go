//go:build unit
// +build unit

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

// circuit layout: qubit 0 is data, qubits 1-2 are ancillas.
func newAbsorbCircuit(t *testing.T) *gate.Circuit {
	t.Helper()
	c, err := gate.NewCircuit(3, 1)
	require.NoError(t, err)
	return c
}

func TestAbsorbDeletesFullyMeasuredAncillaRotation(t *testing.T) {
	c := newAbsorbCircuit(t)
	require.NoError(t, c.AppendRotation(basis(t, 3, []int{0}, []byte{'z'}), 1)) // the single T gate
	numTGates := 1

	require.NoError(t, c.AppendRotation(basis(t, 3, []int{1}, []byte{'z'}), 2)) // ancilla-only Clifford
	c.AppendMeasurement(basis(t, 3, []int{1}, []byte{'z'}), true)
	c.AppendMeasurement(basis(t, 3, []int{2}, []byte{'z'}), true)

	moved := AbsorbMeasurements(c, numTGates)
	assert.Equal(t, 0, moved)
	assert.Len(t, c.Operations, 3)
	for _, op := range c.Operations {
		if r, ok := op.(*gate.Rotation); ok {
			assert.True(t, r.IsTGate())
		}
	}
}

func TestAbsorbLeavesUnmeasuredAncillaRotationInPlace(t *testing.T) {
	c := newAbsorbCircuit(t)
	require.NoError(t, c.AppendRotation(basis(t, 3, []int{0}, []byte{'z'}), 1))
	numTGates := 1

	cliffordOnUnmeasuredAncilla, err := gate.NewRotation(basis(t, 3, []int{2}, []byte{'z'}), 2)
	require.NoError(t, err)
	c.Operations = append(c.Operations, cliffordOnUnmeasuredAncilla)
	c.AppendMeasurement(basis(t, 3, []int{1}, []byte{'z'}), true)

	moved := AbsorbMeasurements(c, numTGates)
	assert.Equal(t, 0, moved)
	require.Len(t, c.Operations, 3)
	assert.Same(t, cliffordOnUnmeasuredAncilla, c.Operations[1])
}

func TestAbsorbMovesDataAncillaRotationPastMeasurements(t *testing.T) {
	c := newAbsorbCircuit(t)
	require.NoError(t, c.AppendRotation(basis(t, 3, []int{0}, []byte{'z'}), 1))
	numTGates := 1

	spanning, err := gate.NewRotation(basis(t, 3, []int{0, 1}, []byte{'z', 'x'}), 2)
	require.NoError(t, err)
	c.Operations = append(c.Operations, spanning)
	c.AppendMeasurement(basis(t, 3, []int{1}, []byte{'z'}), true)

	moved := AbsorbMeasurements(c, numTGates)
	assert.Equal(t, 1, moved)
	require.Len(t, c.Operations, 3)

	last := c.Operations[len(c.Operations)-1]
	_, isRotation := last.(*gate.Rotation)
	assert.True(t, isRotation)
}
