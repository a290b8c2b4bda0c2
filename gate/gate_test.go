//go:build unit
// +build unit

package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

func x(t *testing.T, q, n int) pauli.String {
	t.Helper()
	s, err := pauli.NewFromBasis([]byte{'x'}, []int{q}, n)
	require.NoError(t, err)
	return s
}

func z(t *testing.T, q, n int) pauli.String {
	t.Helper()
	s, err := pauli.NewFromBasis([]byte{'z'}, []int{q}, n)
	require.NoError(t, err)
	return s
}

func TestNewRotationValidAngles(t *testing.T) {
	for a := -2; a <= 2; a++ {
		r, err := NewRotation(x(t, 0, 2), Angle(a))
		require.NoError(t, err)
		assert.Equal(t, Angle(a), r.Angle())
	}
}

func TestNewRotationInvalidAngle(t *testing.T) {
	_, err := NewRotation(x(t, 0, 2), Angle(3))
	assert.Error(t, err)

	var iae *InvalidArgumentError
	assert.ErrorAs(t, err, &iae)
}

func TestRotationIsTGate(t *testing.T) {
	r, _ := NewRotation(x(t, 0, 2), 1)
	assert.True(t, r.IsTGate())

	r2, _ := NewRotation(x(t, 0, 2), 2)
	assert.False(t, r2.IsTGate())

	r3, _ := NewRotation(pauli.Identity(2), 1)
	assert.False(t, r3.IsTGate())
}

func TestRotationEqualIdentitiesIgnoreAngle(t *testing.T) {
	r1, _ := NewRotation(pauli.Identity(2), 1)
	r2, _ := NewRotation(pauli.Identity(2), -2)
	assert.True(t, r1.Equal(r2))
}

func TestRotationEqualRequiresSameAngleWhenNotIdentity(t *testing.T) {
	r1, _ := NewRotation(x(t, 0, 2), 1)
	r2, _ := NewRotation(x(t, 0, 2), 2)
	assert.False(t, r1.Equal(r2))
}

func TestMeasurementHasControlledRotations(t *testing.T) {
	m := NewMeasurement(z(t, 0, 2), true)
	assert.False(t, m.HasControlledRotations())

	r, _ := NewRotation(x(t, 1, 2), 1)
	m.SetRotations([]*Rotation{r})
	assert.True(t, m.HasControlledRotations())
}

func TestMeasurementEqualIdentitiesIgnorePhase(t *testing.T) {
	m1 := NewMeasurement(pauli.Identity(2), true)
	m2 := NewMeasurement(pauli.Identity(2), false)
	assert.True(t, m1.Equal(m2))
}

func TestCircuitDefaultMeasurements(t *testing.T) {
	c, err := NewCircuitWithDefaultMeasurements(4, 2, 2)
	require.NoError(t, err)
	require.Len(t, c.Operations, 2)
	for _, op := range c.Operations {
		m, ok := op.(*Measurement)
		require.True(t, ok)
		assert.True(t, m.Phase())
	}
}

func TestCircuitMasks(t *testing.T) {
	c, err := NewCircuit(4, 2)
	require.NoError(t, err)

	data := c.DataMask()
	assert.True(t, data.Test(0))
	assert.True(t, data.Test(1))
	assert.False(t, data.Test(2))

	ancilla := c.AncillaMask()
	assert.False(t, ancilla.Test(1))
	assert.True(t, ancilla.Test(2))
	assert.True(t, ancilla.Test(3))
}

func TestCircuitTCount(t *testing.T) {
	c, err := NewCircuit(2, 2)
	require.NoError(t, err)
	require.NoError(t, c.AppendRotation(x(t, 0, 2), 1))
	require.NoError(t, c.AppendRotation(x(t, 1, 2), 2))
	require.NoError(t, c.AppendRotation(x(t, 0, 2), -1))
	assert.Equal(t, 2, c.TCount())
}

func TestCircuitCloneIsIndependent(t *testing.T) {
	c, err := NewCircuit(2, 2)
	require.NoError(t, err)
	require.NoError(t, c.AppendRotation(x(t, 0, 2), 1))

	clone := c.Clone()
	clone.Operations[0].(*Rotation).SetAngle(2)

	assert.Equal(t, Angle(1), c.Operations[0].(*Rotation).Angle())
	assert.Equal(t, Angle(2), clone.Operations[0].(*Rotation).Angle())
	assert.NotEqual(t, c.ID, clone.ID)
}

func TestNewCircuitInvalidAncillaBegin(t *testing.T) {
	_, err := NewCircuit(4, 5)
	assert.Error(t, err)
}

func TestNewCircuitFromOperationsAcceptsValidOps(t *testing.T) {
	r, err := NewRotation(x(t, 0, 2), 1)
	require.NoError(t, err)
	m := NewMeasurement(x(t, 1, 2), true)

	c, err := NewCircuitFromOperations([]Operation{r, m}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.N)
	assert.Len(t, c.Operations, 2)
}

func TestNewCircuitFromOperationsRejectsWidthMismatch(t *testing.T) {
	r, err := NewRotation(x(t, 0, 3), 1)
	require.NoError(t, err)

	_, err = NewCircuitFromOperations([]Operation{r}, 2, 0)
	assert.Error(t, err)
}

func TestValidateOperationsAggregatesAllFailures(t *testing.T) {
	badWidth, err := NewRotation(x(t, 0, 3), 1)
	require.NoError(t, err)

	badAngle, err := NewRotation(x(t, 0, 2), 1)
	require.NoError(t, err)
	badAngle.SetAngle(5)

	err = ValidateOperations([]Operation{badWidth, badAngle}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basis width")
	assert.Contains(t, err.Error(), "out of range")
}
