//go:build unit
// +build unit

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

func newTestCircuit(t *testing.T) *gate.Circuit {
	t.Helper()
	c, err := gate.NewCircuit(2, 1)
	require.NoError(t, err)
	basis, err := pauli.NewFromBasis([]byte{'x'}, []int{0}, 2)
	require.NoError(t, err)
	require.NoError(t, c.AppendRotation(basis, 1))
	return c
}

func TestNewSectionResultFlattensOperations(t *testing.T) {
	c := newTestCircuit(t)
	result := NewSectionResult(c)

	assert.Equal(t, c.ID, result.ID)
	assert.Equal(t, 2, result.N)
	require.Len(t, result.Ops, 1)
	assert.Equal(t, "rotation", result.Ops[0].Kind)
	assert.Equal(t, "x", result.Ops[0].Chars)
	assert.Equal(t, []int{0}, result.Ops[0].Qubits)
	assert.Equal(t, 1, result.Ops[0].Angle)
}

func TestMemorySectionStoreInsertAndGet(t *testing.T) {
	s := &MemorySectionStore{}
	require.NoError(t, s.Setup(nil, &Conf{}))

	result := NewSectionResult(newTestCircuit(t))
	require.NoError(t, s.Insert(result))

	got, err := s.Get(result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.ID)
	assert.False(t, got == result, "Get must return a deep copy, not the stored pointer")
}

func TestMemorySectionStoreGetMissingReturnsError(t *testing.T) {
	s := &MemorySectionStore{}
	require.NoError(t, s.Setup(nil, &Conf{}))

	_, err := s.Get("does-not-exist")
	assert.Error(t, err)
}

func TestMemorySectionStoreDelete(t *testing.T) {
	s := &MemorySectionStore{}
	require.NoError(t, s.Setup(nil, &Conf{}))

	result := NewSectionResult(newTestCircuit(t))
	require.NoError(t, s.Insert(result))
	require.NoError(t, s.Delete(result.ID))

	_, err := s.Get(result.ID)
	assert.Error(t, err)
}

func TestLayersToDTOPreservesOrderAndShape(t *testing.T) {
	c := newTestCircuit(t)
	c.AppendMeasurement(mustBasis(t, 'z', 1, 2), true)

	layers := [][]gate.Operation{
		{c.Operations[0]},
		{c.Operations[1]},
	}
	dtoLayers := LayersToDTO(layers)

	require.Len(t, dtoLayers, 2)
	assert.Equal(t, "rotation", dtoLayers[0][0].Kind)
	assert.Equal(t, "measurement", dtoLayers[1][0].Kind)
}

func mustBasis(t *testing.T, char byte, qubit, n int) pauli.String {
	t.Helper()
	s, err := pauli.NewFromBasis([]byte{char}, []int{qubit}, n)
	require.NoError(t, err)
	return s
}

func TestMemorySectionStoreDrainsResultChan(t *testing.T) {
	s := &MemorySectionStore{}
	resultChan := make(ResultChan)
	require.NoError(t, s.Setup(resultChan, &Conf{}))

	result := NewSectionResult(newTestCircuit(t))
	resultChan <- result

	require.Eventually(t, func() bool {
		_, err := s.Get(result.ID)
		return err == nil
	}, time.Second, 5*time.Millisecond)
}
