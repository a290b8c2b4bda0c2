//go:build unit
// +build unit

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

func basis(t *testing.T, n int, qubits []int, chars []byte) pauli.String {
	t.Helper()
	s, err := pauli.NewFromBasis(chars, qubits, n)
	require.NoError(t, err)
	return s
}

func rot(t *testing.T, n, q int, c byte, angle gate.Angle) *gate.Rotation {
	t.Helper()
	r, err := gate.NewRotation(basis(t, n, []int{q}, []byte{c}), angle)
	require.NoError(t, err)
	return r
}

func meas(t *testing.T, n, q int, c byte, phase bool) *gate.Measurement {
	t.Helper()
	return gate.NewMeasurement(basis(t, n, []int{q}, []byte{c}), phase)
}
