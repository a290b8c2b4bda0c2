package gate

import (
	"fmt"
	"strings"

	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

// Measurement is a Pauli measurement with an optional list of classically
// controlled rotations applied conditioned on its outcome, and the position
// of its outcome bit in the circuit's output record. Grounded on the
// original Measure class (Measure.hpp/cpp).
type Measurement struct {
	basis          pauli.String
	phase          bool
	rotations      []*Rotation
	outputPosition int
}

// NewMeasurement constructs a Measurement with no classically controlled
// rotations and an unset (-1) output position.
func NewMeasurement(basis pauli.String, phase bool) *Measurement {
	return &Measurement{basis: basis, phase: phase, outputPosition: -1}
}

// Basis implements Operation.
func (m *Measurement) Basis() pauli.String { return m.basis }

// SetBasis overwrites the measurement's Pauli basis in place, used by the
// commutation rewriter when a Clifford rotation is absorbed into it.
func (m *Measurement) SetBasis(b pauli.String) { m.basis = b }

// IsRotation implements Operation.
func (m *Measurement) IsRotation() bool { return false }

// Phase returns the measurement's sign (true = +).
func (m *Measurement) Phase() bool { return m.phase }

// SetPhase overwrites the measurement's sign in place.
func (m *Measurement) SetPhase(p bool) { m.phase = p }

// FlipPhase inverts the measurement's sign, used by the commutation
// rewriter when a rotation crosses this measurement.
func (m *Measurement) FlipPhase() { m.phase = !m.phase }

// Rotations returns the classically controlled rotations applied after this
// measurement's outcome is known. The returned slice is shared; callers
// must not retain it across a call that may reallocate it.
func (m *Measurement) Rotations() []*Rotation { return m.rotations }

// SetRotations replaces the classically controlled rotation list.
func (m *Measurement) SetRotations(rs []*Rotation) { m.rotations = rs }

// HasControlledRotations reports whether m carries at least one
// classically controlled rotation.
func (m *Measurement) HasControlledRotations() bool { return len(m.rotations) > 0 }

// OutputPosition returns the index of this measurement's outcome bit in the
// circuit's output record, or -1 if unset.
func (m *Measurement) OutputPosition() int { return m.outputPosition }

// SetOutputPosition sets the output bit index.
func (m *Measurement) SetOutputPosition(p int) { m.outputPosition = p }

// BlockAction classifies m's support relative to ancillaBegin.
func (m *Measurement) BlockAction(ancillaBegin int) byte { return m.basis.BlockAction(ancillaBegin) }

// Equal reports whether m and other are the same measurement, including
// their controlled rotations, matching the original's operator==.
func (m *Measurement) Equal(other *Measurement) bool {
	if m.basis.IsIdentity() && other.basis.IsIdentity() {
		return true
	}
	if m.phase != other.phase || !m.basis.Equal(other.basis) {
		return false
	}
	if len(m.rotations) != len(other.rotations) {
		return false
	}
	for i, r := range m.rotations {
		if !r.Equal(other.rotations[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of m, including its controlled
// rotations.
func (m *Measurement) Clone() *Measurement {
	rs := make([]*Rotation, len(m.rotations))
	for i, r := range m.rotations {
		rs[i] = r.Clone()
	}
	return &Measurement{
		basis:          m.basis.Clone(),
		phase:          m.phase,
		rotations:      rs,
		outputPosition: m.outputPosition,
	}
}

// String implements fmt.Stringer, matching the original's toStr layout.
func (m *Measurement) String() string {
	sign := "+"
	if !m.phase {
		sign = "-"
	}
	s := fmt.Sprintf("M%s%s", sign, m.basis.String())
	if len(m.rotations) > 0 {
		parts := make([]string, len(m.rotations))
		for i, r := range m.rotations {
			parts[i] = r.String()
		}
		s += "[" + strings.Join(parts, ",") + "]"
	}
	return s
}
