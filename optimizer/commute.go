package optimizer

import (
	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

// ApplyCommutationRotation pushes tGate past nonT, rewriting tGate's basis
// and angle to the equivalent rotation on the other side of nonT. nonT
// must be a Pauli (angle 0) or Clifford (angle +-2) rotation; tGate is
// typically, but not necessarily, a T-class rotation.
func ApplyCommutationRotation(nonT, tGate *gate.Rotation) *gate.Rotation {
	nonTBasis := nonT.Basis()
	tBasis := tGate.Basis()

	if nonT.Angle() == 0 {
		updated, err := gate.NewRotation(tBasis.Clone(), -tGate.Angle())
		if err != nil {
			panic(err)
		}
		return updated
	}

	updatedBasis := nonTBasis.Xor(tBasis)
	updatedAngle := int(tGate.Angle())
	if nonT.Angle() < 0 {
		updatedAngle = -updatedAngle
	}

	nonTY := nonTBasis.XBits().Intersection(nonTBasis.ZBits())
	tY := tBasis.XBits().Intersection(tBasis.ZBits())

	// Parity checks for the permutation associated with Y = iXZ = -iZX.
	zx := nonTBasis.ZBits().Difference(nonTBasis.XBits()).Intersection(tBasis.XBits()).Difference(tBasis.ZBits())
	if zx.Count()%2 == 1 {
		updatedAngle = -updatedAngle
	}
	xzx := nonTY.Intersection(tBasis.XBits()).Difference(tBasis.ZBits())
	if xzx.Count()%2 == 1 {
		updatedAngle = -updatedAngle
	}
	zxz := nonTBasis.ZBits().Difference(nonTBasis.XBits()).Intersection(tY)
	if zxz.Count()%2 == 1 {
		updatedAngle = -updatedAngle
	}
	xzxz := nonTY.Intersection(tY)
	if xzxz.Count()%2 == 1 {
		updatedAngle = -updatedAngle
	}

	phaseCount := int(nonTY.Count()) + int(tY.Count()) - updatedBasis.YCount() + 1
	if phaseCount%4 != 0 {
		updatedAngle = -updatedAngle
	}

	result, err := gate.NewRotation(updatedBasis, gate.Angle(updatedAngle))
	if err != nil {
		panic(err)
	}
	return result
}

// ApplyCommutationMeasurement pushes a Pauli or Clifford rotation r past
// measurement m, returning a new measurement with the equivalent basis and
// phase, and with any classically controlled rotation that anticommutes
// with r rewritten in the same pass. Controlled rotations that commute with
// r are shared with m, not copied.
func ApplyCommutationMeasurement(r *gate.Rotation, m *gate.Measurement) *gate.Measurement {
	out := m.Clone()
	out.SetRotations(append([]*gate.Rotation(nil), m.Rotations()...))
	rBasis := r.Basis()

	switch {
	case r.Angle() == 0:
		out.FlipPhase()
	case abs(int(r.Angle())) == 2:
		mBasis := out.Basis()
		updatedBasis := rBasis.Xor(mBasis)

		rY := rBasis.XBits().Intersection(rBasis.ZBits())
		mY := mBasis.XBits().Intersection(mBasis.ZBits())

		zx := rBasis.ZBits().Difference(rBasis.XBits()).Intersection(mBasis.XBits()).Difference(mBasis.ZBits())
		if zx.Count()%2 == 1 {
			out.FlipPhase()
		}
		xzx := rY.Intersection(mBasis.XBits()).Difference(mBasis.ZBits())
		if xzx.Count()%2 == 1 {
			out.FlipPhase()
		}
		zxz := rBasis.ZBits().Difference(rBasis.XBits()).Intersection(mY)
		if zxz.Count()%2 == 1 {
			out.FlipPhase()
		}
		xzxz := rY.Intersection(mY)
		if xzxz.Count()%2 == 1 {
			out.FlipPhase()
		}

		phaseCount := int(rY.Count()) + int(mY.Count()) - updatedBasis.YCount() + 1
		if phaseCount%4 != 0 {
			out.FlipPhase()
		}

		if r.Angle() == -2 {
			out.FlipPhase()
		}

		out.SetBasis(updatedBasis)
	default:
		panic("commute: rotation must be Clifford or Pauli")
	}

	rotations := out.Rotations()
	for i, cr := range rotations {
		if !cr.Basis().Commute(rBasis) {
			rotations[i] = ApplyCommutationRotation(r, cr)
		}
	}
	return out
}
