package gate

import (
	"fmt"

	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

// Rotation is a Pauli rotation: exp(-i * angle * (pi/4) * basis). Grounded
// on the original Rotation class (Rotation.hpp/cpp).
type Rotation struct {
	basis pauli.String
	angle Angle
}

// NewRotation validates and constructs a Rotation. angle must lie in
// {-2,-1,0,1,2}.
func NewRotation(basis pauli.String, angle Angle) (*Rotation, error) {
	if !validAngle(angle) {
		return nil, invalidArg(-1, "rotation angle %d out of range [-2,2]", angle)
	}
	return &Rotation{basis: basis, angle: angle}, nil
}

// Basis implements Operation.
func (r *Rotation) Basis() pauli.String { return r.basis }

// IsRotation implements Operation.
func (r *Rotation) IsRotation() bool { return true }

// Angle returns the rotation's angle.
func (r *Rotation) Angle() Angle { return r.angle }

// SetAngle overwrites the rotation's angle in place, used by the
// T-forwarding pass when it rewrites a T-rotation it is bubbling leftward.
func (r *Rotation) SetAngle(a Angle) { r.angle = a }

// SetBasis overwrites the rotation's Pauli basis in place, used by the
// T-forwarding pass when bubbling a T-rotation past a Clifford rotation.
func (r *Rotation) SetBasis(b pauli.String) { r.basis = b }

// IsIdentity reports whether r acts as the identity (basis is all-I; the
// angle is irrelevant for identity comparison, matching the original's
// operator== special case).
func (r *Rotation) IsIdentity() bool { return r.basis.IsIdentity() }

// IsTGate reports whether r is a non-identity T-class rotation.
func (r *Rotation) IsTGate() bool { return !r.IsIdentity() && r.angle.IsT() }

// BlockAction classifies r's support relative to ancillaBegin — see
// pauli.String.BlockAction.
func (r *Rotation) BlockAction(ancillaBegin int) byte { return r.basis.BlockAction(ancillaBegin) }

// Equal reports whether r and other are the same rotation. Two identities
// are always equal regardless of angle, matching the original's
// operator==.
func (r *Rotation) Equal(other *Rotation) bool {
	if r.IsIdentity() && other.IsIdentity() {
		return true
	}
	return r.angle == other.angle && r.basis.Equal(other.basis)
}

// Clone returns an independent copy of r.
func (r *Rotation) Clone() *Rotation {
	return &Rotation{basis: r.basis.Clone(), angle: r.angle}
}

// String implements fmt.Stringer, matching the original's toStr layout.
func (r *Rotation) String() string {
	return fmt.Sprintf("%s(%d)", r.basis.String(), r.angle)
}
