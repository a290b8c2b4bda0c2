// Package optimizer implements the Clifford+T rewrite passes: rotation
// combination, the commutation rewriter, T-forwarding, layer partitioning,
// the fixed-point optimizer loop, and measurement absorption.
package optimizer

import (
	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CombineResult is the outcome of attempting to fuse two rotations sharing
// a Pauli basis. Combinable is false when the pair cannot be fused at all
// (different basis, or a disallowed Pauli/angle pairing); when Combinable
// is true and Combined is nil, both inputs cancel to the identity and
// should be removed.
type CombineResult struct {
	Combined   gate.Operation
	Combinable bool
}

// CombineRotation attempts to fuse two rotations sharing a Pauli basis into
// one, following the same-basis angle-sum rules: identities vanish, a
// Pauli (angle 0) rotation only fuses with a -pi/4 Clifford rotation
// (normalizing the result to +pi/4), a sum of magnitude 3 is refused, and a
// sum of magnitude 4 collapses to a Pauli (angle 0) rotation.
func CombineRotation(a, b *gate.Rotation) (*gate.Rotation, bool) {
	aIdentity, bIdentity := a.IsIdentity(), b.IsIdentity()
	switch {
	case aIdentity && bIdentity:
		return nil, true
	case aIdentity:
		return b, true
	case bIdentity:
		return a, true
	}

	if !a.Basis().Equal(b.Basis()) {
		return nil, false
	}

	newAngle := int(a.Angle()) + int(b.Angle())
	if newAngle == 0 {
		return nil, true
	}

	if a.Angle() == 0 || b.Angle() == 0 {
		allowed := (a.Angle() == -2 && b.Angle() == 0) || (a.Angle() == 0 && b.Angle() == -2)
		if !allowed {
			return nil, false
		}
		if newAngle == -2 {
			newAngle = 2
		}
	}

	if abs(newAngle) == 3 {
		return nil, false
	}
	if abs(newAngle) == 4 {
		newAngle = 0
	}

	result, err := gate.NewRotation(a.Basis(), gate.Angle(newAngle))
	if err != nil {
		// newAngle is constructed above to always land in [-2,2].
		panic(err)
	}
	return result, true
}

// CombineGate attempts to fuse a and b, delegating to CombineRotation only
// when both operations are rotations; a measurement never combines with
// anything.
func CombineGate(a, b gate.Operation) CombineResult {
	ar, aok := a.(*gate.Rotation)
	br, bok := b.(*gate.Rotation)
	if !aok || !bok {
		return CombineResult{Combinable: false}
	}
	combined, combinable := CombineRotation(ar, br)
	if !combinable {
		return CombineResult{Combinable: false}
	}
	if combined == nil {
		return CombineResult{Combinable: true}
	}
	return CombineResult{Combined: combined, Combinable: true}
}

// ReduceNoOrder repeatedly scans ops pairwise, fusing any pair that
// combines, until a full pass produces no further change. Order among
// non-combining operations is preserved.
func ReduceNoOrder(ops []gate.Operation) ([]gate.Operation, bool) {
	changedOverall := false
	for {
		next, changed := reduceNoOrderOnce(ops)
		ops = next
		if !changed {
			break
		}
		changedOverall = true
	}
	return ops, changedOverall
}

func reduceNoOrderOnce(ops []gate.Operation) ([]gate.Operation, bool) {
	if len(ops) == 1 {
		if r, ok := ops[0].(*gate.Rotation); ok && r.IsIdentity() {
			return ops[:0], true
		}
		return ops, false
	}

	changed := false
	index1, index2 := 0, 1
	for len(ops)-1 > index1 {
		res := CombineGate(ops[index1], ops[index2])
		if res.Combinable {
			if res.Combined == nil {
				ops = append(ops[:index2], ops[index2+1:]...)
				ops = append(ops[:index1], ops[index1+1:]...)
			} else {
				ops[index1] = res.Combined
				ops = append(ops[:index2], ops[index2+1:]...)
			}
			changed = true
		} else {
			index2++
		}
		if index2 >= len(ops) {
			index1++
			index2 = index1 + 1
		}
	}
	return ops, changed
}

// ReduceNoOrderLayers fuses operations across two adjacent layers,
// repeating until a full pass produces no further change.
func ReduceNoOrderLayers(layer1, layer2 []gate.Operation) ([]gate.Operation, []gate.Operation, bool) {
	changedOverall := false
	for {
		l1, l2, changed := reduceNoOrderLayersOnce(layer1, layer2)
		layer1, layer2 = l1, l2
		if !changed {
			break
		}
		changedOverall = true
	}
	return layer1, layer2, changedOverall
}

func reduceNoOrderLayersOnce(layer1, layer2 []gate.Operation) ([]gate.Operation, []gate.Operation, bool) {
	if len(layer1) == 0 || len(layer2) == 0 {
		return layer1, layer2, false
	}
	changed := false
	for i := 0; i < len(layer1); i++ {
		for j := 0; j < len(layer2); j++ {
			res := CombineGate(layer1[i], layer2[j])
			if res.Combinable {
				if res.Combined == nil {
					layer1 = append(layer1[:i], layer1[i+1:]...)
					layer2 = append(layer2[:j], layer2[j+1:]...)
				} else {
					layer1[i] = res.Combined
					layer2 = append(layer2[:j], layer2[j+1:]...)
				}
				changed = true
			}
		}
	}
	return layer1, layer2, changed
}
