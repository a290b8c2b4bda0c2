package optimizer

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

// AbsorbMeasurements scans circuit.Operations[numTGates:] from the end
// backward, absorbing Clifford rotations that act only on already-measured
// ancillas into the trailing measurement block: a rotation entirely
// contained in the measured-ancilla set is deleted outright, one that
// anticommutes with a later measurement or controlled rotation is folded
// into it via the commutation rewriter, and anything left over is moved
// to just after the measurements it was absorbed past, preserving its
// relative order. It returns the number of rotations moved (not deleted).
func AbsorbMeasurements(circuit *gate.Circuit, numTGates int) int {
	ops := circuit.Operations
	idxOfTGates := numTGates - 1
	idxGate := len(ops) - 1

	ancillaMask := circuit.AncillaMask()
	maskOverall := bitset.New(uint(circuit.N))

	for idxGate > idxOfTGates {
		m, ok := ops[idxGate].(*gate.Measurement)
		if !ok {
			break
		}
		idxGate--
		maskOverall.InPlaceUnion(m.Basis().Mask())
	}

	idxR := idxGate
	idxLastM := len(ops) - 1
	numMoved := 0

	moveSet := make(map[int]bool)
	deleteSet := make(map[int]bool)

	for idxR > idxOfTGates {
		r, ok := ops[idxR].(*gate.Rotation)
		if !ok {
			panic("optimizer: expected rotation above the T-forwarded prefix during measurement absorption")
		}

		doSomething := true
		rMask := r.Basis().Mask()
		switch r.BlockAction(circuit.AncillaBegin) {
		case 'a':
			withinAncilla := ancillaMask.Intersection(rMask)
			if !withinAncilla.Intersection(maskOverall).Equal(withinAncilla) {
				doSomething = false
			}
		case 'b':
			if ancillaMask.Intersection(rMask).Difference(maskOverall).Any() {
				doSomething = false
			}
		}

		if !doSomething {
			break
		}

		for idxM := idxGate + 1; idxM <= idxLastM; idxM++ {
			switch op := ops[idxM].(type) {
			case *gate.Measurement:
				if !r.Basis().Commute(op.Basis()) {
					ops[idxM] = ApplyCommutationMeasurement(r, op)
				} else {
					rotations := op.Rotations()
					for i, cr := range rotations {
						if !cr.Basis().Commute(r.Basis()) {
							rotations[i] = ApplyCommutationRotation(r, cr)
						}
					}
				}
			case *gate.Rotation:
				if !r.Basis().Commute(op.Basis()) {
					ops[idxM] = ApplyCommutationRotation(r, op)
				}
			}
		}

		moveAfterMeasure := true
		if r.BlockAction(circuit.AncillaBegin) == 'a' {
			withinAncilla := ancillaMask.Intersection(rMask)
			if withinAncilla.Intersection(maskOverall).Equal(withinAncilla) {
				deleteSet[idxR] = true
				moveAfterMeasure = false
			}
		}

		if moveAfterMeasure {
			numMoved++
			moveSet[idxR] = true
		}

		idxR--
	}

	ptr1, ptr2 := numTGates, numTGates
	var moved []gate.Operation
	for ptr2 < len(ops) {
		switch {
		case moveSet[ptr2]:
			moved = append(moved, ops[ptr2])
			ptr2++
		case deleteSet[ptr2]:
			ptr2++
		default:
			ops[ptr1] = ops[ptr2]
			ptr1++
			ptr2++
		}
	}

	ops = append(ops[:ptr1], moved...)
	circuit.Operations = ops
	return numMoved
}
