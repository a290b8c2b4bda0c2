package optimizer

import (
	"sync"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

// MaxTForwardThreads and MinTForwardSliceSize bound the parallel slicing of
// PushTForward: at most this many worker goroutines, and each worker's
// slice holds at least this many operations (so sub-100-operation circuits
// run the pass serially).
const (
	MaxTForwardThreads  = 50
	MinTForwardSliceSize = 100
)

// PushTForward bubbles every T-class rotation in ops leftward past every
// non-T operation before it, swapping plainly past a commuting neighbour
// and rewriting the T rotation's basis and angle via
// ApplyCommutationRotation before swapping past a non-commuting one, until
// each is adjacent to the block of T gates before it. It returns the index
// one past the last T gate: ops[:n] holds only T gates, ops[n:] holds the
// non-T operations in their original relative order.
func PushTForward(ops []gate.Operation) int {
	if len(ops) == 0 {
		return 0
	}

	numThreads := len(ops) / MinTForwardSliceSize
	if numThreads > MaxTForwardThreads {
		numThreads = MaxTForwardThreads
	}

	begin, end := 0, len(ops)
	for numThreads > 1 {
		begin, end = runTForwardPass(ops, numThreads, begin, end)
		numThreads--
	}
	begin, _ = runTForwardPass(ops, 1, begin, end)
	return begin
}

func runTForwardPass(ops []gate.Operation, numThreads, begin, subsetEnd int) (int, int) {
	splitIndices := make([]int, numThreads)
	subVectorLength := (subsetEnd - begin) / numThreads

	var wg sync.WaitGroup
	start := begin
	for idx := 0; idx < numThreads; idx++ {
		sliceEnd := start + subVectorLength
		if idx == numThreads-1 {
			sliceEnd = subsetEnd
		}
		wg.Add(1)
		go func(idx, begin, end int) {
			defer wg.Done()
			splitIndices[idx] = pushTForwardSlice(ops, begin, end)
		}(idx, start, sliceEnd)
		start = sliceEnd
	}
	wg.Wait()

	return splitIndices[0], splitIndices[len(splitIndices)-1]
}

// pushTForwardSlice T-forwards within ops[begin:end), touching no index
// outside that range, and returns the index at which the forwarded T-block
// ends (the new boundary between T gates and whatever follows them in this
// slice).
func pushTForwardSlice(ops []gate.Operation, begin, end int) int {
	firstNonT := end
	for i := begin; i < end; i++ {
		r, isRotation := ops[i].(*gate.Rotation)
		if !isRotation || !r.IsTGate() {
			firstNonT = i
			break
		}
	}

	if firstNonT > end-1 {
		return end
	}

	for i := firstNonT + 1; i < end; i++ {
		current, isTGate := ops[i].(*gate.Rotation)
		if !isTGate || !current.IsTGate() {
			continue
		}

		pivot := i
		for pivot > firstNonT {
			prev := ops[pivot-1].(*gate.Rotation)
			if !current.Basis().Commute(prev.Basis()) {
				updated := ApplyCommutationRotation(prev, current)
				current.SetBasis(updated.Basis())
				current.SetAngle(updated.Angle())
			}
			ops[pivot], ops[pivot-1] = ops[pivot-1], ops[pivot]
			pivot--
		}
		firstNonT++
	}

	return firstNonT
}
