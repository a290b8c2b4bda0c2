package optimizer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/oqtopus-team/cliffordt-optimizer/gate"
)

var tracer = otel.Tracer("github.com/oqtopus-team/cliffordt-optimizer/optimizer")

// Optimize runs the fixed-point T-forward/layer/combine loop over
// circuit.Operations until no round produces further change, or timeBudget
// elapses (timeBudget <= 0 means no limit; the check happens between
// rounds, never mid-round). It returns the number of T-forwarded
// operations at the front of the rewritten circuit.
func Optimize(circuit *gate.Circuit, timeBudget time.Duration) int {
	ctx, span := tracer.Start(context.Background(), "optimizer.Optimize")
	defer span.End()

	ops := circuit.Operations
	ops = combineAdjacent(ops)

	var pushedBackNonT []gate.Operation
	var deadline time.Time
	if timeBudget > 0 {
		deadline = time.Now().Add(timeBudget)
	}

	changed := true
	round := 0
	for changed {
		if !deadline.IsZero() && time.Now().After(deadline) {
			zap.L().Debug(fmt.Sprintf("optimize: time budget exceeded after %d rounds", round))
			break
		}
		changed = false
		round++
		_, roundSpan := tracer.Start(ctx, "optimizer.round")

		numTGates := PushTForward(ops)

		tgates := append([]gate.Operation(nil), ops[:numTGates]...)
		nonT := append([]gate.Operation(nil), ops[numTGates:]...)
		pushedBackNonT = append(nonT, pushedBackNonT...)

		layers := PartitionLayers(tgates)
		for i := range layers {
			reduced, layerChanged := ReduceNoOrder(layers[i])
			layers[i] = reduced
			changed = changed || layerChanged
		}

		ops = ops[:0]
		for _, layer := range layers {
			ops = append(ops, layer...)
		}
		roundSpan.End()
	}
	zap.L().Debug(fmt.Sprintf("optimize: converged after %d rounds, t-count=%d", round, len(ops)))

	tCount := len(ops)
	ops = append(ops, pushedBackNonT...)
	circuit.Operations = ops
	return tCount
}

// combineAdjacent makes a single forward scan of ops, fusing each element
// with its successor whenever they combine, before the main loop starts.
// It applies the same pairwise CombineGate rule that ReduceNoOrder uses
// within a layer.
func combineAdjacent(ops []gate.Operation) []gate.Operation {
	if len(ops) < 2 {
		return ops
	}

	result := make([]gate.Operation, 0, len(ops))
	index1, index2 := 0, 1
	for index2 < len(ops) {
		res := CombineGate(ops[index1], ops[index2])

		var layer2NonEmpty bool
		switch {
		case !res.Combinable:
			layer2NonEmpty = true
			result = append(result, ops[index1])
			index1 = index2
			index2 = index1 + 1
		case res.Combined != nil:
			ops[index1] = res.Combined
			if index2 == len(ops)-1 {
				result = append(result, ops[index1])
			}
			index2++
		default:
			index1 = index2 + 1
			index2 = index1 + 1
			if index1 == len(ops)-1 {
				result = append(result, ops[index1])
			}
		}

		if index2 >= len(ops) && layer2NonEmpty {
			result = append(result, ops[index2-1])
		}
	}
	return result
}
