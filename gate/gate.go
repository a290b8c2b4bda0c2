// Package gate holds the circuit data model: Pauli rotations, Pauli
// measurements, and the Operation sum type the optimizer passes rewrite.
package gate

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

// InvalidArgumentError reports a malformed circuit element, carrying the
// offending operation's index (or -1 if not applicable) for diagnostics.
type InvalidArgumentError struct {
	Index int
	Msg   string
}

func (e *InvalidArgumentError) Error() string {
	if e.Index < 0 {
		return e.Msg
	}
	return fmt.Sprintf("operation %d: %s", e.Index, e.Msg)
}

func invalidArg(index int, format string, args ...interface{}) error {
	return &InvalidArgumentError{Index: index, Msg: fmt.Sprintf(format, args...)}
}

// Operation is the tagged sum of circuit elements: every Rotation and
// Measurement implements it. Dispatch sites switch exhaustively on the
// concrete type rather than relying on virtual methods, mirroring the
// original compiler's two-class Operation hierarchy without needing a
// base class of its own.
type Operation interface {
	// Basis returns the element's Pauli string.
	Basis() pauli.String
	// IsRotation reports whether this operation is a *Rotation.
	IsRotation() bool
	fmt.Stringer
}

// Angle is a rotation angle expressed as a multiple of pi/4, restricted to
// {-2,-1,0,1,2}: 0 is a Pauli (pi/2) rotation, +-1 a T-class rotation, +-2 a
// Clifford (pi/4) rotation.
type Angle int

// IsT reports whether a is a T-class (non-Clifford) rotation angle.
func (a Angle) IsT() bool { return a == 1 || a == -1 }

func validAngle(a Angle) bool {
	return a >= -2 && a <= 2
}

// ValidateOperations checks that every operation in ops is well-formed for
// an n-qubit circuit, aggregating every failure found rather than stopping
// at the first one so a caller decoding an untrusted circuit (the CLI's
// JSON input, say) gets a complete report in one pass.
func ValidateOperations(ops []Operation, n int) error {
	var errs error
	for i, op := range ops {
		if op.Basis().N() != n {
			errs = multierr.Append(errs, invalidArg(i, "basis width %d does not match circuit width %d", op.Basis().N(), n))
		}
		if r, ok := op.(*Rotation); ok && !validAngle(r.Angle()) {
			errs = multierr.Append(errs, invalidArg(i, "rotation angle %d out of range [-2,2]", r.Angle()))
		}
	}
	return errs
}
