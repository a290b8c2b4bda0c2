package gate

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"

	"github.com/oqtopus-team/cliffordt-optimizer/pauli"
)

// Circuit is an ordered sequence of operations over N qubits, with
// qubits [AncillaBegin,N) designated ancillas. Grounded on the original
// LysCompiler's flat operation vector plus its numQubits/ancillaBegin
// fields.
type Circuit struct {
	// ID correlates a circuit section across log lines and the section
	// store; assigned once at construction.
	ID string

	N            int
	AncillaBegin int
	Operations   []Operation
}

// NewCircuit constructs an empty circuit over n qubits with ancillas
// starting at ancillaBegin. ancillaBegin must lie in [0,n].
func NewCircuit(n, ancillaBegin int) (*Circuit, error) {
	if ancillaBegin < 0 || ancillaBegin > n {
		return nil, invalidArg(-1, "ancillaBegin %d out of range [0,%d]", ancillaBegin, n)
	}
	return &Circuit{
		ID:           uuid.NewString(),
		N:            n,
		AncillaBegin: ancillaBegin,
	}, nil
}

// NewCircuitWithDefaultMeasurements builds a circuit over n qubits with
// ancillas starting at ancillaBegin, then appends k default +Z-basis
// measurements on qubits 0..k-1. Grounded on the original
// LysCompiler(int numDefaultMeasurements, ...) constructor, a convenience
// dropped from the distilled spec but cheap to carry forward.
func NewCircuitWithDefaultMeasurements(n, ancillaBegin, k int) (*Circuit, error) {
	c, err := NewCircuit(n, ancillaBegin)
	if err != nil {
		return nil, err
	}
	if k < 0 || k > n {
		return nil, invalidArg(-1, "default measurement count %d out of range [0,%d]", k, n)
	}
	for q := 0; q < k; q++ {
		basis, err := pauli.NewFromBasis([]byte{'z'}, []int{q}, n)
		if err != nil {
			return nil, err
		}
		c.Operations = append(c.Operations, NewMeasurement(basis, true))
	}
	return c, nil
}

// NewCircuitFromOperations builds a circuit from a pre-decoded operation
// list (the CLI's JSON circuit loader uses this), validating every
// operation against n and ancillaBegin before accepting any of them.
func NewCircuitFromOperations(ops []Operation, n, ancillaBegin int) (*Circuit, error) {
	c, err := NewCircuit(n, ancillaBegin)
	if err != nil {
		return nil, err
	}
	if err := ValidateOperations(ops, n); err != nil {
		return nil, err
	}
	c.Operations = ops
	return c, nil
}

// AppendRotation validates and appends a rotation.
func (c *Circuit) AppendRotation(basis pauli.String, angle Angle) error {
	r, err := NewRotation(basis, angle)
	if err != nil {
		return invalidArg(len(c.Operations), "%s", err)
	}
	c.Operations = append(c.Operations, r)
	return nil
}

// AppendMeasurement appends a measurement.
func (c *Circuit) AppendMeasurement(basis pauli.String, phase bool) {
	c.Operations = append(c.Operations, NewMeasurement(basis, phase))
}

// TCount returns the number of T-class rotations remaining in the circuit.
func (c *Circuit) TCount() int {
	n := 0
	for _, op := range c.Operations {
		if r, ok := op.(*Rotation); ok && r.IsTGate() {
			n++
		}
	}
	return n
}

// DataMask returns the bitset of data qubits, [0,AncillaBegin).
func (c *Circuit) DataMask() *bitset.BitSet {
	m := bitset.New(uint(c.N))
	for i := 0; i < c.AncillaBegin; i++ {
		m.Set(uint(i))
	}
	return m
}

// AncillaMask returns the bitset of ancilla qubits, [AncillaBegin,N).
func (c *Circuit) AncillaMask() *bitset.BitSet {
	m := bitset.New(uint(c.N))
	for i := c.AncillaBegin; i < c.N; i++ {
		m.Set(uint(i))
	}
	return m
}

// Clone returns a deep, independently mutable copy of c, sharing no
// Operation pointers with the original.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{ID: uuid.NewString(), N: c.N, AncillaBegin: c.AncillaBegin}
	out.Operations = make([]Operation, len(c.Operations))
	for i, op := range c.Operations {
		switch v := op.(type) {
		case *Rotation:
			out.Operations[i] = v.Clone()
		case *Measurement:
			out.Operations[i] = v.Clone()
		}
	}
	return out
}

// String renders the circuit as a newline-joined list of its operations'
// String() forms, for debug logging.
func (c *Circuit) String() string {
	parts := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		parts[i] = op.String()
	}
	return strings.Join(parts, "\n")
}
