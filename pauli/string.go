// Package pauli implements the bit-level algebra of Pauli strings: the
// (X,Z) bit-vector encoding of a tensor product of single-qubit {I,X,Y,Z}
// operators, and the commutation predicate every reordering pass in
// optimizer builds on.
package pauli

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/multierr"
)

// String is a fixed-width Pauli string (X,Z) over N qubits. Qubit i carries
// I=(0,0), X=(1,0), Z=(0,1), Y=(1,1). The zero value is not valid; use New*
// constructors.
type String struct {
	n int
	x *bitset.BitSet
	z *bitset.BitSet
}

// InvalidArgumentError is raised at construction time for ill-formed Pauli
// strings, matching spec.md's InvalidArgument error taxonomy.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string { return e.Msg }

func invalidArg(format string, args ...interface{}) error {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// Identity returns the N-qubit identity Pauli string.
func Identity(n int) String {
	return String{n: n, x: bitset.New(uint(n)), z: bitset.New(uint(n))}
}

// NewFromBasis builds a Pauli string from a vector of basis characters drawn
// from {'x','y','z'} and the qubit indices they act on. basis and qubits
// must have equal length and qubits must be unique and within [0,n).
func NewFromBasis(basis []byte, qubits []int, n int) (String, error) {
	if len(basis) != len(qubits) {
		return String{}, invalidArg(
			"basis and qubits must have equal length, got %d and %d", len(basis), len(qubits))
	}

	x := bitset.New(uint(n))
	z := bitset.New(uint(n))

	var errs error
	seen := make(map[int]bool, len(qubits))
	for i, q := range qubits {
		if q < 0 || q >= n {
			errs = multierr.Append(errs, invalidArg("qubit index %d out of range [0,%d)", q, n))
			continue
		}
		if seen[q] {
			errs = multierr.Append(errs, invalidArg("duplicate qubit index %d", q))
			continue
		}
		seen[q] = true

		switch basis[i] {
		case 'x':
			x.Set(uint(q))
		case 'z':
			z.Set(uint(q))
		case 'y':
			x.Set(uint(q))
			z.Set(uint(q))
		default:
			errs = multierr.Append(errs, invalidArg("unknown basis character %q", basis[i]))
		}
	}
	if errs != nil {
		return String{}, errs
	}
	return String{n: n, x: x, z: z}, nil
}

// NewFromBits builds a Pauli string directly from '0'/'1' bit strings for X
// and Z, MSB (qubit 0) first, matching the wire encoding in spec.md §6.
func NewFromBits(xBits, zBits string) (String, error) {
	if len(xBits) != len(zBits) {
		return String{}, invalidArg(
			"xBits and zBits must have equal length, got %d and %d", len(xBits), len(zBits))
	}
	n := len(xBits)
	x := bitset.New(uint(n))
	z := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		switch xBits[i] {
		case '0':
		case '1':
			x.Set(uint(i))
		default:
			return String{}, invalidArg("xBits must be 0/1, got %q at index %d", xBits[i], i)
		}
		switch zBits[i] {
		case '0':
		case '1':
			z.Set(uint(i))
		default:
			return String{}, invalidArg("zBits must be 0/1, got %q at index %d", zBits[i], i)
		}
	}
	return String{n: n, x: x, z: z}, nil
}

// N returns the qubit width of s.
func (s String) N() int { return s.n }

// Clone returns a deep, independently mutable copy of s.
func (s String) Clone() String {
	return String{n: s.n, x: s.x.Clone(), z: s.z.Clone()}
}

// IsIdentity reports whether s is the all-I Pauli string.
func (s String) IsIdentity() bool {
	return s.x.None() && s.z.None()
}

// IsSingleQubit reports whether s acts nontrivially on exactly one qubit.
func (s String) IsSingleQubit() bool {
	return s.x.Union(s.z).Count() == 1
}

// Commute reports whether s and other commute: popcount(s.X & other.Z) +
// popcount(s.Z & other.X) is even. This is the only predicate consulted by
// any reordering pass in this module.
func (s String) Commute(other String) bool {
	xz := s.x.IntersectionCardinality(other.z)
	zx := s.z.IntersectionCardinality(other.x)
	return (xz+zx)%2 == 0
}

// Xor returns the componentwise XOR of s and other's X and Z vectors — the
// basis update used by the commutation rewriter (spec.md §4.C) when
// crossing a Clifford rotation.
func (s String) Xor(other String) String {
	x := s.x.Clone()
	x.InPlaceSymmetricDifference(other.x)
	z := s.z.Clone()
	z.InPlaceSymmetricDifference(other.z)
	return String{n: s.n, x: x, z: z}
}

// YCount returns the number of qubits on which s acts as Y (X and Z both
// set), used by the commutation rewriter's parity checks.
func (s String) YCount() int {
	return int(s.x.IntersectionCardinality(s.z))
}

// BlockAction classifies s's support relative to ancillaBegin: 'd' if s
// touches only data qubits ([0,ancillaBegin)), 'a' if only ancillas
// ([ancillaBegin,N)), 'b' if both.
func (s String) BlockAction(ancillaBegin int) byte {
	support := s.x.Union(s.z)
	touchesData := false
	touchesAncilla := false
	for i, e := support.NextSet(0); e; i, e = support.NextSet(i + 1) {
		if int(i) < ancillaBegin {
			touchesData = true
		} else {
			touchesAncilla = true
		}
		if touchesData && touchesAncilla {
			return 'b'
		}
	}
	switch {
	case touchesData:
		return 'd'
	case touchesAncilla:
		return 'a'
	default:
		// identity has no support; treat as purely data so it is never
		// mistaken for an ancilla-only rotation that needs absorption.
		return 'd'
	}
}

// Equal reports whether s and other encode the same Pauli string. The
// width must match.
func (s String) Equal(other String) bool {
	return s.n == other.n && s.x.Equal(other.x) && s.z.Equal(other.z)
}

// String renders s as a qubit-indexed basis string, e.g. "IXZY".
func (s String) String() string {
	var b strings.Builder
	for i := 0; i < s.n; i++ {
		xi := s.x.Test(uint(i))
		zi := s.z.Test(uint(i))
		switch {
		case xi && zi:
			b.WriteByte('Y')
		case xi:
			b.WriteByte('X')
		case zi:
			b.WriteByte('Z')
		default:
			b.WriteByte('I')
		}
	}
	return b.String()
}

// Mask returns the qubit-index set this Pauli string has nonidentity
// support on, as a *bitset.BitSet the caller may union across a circuit
// (used by the measurement absorber for its measured-qubit and
// rotation-support masks).
func (s String) Mask() *bitset.BitSet {
	return s.x.Union(s.z)
}

// Decompose returns the qubit indices s acts on nontrivially and the basis
// character ('x','y','z') at each, in ascending qubit order — the inverse of
// NewFromBasis, used to flatten a Pauli string into a wire-format DTO.
func (s String) Decompose() ([]int, []byte) {
	var qubits []int
	var chars []byte
	support := s.x.Union(s.z)
	for i, e := support.NextSet(0); e; i, e = support.NextSet(i + 1) {
		qubits = append(qubits, int(i))
		switch {
		case s.x.Test(i) && s.z.Test(i):
			chars = append(chars, 'y')
		case s.x.Test(i):
			chars = append(chars, 'x')
		default:
			chars = append(chars, 'z')
		}
	}
	return qubits, chars
}

// XBits returns s.X bits (qubit 0 first).
func (s String) XBits() *bitset.BitSet { return s.x }

// ZBits returns s.Z bits (qubit 0 first).
func (s String) ZBits() *bitset.BitSet { return s.z }
