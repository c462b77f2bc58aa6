// Package ec wraps the secp256k1 group arithmetic needed by the efficient
// ECDSA transform. Scalars (mod n) and field elements (mod p) are distinct
// types so the two moduli can not be mixed up by accident.
package ec

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// ErrInvalidEncoding is returned when a coordinate does not describe a point
// on the curve.
var ErrInvalidEncoding = errors.New("invalid point encoding")

// ErrNotInvertible is returned when inverting the zero scalar.
var ErrNotInvertible = errors.New("scalar is not invertible")

var (
	curveN = new(big.Int).Set(secp256k1.Params().N)
	curveP = new(big.Int).Set(secp256k1.Params().P)
)

// Order returns the group order n.
func Order() *big.Int {
	return new(big.Int).Set(curveN)
}

// FieldPrime returns the base field prime p.
func FieldPrime() *big.Int {
	return new(big.Int).Set(curveP)
}

// Scalar is an integer mod n.
type Scalar struct {
	v secp256k1.ModNScalar
}

// ScalarFromBig reduces x mod n.
func ScalarFromBig(x *big.Int) Scalar {
	reduced := new(big.Int).Mod(x, curveN)
	var buf [32]byte
	reduced.FillBytes(buf[:])

	var s Scalar
	s.v.SetBytes(&buf)
	return s
}

// ScalarFromBytes interprets b as a big-endian integer and reduces it mod n.
func ScalarFromBytes(b []byte) Scalar {
	return ScalarFromBig(new(big.Int).SetBytes(b))
}

// ScalarFromBigStrict accepts only values in [1, n).
func ScalarFromBigStrict(x *big.Int) (Scalar, error) {
	if x == nil || x.Sign() <= 0 || x.Cmp(curveN) >= 0 {
		return Scalar{}, errors.Errorf("scalar %v is out of range [1, n)", x)
	}
	return ScalarFromBig(x), nil
}

// Big returns the canonical integer value of s.
func (s Scalar) Big() *big.Int {
	b := s.v.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Bytes returns the 32 byte big-endian encoding.
func (s Scalar) Bytes() [32]byte {
	return s.v.Bytes()
}

// IsZero reports whether s is zero.
func (s Scalar) IsZero() bool {
	return s.v.IsZero()
}

// Equal reports whether both scalars hold the same value.
func (s Scalar) Equal(o Scalar) bool {
	return s.v.Equals(&o.v)
}

// Inverse returns s⁻¹ mod n.
func (s Scalar) Inverse() (Scalar, error) {
	if s.v.IsZero() {
		return Scalar{}, ErrNotInvertible
	}
	var out Scalar
	out.v.InverseValNonConst(&s.v)
	return out, nil
}

// Mul returns s·o mod n.
func (s Scalar) Mul(o Scalar) Scalar {
	var out Scalar
	out.v.Mul2(&s.v, &o.v)
	return out
}

// Negate returns -s mod n.
func (s Scalar) Negate() Scalar {
	var out Scalar
	out.v.NegateVal(&s.v)
	return out
}

// FieldElement is an integer mod p.
type FieldElement struct {
	v secp256k1.FieldVal
}

// FieldElementFromBig rejects values outside [0, p) instead of reducing them.
func FieldElementFromBig(x *big.Int) (FieldElement, error) {
	if x == nil || x.Sign() < 0 || x.Cmp(curveP) >= 0 {
		return FieldElement{}, errors.Wrapf(ErrInvalidEncoding, "field element %v is out of range", x)
	}
	var buf [32]byte
	x.FillBytes(buf[:])

	var f FieldElement
	f.v.SetBytes(&buf)
	f.v.Normalize()
	return f, nil
}

// Big returns the canonical integer value of f.
func (f FieldElement) Big() *big.Int {
	v := f.v
	v.Normalize()
	return new(big.Int).SetBytes(v.Bytes()[:])
}
