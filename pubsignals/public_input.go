package pubsignals

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"
)

// ElementSize is the width of every encoded integer.
const ElementSize = 32

// ErrMalformedInput is returned when public input bytes do not match the
// expected layout.
var ErrMalformedInput = errors.New("malformed public input")

// Layout selects between the membership and the plain efficient-ECDSA
// variants of the circuit public input.
type Layout int

const (
	// LayoutWithoutRoot is Tx‖Ty‖Ux‖Uy.
	LayoutWithoutRoot Layout = iota
	// LayoutWithRoot is root‖Tx‖Ty‖Ux‖Uy.
	LayoutWithRoot
)

// CircuitSize is the encoded size of a CircuitPublicInput.
func (l Layout) CircuitSize() int {
	if l == LayoutWithRoot {
		return 5 * ElementSize
	}
	return 4 * ElementSize
}

// FullSize is the encoded size of a FullPublicInput: r‖v‖circuit‖digest.
func (l Layout) FullSize() int {
	return ElementSize + 1 + l.CircuitSize() + ElementSize
}

// CircuitPublicInput is the public part the circuit constrains. Root is nil
// for the variant without membership.
type CircuitPublicInput struct {
	Root *big.Int
	Tx   *big.Int
	Ty   *big.Int
	Ux   *big.Int
	Uy   *big.Int
}

// Layout returns the layout implied by the presence of Root.
func (c CircuitPublicInput) Layout() Layout {
	if c.Root != nil {
		return LayoutWithRoot
	}
	return LayoutWithoutRoot
}

func (c CircuitPublicInput) elements() []*big.Int {
	els := []*big.Int{c.Tx, c.Ty, c.Ux, c.Uy}
	if c.Root != nil {
		els = append([]*big.Int{c.Root}, els...)
	}
	return els
}

// Encode returns the fixed width big-endian encoding.
func (c CircuitPublicInput) Encode() ([]byte, error) {
	els := c.elements()
	out := make([]byte, 0, len(els)*ElementSize)
	for i, v := range els {
		b, err := encodeElement(v)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Equal compares every element.
func (c CircuitPublicInput) Equal(o CircuitPublicInput) bool {
	a, b := c.elements(), o.elements()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil || a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

// DecodeCircuitPublicInput parses b according to layout. The length must
// match exactly.
func DecodeCircuitPublicInput(b []byte, layout Layout) (CircuitPublicInput, error) {
	if len(b) != layout.CircuitSize() {
		return CircuitPublicInput{}, errors.Wrapf(ErrMalformedInput,
			"circuit public input has %d bytes, expected %d", len(b), layout.CircuitSize())
	}

	var c CircuitPublicInput
	if layout == LayoutWithRoot {
		c.Root = decodeElement(b[:ElementSize])
		b = b[ElementSize:]
	}
	c.Tx = decodeElement(b[0:32])
	c.Ty = decodeElement(b[32:64])
	c.Ux = decodeElement(b[64:96])
	c.Uy = decodeElement(b[96:128])
	return c, nil
}

// DetectLayout infers the layout of an encoded CircuitPublicInput from its
// length.
func DetectLayout(b []byte) (Layout, error) {
	switch len(b) {
	case LayoutWithRoot.CircuitSize():
		return LayoutWithRoot, nil
	case LayoutWithoutRoot.CircuitSize():
		return LayoutWithoutRoot, nil
	default:
		return 0, errors.Wrapf(ErrMalformedInput, "unexpected circuit public input size %d", len(b))
	}
}

// FullPublicInput is what a verifier receives next to the proof. V is kept
// exactly as it appeared in the signature. Since 0 and 27 (or 1 and 28) name
// the same recovery id, a proof verifies under both spellings of V. Callers
// that key on the public input bytes should normalize V first.
type FullPublicInput struct {
	R       *big.Int
	V       byte
	Digest  []byte
	Circuit CircuitPublicInput
}

// RecoveryID normalizes V to the y parity of R.
func (f FullPublicInput) RecoveryID() (byte, error) {
	return NormalizeV(f.V)
}

// NormalizeV maps v ∈ {0, 1, 27, 28} to {0, 1}. The raw byte is still what
// gets encoded and bound into the public input.
func NormalizeV(v byte) (byte, error) {
	switch v {
	case 0, 1:
		return v, nil
	case 27, 28:
		return v - 27, nil
	default:
		return 0, errors.Errorf("unsupported recovery value %d", v)
	}
}

// Encode returns r‖v‖circuit‖digest.
func (f FullPublicInput) Encode() ([]byte, error) {
	if len(f.Digest) != ElementSize {
		return nil, errors.Errorf("digest must be %d bytes, got %d", ElementSize, len(f.Digest))
	}
	r, err := encodeElement(f.R)
	if err != nil {
		return nil, errors.Wrap(err, "r")
	}
	circuit, err := f.Circuit.Encode()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, f.Circuit.Layout().FullSize())
	out = append(out, r...)
	out = append(out, f.V)
	out = append(out, circuit...)
	out = append(out, f.Digest...)
	return out, nil
}

// Equal compares every field.
func (f FullPublicInput) Equal(o FullPublicInput) bool {
	return f.R != nil && o.R != nil && f.R.Cmp(o.R) == 0 &&
		f.V == o.V &&
		bytes.Equal(f.Digest, o.Digest) &&
		f.Circuit.Equal(o.Circuit)
}

// DecodeFullPublicInput parses b according to layout.
func DecodeFullPublicInput(b []byte, layout Layout) (FullPublicInput, error) {
	if len(b) != layout.FullSize() {
		return FullPublicInput{}, errors.Wrapf(ErrMalformedInput,
			"public input has %d bytes, expected %d", len(b), layout.FullSize())
	}

	circuitEnd := ElementSize + 1 + layout.CircuitSize()
	circuit, err := DecodeCircuitPublicInput(b[ElementSize+1:circuitEnd], layout)
	if err != nil {
		return FullPublicInput{}, err
	}

	digest := make([]byte, ElementSize)
	copy(digest, b[circuitEnd:])

	return FullPublicInput{
		R:       decodeElement(b[:ElementSize]),
		V:       b[ElementSize],
		Digest:  digest,
		Circuit: circuit,
	}, nil
}

func encodeElement(v *big.Int) ([]byte, error) {
	if v == nil {
		return nil, errors.New("missing value")
	}
	if v.Sign() < 0 || v.BitLen() > 8*ElementSize {
		return nil, errors.Errorf("value %v does not fit %d bytes", v, ElementSize)
	}
	out := make([]byte, ElementSize)
	v.FillBytes(out)
	return out, nil
}

func decodeElement(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
