package pubsignals

import (
	"math/big"

	"github.com/pkg/errors"
)

// LimbBits is the width of the limbs a 256-bit secp256k1 value is split into
// so it fits the BN254 scalar field.
const LimbBits = 128

var limbMask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), LimbBits), big.NewInt(1))

// SplitLimbs returns v = hi·2¹²⁸ + lo.
func SplitLimbs(v *big.Int) (hi, lo *big.Int) {
	hi = new(big.Int).Rsh(v, LimbBits)
	lo = new(big.Int).And(v, limbMask)
	return hi, lo
}

// JoinLimbs is the inverse of SplitLimbs.
func JoinLimbs(hi, lo *big.Int) *big.Int {
	v := new(big.Int).Lsh(hi, LimbBits)
	return v.Or(v, lo)
}

// Signals returns the circuit public input as decimal field elements:
// the root (when present) followed by a hi, lo pair per coordinate.
func (c CircuitPublicInput) Signals() ([]string, error) {
	var out []string
	if c.Root != nil {
		out = append(out, c.Root.String())
	}
	for i, v := range []*big.Int{c.Tx, c.Ty, c.Ux, c.Uy} {
		if v == nil || v.Sign() < 0 || v.BitLen() > 8*ElementSize {
			return nil, errors.Errorf("coordinate %d is not a 256-bit value", i)
		}
		hi, lo := SplitLimbs(v)
		out = append(out, hi.String(), lo.String())
	}
	return out, nil
}

// CircuitPublicInputFromSignals parses the output of Signals.
func CircuitPublicInputFromSignals(signals []string) (CircuitPublicInput, error) {
	var c CircuitPublicInput
	switch len(signals) {
	case 9:
		root, err := parseSignal(signals[0])
		if err != nil {
			return c, err
		}
		c.Root = root
		signals = signals[1:]
	case 8:
	default:
		return c, errors.Wrapf(ErrMalformedInput, "unexpected number of public signals %d", len(signals))
	}

	coords := make([]*big.Int, 4)
	for i := range coords {
		hi, err := parseSignal(signals[2*i])
		if err != nil {
			return c, err
		}
		lo, err := parseSignal(signals[2*i+1])
		if err != nil {
			return c, err
		}
		if hi.BitLen() > LimbBits || lo.BitLen() > LimbBits {
			return c, errors.Wrapf(ErrMalformedInput, "limb of coordinate %d exceeds %d bits", i, LimbBits)
		}
		coords[i] = JoinLimbs(hi, lo)
	}
	c.Tx, c.Ty, c.Ux, c.Uy = coords[0], coords[1], coords[2], coords[3]
	return c, nil
}

func parseSignal(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Wrapf(ErrMalformedInput, "invalid signal %q", s)
	}
	return v, nil
}
