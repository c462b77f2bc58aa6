// Package hasher provides the ZK friendly hash functions used for tree nodes
// and leaves. Inputs and outputs are BN254 scalar field elements.
package hasher

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/pkg/errors"
)

// ErrInputNotInField is returned for inputs outside [0, r).
var ErrInputNotInField = errors.New("hash input is not in the field")

// Hasher hashes a fixed number of field elements into one.
type Hasher interface {
	Hash(inputs ...*big.Int) (*big.Int, error)
}

// Modulus returns the BN254 scalar field modulus.
func Modulus() *big.Int {
	return fr.Modulus()
}

// InField reports whether v is a canonical field element.
func InField(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(fr.Modulus()) < 0
}

func checkInputs(inputs []*big.Int) error {
	if len(inputs) == 0 {
		return errors.New("no hash inputs")
	}
	for i, in := range inputs {
		if !InField(in) {
			return errors.Wrapf(ErrInputNotInField, "input %d", i)
		}
	}
	return nil
}

// Poseidon is the circomlib compatible Poseidon hash.
type Poseidon struct{}

// Hash implements Hasher.
func (Poseidon) Hash(inputs ...*big.Int) (*big.Int, error) {
	if err := checkInputs(inputs); err != nil {
		return nil, err
	}
	return poseidon.Hash(inputs)
}

// MiMC is the MiMC-BN254 hash as implemented by gnark's std/hash/mimc.
type MiMC struct{}

// Hash implements Hasher.
func (MiMC) Hash(inputs ...*big.Int) (*big.Int, error) {
	if err := checkInputs(inputs); err != nil {
		return nil, err
	}
	h := mimc.NewMiMC()
	buf := make([]byte, fr.Bytes)
	for _, in := range inputs {
		in.FillBytes(buf)
		if _, err := h.Write(buf); err != nil {
			return nil, errors.Wrap(err, "mimc write")
		}
	}
	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

// ByName returns the hasher registered under name.
func ByName(name string) (Hasher, error) {
	switch name {
	case "", "poseidon":
		return Poseidon{}, nil
	case "mimc":
		return MiMC{}, nil
	default:
		return nil, errors.Errorf("unknown hasher %q", name)
	}
}
