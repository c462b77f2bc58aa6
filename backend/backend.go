// Package backend defines the boundary to the external witness generator and
// proving system. Both are opaque: the membership library only hands them
// bytes and reads bytes back.
package backend

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
)

// ErrUnsatisfied is returned when a witness does not satisfy the circuit,
// for example when the signer is not in the tree. It is an input problem,
// not a failure of the proving system.
var ErrUnsatisfied = errors.New("witness does not satisfy the circuit")

//go:generate mockgen -destination=mock/backend_mock.go -package=mock_backend . WitnessCalculator,ProvingBackend,Initializer

// WitnessCalculator runs a witness generation program over named inputs.
type WitnessCalculator interface {
	Calculate(ctx context.Context, program []byte, inputs WitnessInputs) ([]byte, error)
}

// ProvingBackend proves and verifies statements about a compiled circuit.
// publicInput is the encoded pubsignals.CircuitPublicInput.
type ProvingBackend interface {
	Prove(ctx context.Context, circuit, witness, publicInput []byte) ([]byte, error)
	Verify(ctx context.Context, circuit, proof, publicInput []byte) (bool, error)
}

// Initializer is implemented by backends that need a one-time setup, for
// example loading a prover module.
type Initializer interface {
	Init(ctx context.Context, module []byte) error
}

// WitnessInputs are the named inputs of the membership circuit. Root,
// Siblings and PathIndices are empty for the variant without membership.
type WitnessInputs struct {
	S           *big.Int
	Tx, Ty      *big.Int
	Ux, Uy      *big.Int
	Root        *big.Int
	Siblings    []*big.Int
	PathIndices []int
}

// Membership reports whether the inputs carry a Merkle path.
func (w WitnessInputs) Membership() bool {
	return w.Root != nil
}

// PublicInput returns the public part of the inputs.
func (w WitnessInputs) PublicInput() pubsignals.CircuitPublicInput {
	return pubsignals.CircuitPublicInput{Root: w.Root, Tx: w.Tx, Ty: w.Ty, Ux: w.Ux, Uy: w.Uy}
}

// Validate checks that every required input is present.
func (w WitnessInputs) Validate() error {
	for name, v := range map[string]*big.Int{"s": w.S, "Tx": w.Tx, "Ty": w.Ty, "Ux": w.Ux, "Uy": w.Uy} {
		if v == nil {
			return errors.Errorf("witness input %s is missing", name)
		}
	}
	if len(w.Siblings) != len(w.PathIndices) {
		return errors.Errorf("got %d siblings and %d path indices", len(w.Siblings), len(w.PathIndices))
	}
	if w.Root == nil && len(w.Siblings) > 0 {
		return errors.New("merkle path given without root")
	}
	return nil
}

// Circom returns the inputs keyed by the circom signal names. 256-bit values
// are split into [hi, lo] 128-bit limbs, field sized values are kept whole.
func (w WitnessInputs) Circom() map[string]interface{} {
	limbs := func(v *big.Int) []string {
		hi, lo := pubsignals.SplitLimbs(v)
		return []string{hi.String(), lo.String()}
	}

	out := map[string]interface{}{
		"s":  limbs(w.S),
		"Tx": limbs(w.Tx),
		"Ty": limbs(w.Ty),
		"Ux": limbs(w.Ux),
		"Uy": limbs(w.Uy),
	}
	if w.Root != nil {
		siblings := make([]string, len(w.Siblings))
		for i, s := range w.Siblings {
			siblings[i] = s.String()
		}
		indices := make([]string, len(w.PathIndices))
		for i, p := range w.PathIndices {
			indices[i] = big.NewInt(int64(p)).String()
		}
		out["root"] = w.Root.String()
		out["siblings"] = siblings
		out["pathIndices"] = indices
	}
	return out
}

// MarshalJSON encodes the circom form.
func (w WitnessInputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Circom())
}
