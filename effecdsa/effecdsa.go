// Package effecdsa turns an ECDSA signature into the points (T, U) used by
// the efficient ECDSA circuit, which then checks s·T + U = Q with a single
// variable base multiplication.
package effecdsa

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/iden3/go-ecdsa-membership/ec"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
)

// HashPersonalMessage returns the EIP-191 digest of msg.
func HashPersonalMessage(msg []byte) []byte {
	return accounts.TextHash(msg)
}

// Derive computes T = r⁻¹·R and U = -(r⁻¹·h)·G, where R is the point with
// x coordinate r and y parity recoveryID, and h is the digest reduced mod n.
func Derive(r ec.Scalar, recoveryID byte, digest []byte) (T, U ec.Point, err error) {
	if recoveryID > 1 {
		return ec.Point{}, ec.Point{}, errors.Errorf("recovery id must be 0 or 1, got %d", recoveryID)
	}
	h := ec.ScalarFromBytes(digest)

	rx, err := ec.FieldElementFromBig(r.Big())
	if err != nil {
		return ec.Point{}, ec.Point{}, err
	}
	R, err := ec.DecompressPoint(rx, recoveryID == 1)
	if err != nil {
		return ec.Point{}, ec.Point{}, err
	}

	rInv, err := r.Inverse()
	if err != nil {
		return ec.Point{}, ec.Point{}, err
	}

	w := rInv.Mul(h).Negate()
	U = ec.ScalarBaseMul(w)
	T = ec.ScalarMul(rInv, R)
	return T, U, nil
}

// DeriveCircuitPublicInput returns the circuit public input without a root.
// Callers that prove membership set Root afterwards.
func DeriveCircuitPublicInput(r ec.Scalar, recoveryID byte, digest []byte) (pubsignals.CircuitPublicInput, error) {
	T, U, err := Derive(r, recoveryID, digest)
	if err != nil {
		return pubsignals.CircuitPublicInput{}, err
	}
	return pubsignals.CircuitPublicInput{
		Tx: T.X(),
		Ty: T.Y(),
		Ux: U.X(),
		Uy: U.Y(),
	}, nil
}

// VerifyBinding re-derives (T, U) from r, the recovery id and the digest and
// compares them with the claimed coordinates. Any derivation failure is
// reported as a mismatch.
func VerifyBinding(claimed pubsignals.CircuitPublicInput, r *big.Int, recoveryID byte, digest []byte) bool {
	rs, err := ec.ScalarFromBigStrict(r)
	if err != nil {
		return false
	}
	expected, err := DeriveCircuitPublicInput(rs, recoveryID, digest)
	if err != nil {
		return false
	}
	return eq(expected.Tx, claimed.Tx) &&
		eq(expected.Ty, claimed.Ty) &&
		eq(expected.Ux, claimed.Ux) &&
		eq(expected.Uy, claimed.Uy)
}

// VerifyPublicInput checks the binding of a full public input.
func VerifyPublicInput(in pubsignals.FullPublicInput) bool {
	rid, err := in.RecoveryID()
	if err != nil {
		return false
	}
	return VerifyBinding(in.Circuit, in.R, rid, in.Digest)
}

// RecoverPublicKey computes Q = s·T + U, the relation the circuit enforces.
func RecoverPublicKey(sig Signature, digest []byte) (ec.Point, error) {
	T, U, err := Derive(sig.R, sig.RecoveryID, digest)
	if err != nil {
		return ec.Point{}, err
	}
	return ec.Add(ec.ScalarMul(sig.S, T), U), nil
}

func eq(a, b *big.Int) bool {
	return a != nil && b != nil && a.Cmp(b) == 0
}
