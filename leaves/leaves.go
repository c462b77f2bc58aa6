// Package leaves derives Merkle tree leaves from secp256k1 public keys.
package leaves

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iden3/go-ecdsa-membership/ec"
	"github.com/iden3/go-ecdsa-membership/hasher"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
)

// Kind identifies what a membership tree commits to.
type Kind int

const (
	// KindNone proves only the efficient ECDSA relation, without membership.
	KindNone Kind = iota
	// KindPubKeyHash commits to a hash of the public key coordinates.
	KindPubKeyHash
	// KindAddress commits to the Ethereum address of the key.
	KindAddress
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPubKeyHash:
		return "pubkey"
	case KindAddress:
		return "address"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "none":
		return KindNone, nil
	case "pubkey":
		return KindPubKeyHash, nil
	case "address", "addr":
		return KindAddress, nil
	default:
		return 0, errors.Errorf("unknown leaf kind %q", s)
	}
}

// Membership reports whether proofs of this kind carry a Merkle root.
func (k Kind) Membership() bool {
	return k == KindPubKeyHash || k == KindAddress
}

// Layout returns the public input layout for the kind.
func (k Kind) Layout() pubsignals.Layout {
	if k.Membership() {
		return pubsignals.LayoutWithRoot
	}
	return pubsignals.LayoutWithoutRoot
}

// PubKeyHash returns H(xHi, xLo, yHi, yLo) with 128-bit limbs.
func PubKeyHash(h hasher.Hasher, x, y *big.Int) (*big.Int, error) {
	xHi, xLo := pubsignals.SplitLimbs(x)
	yHi, yLo := pubsignals.SplitLimbs(y)
	return h.Hash(xHi, xLo, yHi, yLo)
}

// Address returns the Ethereum address of the key as an integer.
func Address(pub *ecdsa.PublicKey) *big.Int {
	addr := crypto.PubkeyToAddress(*pub)
	return new(big.Int).SetBytes(addr.Bytes())
}

// Derive returns the leaf for pub according to kind.
func Derive(kind Kind, h hasher.Hasher, pub *ecdsa.PublicKey) (*big.Int, error) {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil, errors.New("public key is empty")
	}
	switch kind {
	case KindPubKeyHash:
		if h == nil {
			return nil, errors.New("hasher is required for public key hash leaves")
		}
		return PubKeyHash(h, pub.X, pub.Y)
	case KindAddress:
		return Address(pub), nil
	default:
		return nil, errors.Errorf("leaf kind %s has no leaves", kind)
	}
}

// FromPoint derives the leaf for a point recovered from a signature.
func FromPoint(kind Kind, h hasher.Hasher, q ec.Point) (*big.Int, error) {
	if q.IsIdentity() {
		return nil, errors.New("public key is the identity")
	}
	return Derive(kind, h, &ecdsa.PublicKey{Curve: crypto.S256(), X: q.X(), Y: q.Y()})
}
