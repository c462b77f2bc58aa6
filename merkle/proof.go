package merkle

import (
	"math/big"

	"github.com/iden3/go-ecdsa-membership/hasher"
	"github.com/pkg/errors"
)

// Proof is an authentication path from a leaf to the root. PathIndices[i]
// is 0 when the running node is the left child at level i.
type Proof struct {
	Root        *big.Int
	Leaf        *big.Int
	Siblings    []*big.Int
	PathIndices []int
}

// Depth returns the number of levels covered by the proof.
func (p *Proof) Depth() int {
	return len(p.Siblings)
}

// Validate checks the shape of the proof against an expected depth.
func (p *Proof) Validate(depth int) error {
	if p == nil {
		return errors.New("merkle proof is missing")
	}
	if len(p.Siblings) != depth || len(p.PathIndices) != depth {
		return errors.Wrapf(ErrDepthMismatch, "got %d siblings and %d path indices, expected %d",
			len(p.Siblings), len(p.PathIndices), depth)
	}
	if p.Root == nil {
		return errors.New("merkle proof has no root")
	}
	for i, bit := range p.PathIndices {
		if bit != 0 && bit != 1 {
			return errors.Errorf("path index %d is %d, expected 0 or 1", i, bit)
		}
		if p.Siblings[i] == nil {
			return errors.Errorf("sibling %d is missing", i)
		}
	}
	return nil
}

// VerifyProof replays the path starting from leaf. proof.Leaf is ignored.
func VerifyProof(h hasher.Hasher, proof *Proof, leaf *big.Int) bool {
	if proof == nil || leaf == nil || proof.Validate(len(proof.Siblings)) != nil {
		return false
	}

	node := leaf
	for i, sib := range proof.Siblings {
		var err error
		if proof.PathIndices[i] == 0 {
			node, err = h.Hash(node, sib)
		} else {
			node, err = h.Hash(sib, node)
		}
		if err != nil {
			return false
		}
	}
	return node.Cmp(proof.Root) == 0
}
