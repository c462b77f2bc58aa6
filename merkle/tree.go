// Package merkle implements the fixed depth, append-only binary Merkle tree
// the membership circuit verifies paths against.
//
// Empty slots hold the zero leaf and every level caches the hash of an empty
// subtree, so a tree of depth d always has 2^d leaf positions even though
// only the inserted ones are stored.
package merkle

import (
	"math/big"

	"github.com/iden3/go-ecdsa-membership/hasher"
	"github.com/pkg/errors"
)

// MaxDepth bounds the depth of a tree.
const MaxDepth = 32

var (
	// ErrTreeFull is returned when inserting into a tree with 2^depth leaves.
	ErrTreeFull = errors.New("tree is full")
	// ErrIndexOutOfRange is returned for indices that do not hold a leaf.
	ErrIndexOutOfRange = errors.New("leaf index out of range")
	// ErrDepthMismatch is returned when a proof does not match the tree depth.
	ErrDepthMismatch = errors.New("proof depth does not match tree depth")
)

// Tree is an incremental Merkle tree. It is not safe for concurrent
// mutation.
type Tree struct {
	depth  int
	hasher hasher.Hasher
	zeroes []*big.Int
	// nodes[0] are the leaves, nodes[depth] holds the root once the first
	// leaf is inserted.
	nodes [][]*big.Int
	index map[string][]int
}

// New builds an empty tree of the given depth.
func New(depth int, h hasher.Hasher) (*Tree, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, errors.Errorf("tree depth must be in [1, %d], got %d", MaxDepth, depth)
	}
	if h == nil {
		return nil, errors.New("hasher is required")
	}

	t := &Tree{
		depth:  depth,
		hasher: h,
		zeroes: make([]*big.Int, depth+1),
		nodes:  make([][]*big.Int, depth+1),
		index:  make(map[string][]int),
	}
	t.zeroes[0] = big.NewInt(0)
	for i := 0; i < depth; i++ {
		z, err := h.Hash(t.zeroes[i], t.zeroes[i])
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute zero hashes")
		}
		t.zeroes[i+1] = z
	}
	return t, nil
}

// Depth returns the number of levels above the leaves.
func (t *Tree) Depth() int {
	return t.depth
}

// Len returns the number of leaf positions in use, deleted ones included.
func (t *Tree) Len() int {
	return len(t.nodes[0])
}

// Root returns the current root. The empty tree has the zero subtree root.
func (t *Tree) Root() *big.Int {
	if len(t.nodes[t.depth]) == 0 {
		return new(big.Int).Set(t.zeroes[t.depth])
	}
	return new(big.Int).Set(t.nodes[t.depth][0])
}

// Leaves returns a copy of the inserted leaves.
func (t *Tree) Leaves() []*big.Int {
	out := make([]*big.Int, len(t.nodes[0]))
	for i, l := range t.nodes[0] {
		out[i] = new(big.Int).Set(l)
	}
	return out
}

// Insert appends a leaf.
func (t *Tree) Insert(leaf *big.Int) error {
	if !hasher.InField(leaf) {
		return errors.Wrap(hasher.ErrInputNotInField, "leaf")
	}
	if uint64(len(t.nodes[0])) >= uint64(1)<<uint(t.depth) {
		return ErrTreeFull
	}
	idx := len(t.nodes[0])
	t.nodes[0] = append(t.nodes[0], nil)
	return t.set(idx, leaf)
}

// Update replaces the leaf at index.
func (t *Tree) Update(index int, leaf *big.Int) error {
	if index < 0 || index >= len(t.nodes[0]) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}
	if !hasher.InField(leaf) {
		return errors.Wrap(hasher.ErrInputNotInField, "leaf")
	}
	return t.set(index, leaf)
}

// Delete replaces the leaf at index with the zero leaf. The position is not
// reused by later inserts.
func (t *Tree) Delete(index int) error {
	return t.Update(index, t.zeroes[0])
}

// IndexOf returns the first index holding leaf, or -1.
func (t *Tree) IndexOf(leaf *big.Int) int {
	if leaf == nil {
		return -1
	}
	positions := t.index[leaf.String()]
	if len(positions) == 0 {
		return -1
	}
	first := positions[0]
	for _, p := range positions[1:] {
		if p < first {
			first = p
		}
	}
	return first
}

// CreateProof returns the authentication path for the leaf at index.
func (t *Tree) CreateProof(index int) (*Proof, error) {
	if index < 0 || index >= len(t.nodes[0]) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d", index)
	}

	p := &Proof{
		Root:        t.Root(),
		Leaf:        new(big.Int).Set(t.nodes[0][index]),
		Siblings:    make([]*big.Int, t.depth),
		PathIndices: make([]int, t.depth),
	}
	pos := index
	for level := 0; level < t.depth; level++ {
		p.PathIndices[level] = pos % 2
		p.Siblings[level] = new(big.Int).Set(t.sibling(level, pos))
		pos /= 2
	}
	return p, nil
}

// VerifyProof checks that proof authenticates leaf under proof.Root for a
// tree of this depth and hasher.
func (t *Tree) VerifyProof(proof *Proof, leaf *big.Int) bool {
	if proof == nil || len(proof.Siblings) != t.depth {
		return false
	}
	return VerifyProof(t.hasher, proof, leaf)
}

func (t *Tree) set(index int, leaf *big.Int) error {
	old := t.nodes[0][index]
	if old != nil {
		t.unindex(old, index)
	}

	node := new(big.Int).Set(leaf)
	t.nodes[0][index] = node
	key := node.String()
	t.index[key] = append(t.index[key], index)

	pos := index
	for level := 0; level < t.depth; level++ {
		var (
			sib = t.sibling(level, pos)
			err error
		)
		if pos%2 == 0 {
			node, err = t.hasher.Hash(node, sib)
		} else {
			node, err = t.hasher.Hash(sib, node)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to hash level %d", level)
		}
		pos /= 2
		if pos < len(t.nodes[level+1]) {
			t.nodes[level+1][pos] = node
		} else {
			t.nodes[level+1] = append(t.nodes[level+1], node)
		}
	}
	return nil
}

func (t *Tree) sibling(level, pos int) *big.Int {
	var sib int
	if pos%2 == 0 {
		sib = pos + 1
	} else {
		sib = pos - 1
	}
	if sib < len(t.nodes[level]) {
		return t.nodes[level][sib]
	}
	return t.zeroes[level]
}

func (t *Tree) unindex(leaf *big.Int, index int) {
	key := leaf.String()
	positions := t.index[key]
	for i, p := range positions {
		if p == index {
			positions = append(positions[:i], positions[i+1:]...)
			break
		}
	}
	if len(positions) == 0 {
		delete(t.index, key)
		return
	}
	t.index[key] = positions
}
