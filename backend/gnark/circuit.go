package gnark

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/emulated/sw_emulated"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/math/emulated"
)

type (
	fp    = emulated.Secp256k1Fp
	fr    = emulated.Secp256k1Fr
	point = sw_emulated.AffinePoint[fp]
)

// MembershipCircuit proves knowledge of s such that Q = s·T + U is a public
// key whose hash is a leaf of the tree with the given root.
type MembershipCircuit struct {
	Root frontend.Variable `gnark:",public"`
	T    point             `gnark:",public"`
	U    point             `gnark:",public"`

	S           emulated.Element[fr]
	Siblings    []frontend.Variable
	PathIndices []frontend.Variable
}

// NewMembershipCircuit allocates a circuit for a tree of the given depth.
func NewMembershipCircuit(depth int) *MembershipCircuit {
	return &MembershipCircuit{
		Siblings:    make([]frontend.Variable, depth),
		PathIndices: make([]frontend.Variable, depth),
	}
}

// Define implements frontend.Circuit.
func (c *MembershipCircuit) Define(api frontend.API) error {
	curve, err := sw_emulated.New[fp, fr](api, sw_emulated.GetSecp256k1Params())
	if err != nil {
		return err
	}
	field, err := emulated.NewField[fp](api)
	if err != nil {
		return err
	}

	q := curve.AddUnified(curve.ScalarMul(&c.T, &c.S), &c.U)

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(limbs(api, field, &q.X)...)
	h.Write(limbs(api, field, &q.Y)...)
	node := h.Sum()

	for i := range c.Siblings {
		api.AssertIsBoolean(c.PathIndices[i])
		left := api.Select(c.PathIndices[i], c.Siblings[i], node)
		right := api.Select(c.PathIndices[i], node, c.Siblings[i])

		h.Reset()
		h.Write(left, right)
		node = h.Sum()
	}
	api.AssertIsEqual(node, c.Root)
	return nil
}

// limbs returns the canonical value of v as [hi, lo] 128-bit limbs.
func limbs(api frontend.API, field *emulated.Field[fp], v *emulated.Element[fp]) []frontend.Variable {
	bits := field.ToBitsCanonical(v)
	lo := api.FromBinary(bits[:128]...)
	hi := api.FromBinary(bits[128:]...)
	return []frontend.Variable{hi, lo}
}
