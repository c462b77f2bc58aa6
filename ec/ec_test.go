package ec

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok)
	return v
}

func TestScalarReduction(t *testing.T) {
	n := Order()
	s := ScalarFromBig(new(big.Int).Add(n, big.NewInt(5)))
	assert.Equal(t, big.NewInt(5), s.Big())

	s = ScalarFromBig(big.NewInt(-1))
	assert.Equal(t, new(big.Int).Sub(n, big.NewInt(1)), s.Big())

	_, err := ScalarFromBigStrict(n)
	require.Error(t, err)
	_, err = ScalarFromBigStrict(big.NewInt(0))
	require.Error(t, err)
}

func TestScalarInverse(t *testing.T) {
	_, err := Scalar{}.Inverse()
	require.True(t, errors.Is(err, ErrNotInvertible))

	k := ScalarFromBig(big.NewInt(12345))
	inv, err := k.Inverse()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), k.Mul(inv).Big())

	assert.True(t, k.Negate().Mul(inv).Negate().Equal(ScalarFromBig(big.NewInt(1))))
}

func TestFieldElementRejectsOutOfRange(t *testing.T) {
	_, err := FieldElementFromBig(FieldPrime())
	require.True(t, errors.Is(err, ErrInvalidEncoding))

	_, err = FieldElementFromBig(big.NewInt(-3))
	require.True(t, errors.Is(err, ErrInvalidEncoding))
}

func TestDecompressPoint(t *testing.T) {
	g := Generator()
	x, err := FieldElementFromBig(g.X())
	require.NoError(t, err)

	yOdd := g.Y().Bit(0) == 1
	p, err := DecompressPoint(x, yOdd)
	require.NoError(t, err)
	assert.True(t, p.Equal(g))

	p, err = DecompressPoint(x, !yOdd)
	require.NoError(t, err)
	assert.True(t, p.Equal(Negate(g)))

	// x = 5 gives x³+7 = 132 which is a non-residue mod p.
	five, err := FieldElementFromBig(big.NewInt(5))
	require.NoError(t, err)
	_, err = DecompressPoint(five, false)
	require.True(t, errors.Is(err, ErrInvalidEncoding))
}

func TestPointArithmetic(t *testing.T) {
	g := Generator()
	two := ScalarFromBig(big.NewInt(2))
	three := ScalarFromBig(big.NewInt(3))

	assert.True(t, ScalarBaseMul(two).Equal(Double(g)))
	assert.True(t, ScalarMul(three, g).Equal(Add(Double(g), g)))
	assert.True(t, Add(g, Negate(g)).IsIdentity())
	assert.True(t, Add(Identity(), g).Equal(g))
	assert.True(t, ScalarMul(Scalar{}, g).IsIdentity())

	nMinusOne := ScalarFromBig(new(big.Int).Sub(Order(), big.NewInt(1)))
	assert.True(t, ScalarBaseMul(nMinusOne).Equal(Negate(g)))

	assert.Equal(t, hexInt(t, "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"), g.X())
	assert.Len(t, g.Bytes(), 64)
}

func TestPointFromBig(t *testing.T) {
	g := Generator()
	p, err := PointFromBig(g.X(), g.Y())
	require.NoError(t, err)
	assert.True(t, p.Equal(g))

	_, err = PointFromBig(g.X(), new(big.Int).Add(g.Y(), big.NewInt(1)))
	require.True(t, errors.Is(err, ErrInvalidEncoding))
}
