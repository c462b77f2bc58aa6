package hasher

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashers(t *testing.T) {
	for _, name := range []string{"poseidon", "mimc"} {
		t.Run(name, func(t *testing.T) {
			h, err := ByName(name)
			require.NoError(t, err)

			a, err := h.Hash(big.NewInt(1), big.NewInt(2))
			require.NoError(t, err)
			b, err := h.Hash(big.NewInt(1), big.NewInt(2))
			require.NoError(t, err)
			c, err := h.Hash(big.NewInt(2), big.NewInt(1))
			require.NoError(t, err)

			assert.Equal(t, a, b)
			assert.NotEqual(t, a, c)
			assert.True(t, InField(a))

			_, err = h.Hash(Modulus())
			assert.True(t, errors.Is(err, ErrInputNotInField))
			_, err = h.Hash(big.NewInt(-1))
			assert.True(t, errors.Is(err, ErrInputNotInField))
			_, err = h.Hash()
			assert.Error(t, err)
		})
	}

	_, err := ByName("sha256")
	assert.Error(t, err)
}

func TestPoseidonKnownAnswer(t *testing.T) {
	// circomlib poseidon([1, 2])
	want, ok := new(big.Int).SetString("7853200120776062878684798364095072458815029376092732009249414926327459813530", 10)
	require.True(t, ok)

	got, err := Poseidon{}.Hash(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
