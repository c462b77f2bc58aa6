package gnark

import (
	"context"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/test"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iden3/go-ecdsa-membership/backend"
	"github.com/iden3/go-ecdsa-membership/effecdsa"
	"github.com/iden3/go-ecdsa-membership/hasher"
	"github.com/iden3/go-ecdsa-membership/leaves"
	"github.com/iden3/go-ecdsa-membership/merkle"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDepth = 2

func membershipInputs(t *testing.T, msg string) backend.WitnessInputs {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	digest := effecdsa.HashPersonalMessage([]byte(msg))
	raw, err := crypto.Sign(digest, key)
	require.NoError(t, err)
	sig, err := effecdsa.SignatureFromBytes(raw)
	require.NoError(t, err)

	pub, err := effecdsa.DeriveCircuitPublicInput(sig.R, sig.RecoveryID, digest)
	require.NoError(t, err)

	tree, err := merkle.New(testDepth, hasher.MiMC{})
	require.NoError(t, err)
	require.NoError(t, tree.Insert(big.NewInt(7)))
	leaf, err := leaves.Derive(leaves.KindPubKeyHash, hasher.MiMC{}, &key.PublicKey)
	require.NoError(t, err)
	require.NoError(t, tree.Insert(leaf))
	require.NoError(t, tree.Insert(big.NewInt(9)))

	proof, err := tree.CreateProof(tree.IndexOf(leaf))
	require.NoError(t, err)

	return backend.WitnessInputs{
		S:           sig.S.Big(),
		Tx:          pub.Tx,
		Ty:          pub.Ty,
		Ux:          pub.Ux,
		Uy:          pub.Uy,
		Root:        proof.Root,
		Siblings:    proof.Siblings,
		PathIndices: proof.PathIndices,
	}
}

func assignment(in backend.WitnessInputs) *MembershipCircuit {
	a := NewMembershipCircuit(len(in.Siblings))
	setPublic(a, in.PublicInput())
	a.S = emulated.ValueOf[fr](in.S)
	for i := range in.Siblings {
		a.Siblings[i] = in.Siblings[i]
		a.PathIndices[i] = in.PathIndices[i]
	}
	return a
}

func TestMembershipCircuit(t *testing.T) {
	if testing.Short() {
		t.Skip("emulated curve arithmetic is slow")
	}
	in := membershipInputs(t, "hello world")

	err := test.IsSolved(NewMembershipCircuit(testDepth), assignment(in), ecc.BN254.ScalarField())
	assert.NoError(t, err)

	wrongRoot := in
	wrongRoot.Root = new(big.Int).Add(in.Root, big.NewInt(1))
	err = test.IsSolved(NewMembershipCircuit(testDepth), assignment(wrongRoot), ecc.BN254.ScalarField())
	assert.Error(t, err)

	wrongS := in
	wrongS.S = new(big.Int).Add(in.S, big.NewInt(1))
	err = test.IsSolved(NewMembershipCircuit(testDepth), assignment(wrongS), ecc.BN254.ScalarField())
	assert.Error(t, err)
}

func TestProveAndVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	ctx := context.Background()
	in := membershipInputs(t, "hello world")

	circuit, err := Setup(testDepth)
	require.NoError(t, err)
	vkOnly, err := VerifierArtifact(circuit)
	require.NoError(t, err)

	b := New()
	wtns, err := b.Calculate(ctx, circuit, in)
	require.NoError(t, err)

	publicInput, err := in.PublicInput().Encode()
	require.NoError(t, err)

	proof, err := b.Prove(ctx, circuit, wtns, publicInput)
	require.NoError(t, err)

	ok, err := b.Verify(ctx, vkOnly, proof, publicInput)
	require.NoError(t, err)
	assert.True(t, ok)

	tampered := append([]byte(nil), publicInput...)
	tampered[len(tampered)-1] ^= 1
	ok, err = b.Verify(ctx, vkOnly, proof, tampered)
	assert.False(t, ok && err == nil)

	_, err = b.Prove(ctx, vkOnly, wtns, publicInput)
	assert.Error(t, err)

	_, err = b.Prove(ctx, circuit, wtns, tampered)
	assert.True(t, errors.Is(err, ErrPublicWitnessMismatch))

	t.Run("signer outside the tree", func(t *testing.T) {
		other := membershipInputs(t, "hello world")
		outsider := in
		outsider.S = other.S
		outsider.Tx, outsider.Ty = other.Tx, other.Ty
		outsider.Ux, outsider.Uy = other.Ux, other.Uy

		_, err := b.Calculate(ctx, circuit, outsider)
		assert.True(t, errors.Is(err, backend.ErrUnsatisfied))

		wtns, err := b.Calculate(ctx, nil, outsider)
		require.NoError(t, err)
		publicInput, err := outsider.PublicInput().Encode()
		require.NoError(t, err)
		_, err = b.Prove(ctx, circuit, wtns, publicInput)
		assert.True(t, errors.Is(err, backend.ErrUnsatisfied))
	})
}

func TestPublicWitnessRejectsUnreducedRoot(t *testing.T) {
	in := pubsignals.CircuitPublicInput{
		Root: big.NewInt(12345),
		Tx:   big.NewInt(1),
		Ty:   big.NewInt(2),
		Ux:   big.NewInt(3),
		Uy:   big.NewInt(4),
	}
	reduced, err := in.Encode()
	require.NoError(t, err)
	_, err = publicWitness(testDepth, reduced)
	require.NoError(t, err)

	in.Root = new(big.Int).Add(in.Root, hasher.Modulus())
	unreduced, err := in.Encode()
	require.NoError(t, err)
	_, err = publicWitness(testDepth, unreduced)
	assert.True(t, errors.Is(err, pubsignals.ErrMalformedInput))
}

func TestCalculateRejectsUnreducedRoot(t *testing.T) {
	in := backend.WitnessInputs{
		S:    big.NewInt(1),
		Tx:   big.NewInt(1),
		Ty:   big.NewInt(1),
		Ux:   big.NewInt(1),
		Uy:   big.NewInt(1),
		Root: new(big.Int).Add(big.NewInt(7), hasher.Modulus()),
	}
	_, err := New().Calculate(context.Background(), nil, in)
	assert.True(t, errors.Is(err, pubsignals.ErrMalformedInput))
}

func TestCalculateRequiresMembership(t *testing.T) {
	in := backend.WitnessInputs{
		S:  big.NewInt(1),
		Tx: big.NewInt(1),
		Ty: big.NewInt(1),
		Ux: big.NewInt(1),
		Uy: big.NewInt(1),
	}
	_, err := New().Calculate(context.Background(), nil, in)
	assert.True(t, errors.Is(err, ErrMembershipRequired))
}

func TestParseArtifact(t *testing.T) {
	_, err := parseArtifact([]byte("not cbor"))
	assert.True(t, errors.Is(err, ErrInvalidArtifact))

	_, err = parseArtifact([]byte{0xa0})
	assert.True(t, errors.Is(err, ErrInvalidArtifact))

	_, err = New().Verify(context.Background(), []byte{0xa0}, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidArtifact))
}

func TestSetupRejectsDepth(t *testing.T) {
	_, err := Setup(0)
	assert.True(t, errors.Is(err, merkle.ErrDepthMismatch))
	_, err = Setup(merkle.MaxDepth + 1)
	assert.True(t, errors.Is(err, merkle.ErrDepthMismatch))
}
