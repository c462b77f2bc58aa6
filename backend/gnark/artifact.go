package gnark

import (
	"bytes"
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/fxamacker/cbor/v2"
	"github.com/iden3/go-ecdsa-membership/merkle"
	"github.com/pkg/errors"
)

// ErrInvalidArtifact is returned for circuit artifacts that cannot be decoded.
var ErrInvalidArtifact = errors.New("invalid circuit artifact")

// artifact is the CBOR bundle stored as the circuit location. Verify-only
// bundles omit the proving key.
type artifact struct {
	Depth int    `cbor:"1,keyasint"`
	CS    []byte `cbor:"2,keyasint"`
	PK    []byte `cbor:"3,keyasint,omitempty"`
	VK    []byte `cbor:"4,keyasint"`
}

// CompiledCircuit is a decoded circuit artifact.
type CompiledCircuit struct {
	depth int
	ccs   constraint.ConstraintSystem
	pk    groth16.ProvingKey
	vk    groth16.VerifyingKey
}

// Depth returns the tree depth the circuit was compiled for.
func (c *CompiledCircuit) Depth() int {
	return c.depth
}

// Setup compiles the membership circuit for the given depth, runs a Groth16
// setup and returns the encoded artifact. The setup is not a ceremony and is
// only meant for testing and local deployments.
func Setup(depth int) ([]byte, error) {
	if depth < 1 || depth > merkle.MaxDepth {
		return nil, errors.Wrapf(merkle.ErrDepthMismatch, "depth %d", depth)
	}

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, NewMembershipCircuit(depth))
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile circuit")
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, errors.Wrap(err, "groth16 setup failed")
	}

	a := artifact{Depth: depth}
	if a.CS, err = encode(ccs); err != nil {
		return nil, err
	}
	if a.PK, err = encode(pk); err != nil {
		return nil, err
	}
	if a.VK, err = encode(vk); err != nil {
		return nil, err
	}
	return cbor.Marshal(a)
}

// VerifierArtifact strips the proving key from an artifact produced by Setup.
func VerifierArtifact(b []byte) ([]byte, error) {
	var a artifact
	if err := cbor.Unmarshal(b, &a); err != nil {
		return nil, errors.Wrap(ErrInvalidArtifact, err.Error())
	}
	a.PK = nil
	return cbor.Marshal(a)
}

func parseArtifact(b []byte) (*CompiledCircuit, error) {
	var a artifact
	if err := cbor.Unmarshal(b, &a); err != nil {
		return nil, errors.Wrap(ErrInvalidArtifact, err.Error())
	}
	if a.Depth < 1 || a.Depth > merkle.MaxDepth || len(a.CS) == 0 || len(a.VK) == 0 {
		return nil, errors.Wrap(ErrInvalidArtifact, "missing fields")
	}

	c := &CompiledCircuit{
		depth: a.Depth,
		ccs:   groth16.NewCS(ecc.BN254),
		vk:    groth16.NewVerifyingKey(ecc.BN254),
	}
	if err := decode(c.ccs, a.CS); err != nil {
		return nil, errors.Wrap(err, "constraint system")
	}
	if err := decode(c.vk, a.VK); err != nil {
		return nil, errors.Wrap(err, "verifying key")
	}
	if len(a.PK) > 0 {
		c.pk = groth16.NewProvingKey(ecc.BN254)
		if err := decode(c.pk, a.PK); err != nil {
			return nil, errors.Wrap(err, "proving key")
		}
	}
	return c, nil
}

func encode(w io.WriterTo) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode artifact")
	}
	return buf.Bytes(), nil
}

func decode(r io.ReaderFrom, b []byte) error {
	if _, err := r.ReadFrom(bytes.NewReader(b)); err != nil {
		return errors.Wrap(ErrInvalidArtifact, err.Error())
	}
	return nil
}
