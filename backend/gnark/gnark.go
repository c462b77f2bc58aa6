// Package gnark proves membership in process with a gnark Groth16 circuit
// over BN254. secp256k1 arithmetic is emulated, leaves are
// MiMC(xHi, xLo, yHi, yLo) and tree nodes are MiMC(left, right), so trees
// must be built with hasher.MiMC.
package gnark

import (
	"bytes"
	"context"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iden3/go-ecdsa-membership/backend"
	"github.com/iden3/go-ecdsa-membership/cache"
	"github.com/iden3/go-ecdsa-membership/constants"
	"github.com/iden3/go-ecdsa-membership/hasher"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrMembershipRequired is returned for inputs without a Merkle root.
	ErrMembershipRequired = errors.New("gnark backend only supports membership proofs")
	// ErrPublicWitnessMismatch is returned when a witness does not commit to
	// the expected public input.
	ErrPublicWitnessMismatch = errors.New("witness does not match public input")
)

// Backend implements backend.WitnessCalculator and backend.ProvingBackend.
type Backend struct {
	circuits cache.ICache[*CompiledCircuit]
	logger   zerolog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) {
		b.logger = l
	}
}

// WithCircuitCache sets the cache parsed circuit artifacts are kept in.
func WithCircuitCache(c cache.ICache[*CompiledCircuit]) Option {
	return func(b *Backend) {
		b.circuits = c
	}
}

// New creates a gnark backend.
func New(opts ...Option) *Backend {
	b := &Backend{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	if b.circuits == nil {
		b.circuits = cache.NewInMemoryCache[*CompiledCircuit](constants.DefaultCacheMaxSize, constants.ParsedCircuitCacheTTL)
	}
	return b
}

var (
	_ backend.WitnessCalculator = (*Backend)(nil)
	_ backend.ProvingBackend    = (*Backend)(nil)
)

// Calculate builds the full gnark witness from the inputs. When program is
// set it is the circuit artifact and the witness is checked against its
// constraints, so an unsatisfiable witness fails here with
// backend.ErrUnsatisfied.
func (b *Backend) Calculate(ctx context.Context, program []byte, inputs backend.WitnessInputs) ([]byte, error) {
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	if !inputs.Membership() {
		return nil, ErrMembershipRequired
	}
	if !hasher.InField(inputs.Root) {
		return nil, errors.Wrap(pubsignals.ErrMalformedInput, "root is not a field element")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assignment := NewMembershipCircuit(len(inputs.Siblings))
	setPublic(assignment, inputs.PublicInput())
	assignment.S = emulated.ValueOf[fr](inputs.S)
	for i := range inputs.Siblings {
		assignment.Siblings[i] = inputs.Siblings[i]
		assignment.PathIndices[i] = inputs.PathIndices[i]
	}

	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, errors.Wrap(err, "failed to build witness")
	}
	if len(program) > 0 {
		cc, err := b.load(program)
		if err != nil {
			return nil, err
		}
		if err := checkSolved(cc, w); err != nil {
			return nil, err
		}
	}
	return w.MarshalBinary()
}

// Prove proves the witness with the proving key in the circuit artifact.
func (b *Backend) Prove(ctx context.Context, circuit, wtns, publicInput []byte) ([]byte, error) {
	cc, err := b.load(circuit)
	if err != nil {
		return nil, err
	}
	if cc.pk == nil {
		return nil, errors.New("circuit artifact has no proving key")
	}

	full, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}
	if err := full.UnmarshalBinary(wtns); err != nil {
		return nil, errors.Wrap(err, "failed to decode witness")
	}
	if err := checkPublicWitness(full, cc.depth, publicInput); err != nil {
		return nil, err
	}
	if err := checkSolved(cc, full); err != nil {
		return nil, err
	}

	proof, err := groth16.Prove(cc.ccs, cc.pk, full)
	if err != nil {
		return nil, errors.Wrap(err, "groth16 prover failed")
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode proof")
	}
	b.logger.Debug().Int("proof_size", buf.Len()).Msg("proof generated")
	return buf.Bytes(), nil
}

// Verify checks proof with the verifying key in the circuit artifact.
func (b *Backend) Verify(ctx context.Context, circuit, proof, publicInput []byte) (bool, error) {
	cc, err := b.load(circuit)
	if err != nil {
		return false, err
	}
	pub, err := publicWitness(cc.depth, publicInput)
	if err != nil {
		return false, err
	}

	p := groth16.NewProof(ecc.BN254)
	n, err := p.ReadFrom(bytes.NewReader(proof))
	if err != nil {
		return false, errors.Wrap(err, "failed to decode proof")
	}
	if n != int64(len(proof)) {
		return false, errors.Errorf("proof has %d trailing bytes", int64(len(proof))-n)
	}

	if err := groth16.Verify(p, cc.vk, pub); err != nil {
		b.logger.Debug().Err(err).Msg("groth16 verification failed")
		return false, nil
	}
	return true, nil
}

func (b *Backend) load(circuit []byte) (*CompiledCircuit, error) {
	key := crypto.Keccak256Hash(circuit).Hex()
	return b.circuits.Fetch(key, func() (*CompiledCircuit, error) {
		return parseArtifact(circuit)
	})
}

// checkSolved runs the solver alone so a witness that breaks a constraint is
// told apart from a failure of the prover itself.
func checkSolved(cc *CompiledCircuit, w witness.Witness) error {
	if err := cc.ccs.IsSolved(w); err != nil {
		return errors.Wrap(backend.ErrUnsatisfied, err.Error())
	}
	return nil
}

func setPublic(c *MembershipCircuit, in pubsignals.CircuitPublicInput) {
	c.Root = in.Root
	c.T = point{X: emulated.ValueOf[fp](in.Tx), Y: emulated.ValueOf[fp](in.Ty)}
	c.U = point{X: emulated.ValueOf[fp](in.Ux), Y: emulated.ValueOf[fp](in.Uy)}
}

func publicWitness(depth int, publicInput []byte) (witness.Witness, error) {
	in, err := pubsignals.DecodeCircuitPublicInput(publicInput, pubsignals.LayoutWithRoot)
	if err != nil {
		return nil, err
	}
	// An unreduced root would alias its residue in the witness.
	if !hasher.InField(in.Root) {
		return nil, errors.Wrap(pubsignals.ErrMalformedInput, "root is not a field element")
	}

	assignment := NewMembershipCircuit(depth)
	setPublic(assignment, in)
	assignment.S = emulated.ValueOf[fr](0)
	for i := 0; i < depth; i++ {
		assignment.Siblings[i] = 0
		assignment.PathIndices[i] = 0
	}
	return frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
}

func checkPublicWitness(full witness.Witness, depth int, publicInput []byte) error {
	expected, err := publicWitness(depth, publicInput)
	if err != nil {
		return err
	}
	got, err := full.Public()
	if err != nil {
		return err
	}
	a, err := expected.MarshalBinary()
	if err != nil {
		return err
	}
	c, err := got.MarshalBinary()
	if err != nil {
		return err
	}
	if !bytes.Equal(a, c) {
		return ErrPublicWitnessMismatch
	}
	return nil
}
