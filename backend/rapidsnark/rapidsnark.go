// Package rapidsnark runs membership circuits compiled with circom: the
// witness is computed by the circuit's WASM program and proved with
// rapidsnark against a Groth16 zkey. Verification takes the snarkjs
// verification key JSON as the circuit artifact.
package rapidsnark

import (
	"context"
	"encoding/json"

	"github.com/iden3/go-ecdsa-membership/backend"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/iden3/go-rapidsnark/prover"
	"github.com/iden3/go-rapidsnark/types"
	"github.com/iden3/go-rapidsnark/verifier"
	"github.com/iden3/go-rapidsnark/witness"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrPublicSignalsMismatch is returned when the signals produced by the
// prover differ from the expected public input.
var ErrPublicSignalsMismatch = errors.New("public signals do not match public input")

// Backend implements backend.WitnessCalculator and backend.ProvingBackend.
type Backend struct {
	logger zerolog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) {
		b.logger = l
	}
}

// New creates a rapidsnark backend.
func New(opts ...Option) *Backend {
	b := &Backend{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var (
	_ backend.WitnessCalculator = (*Backend)(nil)
	_ backend.ProvingBackend    = (*Backend)(nil)
)

// Calculate runs the circom witness program and returns a .wtns file.
func (b *Backend) Calculate(ctx context.Context, program []byte, inputs backend.WitnessInputs) ([]byte, error) {
	if len(program) == 0 {
		return nil, errors.New("witness program is empty")
	}
	if err := inputs.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode witness inputs")
	}
	parsed, err := witness.ParseInputs(inputsJSON)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse witness inputs")
	}

	calc, err := witness.NewCircom2WitnessCalculator(program, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to instantiate witness program")
	}
	wtns, err := calc.CalculateWTNSBin(parsed, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to calculate witness")
	}
	b.logger.Debug().Int("witness_size", len(wtns)).Msg("witness calculated")
	return wtns, nil
}

// Prove proves the witness against the zkey in circuit and checks that the
// circuit exposed exactly the expected public input.
func (b *Backend) Prove(ctx context.Context, circuit, wtns, publicInput []byte) ([]byte, error) {
	expected, err := signals(publicInput)
	if err != nil {
		return nil, err
	}

	zkp, err := prover.Groth16Prover(circuit, wtns)
	if err != nil {
		return nil, errors.Wrap(err, "rapidsnark prover failed")
	}
	if !equalSignals(expected, zkp.PubSignals) {
		return nil, errors.Wrapf(ErrPublicSignalsMismatch, "got %v", zkp.PubSignals)
	}

	proof, err := json.Marshal(zkp.Proof)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode proof")
	}
	b.logger.Debug().Int("proof_size", len(proof)).Msg("proof generated")
	return proof, nil
}

// Verify checks proof against the verification key in circuit.
func (b *Backend) Verify(ctx context.Context, circuit, proof, publicInput []byte) (bool, error) {
	pubSignals, err := signals(publicInput)
	if err != nil {
		return false, err
	}

	var pd types.ProofData
	if err := json.Unmarshal(proof, &pd); err != nil {
		return false, errors.Wrap(err, "failed to decode proof")
	}
	if len(pd.A) == 0 || len(pd.B) == 0 || len(pd.C) == 0 {
		return false, errors.New("proof is incomplete")
	}

	err = verifier.VerifyGroth16(types.ZKProof{Proof: &pd, PubSignals: pubSignals}, circuit)
	if err != nil {
		b.logger.Debug().Err(err).Msg("groth16 verification failed")
		return false, nil
	}
	return true, nil
}

func signals(publicInput []byte) ([]string, error) {
	layout, err := pubsignals.DetectLayout(publicInput)
	if err != nil {
		return nil, err
	}
	c, err := pubsignals.DecodeCircuitPublicInput(publicInput, layout)
	if err != nil {
		return nil, err
	}
	return c.Signals()
}

func equalSignals(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
