package membership

import (
	"github.com/iden3/go-ecdsa-membership/constants"
	"github.com/iden3/go-ecdsa-membership/leaves"
	"github.com/iden3/go-ecdsa-membership/merkle"
	"github.com/pkg/errors"
)

// Config selects the circuit artifacts and the statement being proved.
// Locations are filesystem paths or http(s)/ipfs URLs.
type Config struct {
	// WitnessGenProgram is required by backends that run a witness program.
	// The gnark backend takes the circuit artifact here and checks the
	// witness against it.
	WitnessGenProgram string
	Circuit           string
	// ProverWasm is passed to the backend's one-time initialization.
	ProverWasm     string
	EnableProfiler bool
	LeafKind       leaves.Kind
	// TreeDepth must be 0 when LeafKind is leaves.KindNone.
	TreeDepth int
}

// Validate checks the config for internal consistency.
func (c Config) Validate() error {
	if c.Circuit == "" {
		return errors.New("circuit location is required")
	}
	switch {
	case c.LeafKind == leaves.KindNone:
		if c.TreeDepth != 0 {
			return errors.Wrapf(ErrDepthMismatch, "tree depth %d set without membership", c.TreeDepth)
		}
	case c.LeafKind.Membership():
		if c.TreeDepth < 1 || c.TreeDepth > merkle.MaxDepth {
			return errors.Wrapf(ErrDepthMismatch, "tree depth %d out of range [1, %d]", c.TreeDepth, merkle.MaxDepth)
		}
	default:
		return errors.Errorf("unsupported leaf kind %d", c.LeafKind)
	}
	return nil
}

// UsesDefaultArtifacts reports whether any location points at the public
// test artifacts.
func (c Config) UsesDefaultArtifacts() bool {
	return constants.IsDefaultArtifact(c.Circuit) ||
		constants.IsDefaultArtifact(c.WitnessGenProgram) ||
		constants.IsDefaultArtifact(c.ProverWasm)
}

// DefaultPubKeyProverConfig proves membership of a public key hash.
func DefaultPubKeyProverConfig() Config {
	return Config{
		WitnessGenProgram: constants.PubKeyMembershipWitnessGen,
		Circuit:           constants.PubKeyMembershipCircuit,
		ProverWasm:        constants.ProverModule,
		LeafKind:          leaves.KindPubKeyHash,
		TreeDepth:         constants.DefaultTreeDepth,
	}
}

// DefaultPubKeyVerifierConfig verifies DefaultPubKeyProverConfig proofs.
func DefaultPubKeyVerifierConfig() Config {
	return Config{
		Circuit:    constants.PubKeyMembershipCircuit,
		ProverWasm: constants.ProverModule,
		LeafKind:   leaves.KindPubKeyHash,
		TreeDepth:  constants.DefaultTreeDepth,
	}
}

// DefaultAddressProverConfig proves membership of an Ethereum address.
func DefaultAddressProverConfig() Config {
	return Config{
		WitnessGenProgram: constants.AddressMembershipWitnessGen,
		Circuit:           constants.AddressMembershipCircuit,
		ProverWasm:        constants.ProverModule,
		LeafKind:          leaves.KindAddress,
		TreeDepth:         constants.DefaultTreeDepth,
	}
}

// DefaultAddressVerifierConfig verifies DefaultAddressProverConfig proofs.
func DefaultAddressVerifierConfig() Config {
	return Config{
		Circuit:    constants.AddressMembershipCircuit,
		ProverWasm: constants.ProverModule,
		LeafKind:   leaves.KindAddress,
		TreeDepth:  constants.DefaultTreeDepth,
	}
}

// DefaultEffECDSAConfig proves knowledge of a signature's key without
// membership.
func DefaultEffECDSAConfig() Config {
	return Config{
		WitnessGenProgram: constants.EffECDSAWitnessGen,
		Circuit:           constants.EffECDSACircuit,
		ProverWasm:        constants.ProverModule,
		LeafKind:          leaves.KindNone,
	}
}
