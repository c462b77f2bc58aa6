package membership

import (
	"context"

	"github.com/iden3/go-ecdsa-membership/backend"
	"github.com/iden3/go-ecdsa-membership/effecdsa"
	"github.com/iden3/go-ecdsa-membership/hasher"
	"github.com/iden3/go-ecdsa-membership/internal/profiler"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
)

// Verifier checks membership proofs. It is safe for concurrent use.
type Verifier struct {
	cfg     Config
	backend *backend.Handle
	opts    options
}

// NewVerifier creates a verifier.
func NewVerifier(cfg Config, b *backend.Handle, opts ...Option) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.New("backend handle is required")
	}

	v := &Verifier{cfg: cfg, backend: b, opts: newOptions(opts)}
	if cfg.UsesDefaultArtifacts() {
		v.opts.logger.Warn().
			Str("circuit", cfg.Circuit).
			Msg("using the public default circuit artifacts, host your own copies in production")
	}
	return v, nil
}

// Init loads the prover module and initializes the backend. Verify calls it
// when needed.
func (v *Verifier) Init(ctx context.Context) error {
	return initBackend(ctx, v.backend, v.opts, v.cfg.ProverWasm)
}

// Verify reports whether proof is valid for publicInput. It returns false
// for any failure, including configuration errors, which are logged.
func (v *Verifier) Verify(ctx context.Context, proof, publicInput []byte) bool {
	ok, err := v.VerifyE(ctx, proof, publicInput)
	if err != nil {
		v.opts.logger.Error().Err(err).Msg("verifier is misconfigured")
	}
	return ok
}

// VerifyNIZK verifies a proof produced by Prover.Prove.
func (v *Verifier) VerifyNIZK(ctx context.Context, n *NIZK) bool {
	if n == nil {
		return false
	}
	publicInput, err := n.PublicInputBytes()
	if err != nil {
		return false
	}
	return v.Verify(ctx, n.Proof, publicInput)
}

// VerifyE is Verify with configuration errors returned. Invalid proofs and
// malformed inputs are never errors, they only yield false.
func (v *Verifier) VerifyE(ctx context.Context, proof, publicInput []byte) (bool, error) {
	prof := profiler.New(v.opts.logger, "verify", v.cfg.EnableProfiler)
	defer prof.Done()

	if err := v.Init(ctx); err != nil {
		return false, err
	}
	circuit, err := v.opts.loader.Load(ctx, v.cfg.Circuit)
	if err != nil {
		return false, wrap(ErrCircuitUnavailable, err)
	}
	prof.Step("load")

	in, err := pubsignals.DecodeFullPublicInput(publicInput, v.cfg.LeafKind.Layout())
	if err != nil {
		v.opts.logger.Debug().Err(err).Msg("rejecting malformed public input")
		return false, nil
	}
	if in.Circuit.Root != nil && !hasher.InField(in.Circuit.Root) {
		v.opts.logger.Debug().Msg("rejecting merkle root outside the field")
		return false, nil
	}
	if !v.opts.acceptsRoot(in.Circuit.Root) {
		v.opts.logger.Debug().Msg("rejecting unknown merkle root")
		return false, nil
	}
	if !effecdsa.VerifyPublicInput(in) {
		v.opts.logger.Debug().Msg("public input is not bound to the signature")
		return false, nil
	}
	prof.Step("binding")

	circuitBytes, err := in.Circuit.Encode()
	if err != nil {
		return false, nil
	}
	ok, err := v.backend.Verify(ctx, circuit, proof, circuitBytes)
	if err != nil {
		v.opts.logger.Debug().Err(err).Msg("proof rejected by backend")
		return false, nil
	}
	prof.Step("proof")
	return ok, nil
}
