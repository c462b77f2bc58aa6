// Package membership proves and verifies, in zero knowledge, that a secp256k1
// ECDSA signature was produced by a key in a public Merkle tree, without
// revealing which one.
package membership

import (
	"context"

	"github.com/iden3/go-ecdsa-membership/backend"
	"github.com/iden3/go-ecdsa-membership/effecdsa"
	"github.com/iden3/go-ecdsa-membership/internal/profiler"
	"github.com/iden3/go-ecdsa-membership/leaves"
	"github.com/iden3/go-ecdsa-membership/merkle"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
)

// ProveArgs are the inputs of a single proving attempt.
type ProveArgs struct {
	// Sig is "0x" ‖ hex(r ‖ s ‖ v).
	Sig string
	// Digest is the 32 byte message hash that was signed.
	Digest []byte
	// MerkleProof opens the signer's leaf. Ignored when the config has no
	// membership.
	MerkleProof *merkle.Proof
}

// Prover produces membership proofs. It is safe for concurrent use.
type Prover struct {
	cfg     Config
	backend *backend.Handle
	opts    options
}

// NewProver creates a prover. The handle must have a witness calculator.
func NewProver(cfg Config, b *backend.Handle, opts ...Option) (*Prover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.New("backend handle is required")
	}
	if !b.CanProve() {
		return nil, errors.New("backend handle cannot generate witnesses")
	}

	p := &Prover{cfg: cfg, backend: b, opts: newOptions(opts)}
	if cfg.UsesDefaultArtifacts() {
		p.opts.logger.Warn().
			Str("circuit", cfg.Circuit).
			Msg("using the public default circuit artifacts, host your own copies in production")
	}
	return p, nil
}

// Init loads the prover module and initializes the backend. Prove calls it
// when needed.
func (p *Prover) Init(ctx context.Context) error {
	return initBackend(ctx, p.backend, p.opts, p.cfg.ProverWasm)
}

// Prove builds the witness for args and proves it.
func (p *Prover) Prove(ctx context.Context, args ProveArgs) (*NIZK, error) {
	prof := profiler.New(p.opts.logger, "prove", p.cfg.EnableProfiler)
	defer prof.Done()

	if len(args.Digest) != pubsignals.ElementSize {
		return nil, errors.Wrapf(ErrMalformedInput, "digest must be %d bytes, got %d", pubsignals.ElementSize, len(args.Digest))
	}
	sig, err := effecdsa.ParseSignature(args.Sig)
	if err != nil {
		return nil, err
	}

	circuitInput, err := effecdsa.DeriveCircuitPublicInput(sig.R, sig.RecoveryID, args.Digest)
	if err != nil {
		return nil, err
	}
	inputs := backend.WitnessInputs{
		S:  sig.S.Big(),
		Tx: circuitInput.Tx,
		Ty: circuitInput.Ty,
		Ux: circuitInput.Ux,
		Uy: circuitInput.Uy,
	}

	if p.cfg.LeafKind.Membership() {
		mp := args.MerkleProof
		if err := mp.Validate(p.cfg.TreeDepth); err != nil {
			return nil, err
		}
		if err := p.checkLeaf(sig, args.Digest, mp); err != nil {
			return nil, wrap(ErrWitnessGen, err)
		}
		circuitInput.Root = mp.Root
		inputs.Root = mp.Root
		inputs.Siblings = mp.Siblings
		inputs.PathIndices = mp.PathIndices
	}
	prof.Step("derive")

	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var program []byte
	if p.cfg.WitnessGenProgram != "" {
		program, err = p.opts.loader.Load(ctx, p.cfg.WitnessGenProgram)
		if err != nil {
			return nil, wrap(ErrCircuitUnavailable, err)
		}
	}
	circuit, err := p.opts.loader.Load(ctx, p.cfg.Circuit)
	if err != nil {
		return nil, wrap(ErrCircuitUnavailable, err)
	}
	prof.Step("load")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wtns, err := p.backend.CalculateWitness(ctx, program, inputs)
	if err != nil {
		return nil, wrap(ErrWitnessGen, err)
	}
	prof.Step("witness")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	circuitBytes, err := circuitInput.Encode()
	if err != nil {
		return nil, err
	}
	// The backend is not interrupted once started.
	proof, err := p.backend.Prove(context.WithoutCancel(ctx), circuit, wtns, circuitBytes)
	if errors.Is(err, backend.ErrUnsatisfied) {
		return nil, wrap(ErrWitnessGen, err)
	}
	if err != nil {
		return nil, wrap(ErrProving, err)
	}
	prof.Step("prove")

	digest := make([]byte, len(args.Digest))
	copy(digest, args.Digest)
	return &NIZK{
		Proof: proof,
		PublicInput: pubsignals.FullPublicInput{
			R:       sig.R.Big(),
			V:       sig.V,
			Digest:  digest,
			Circuit: circuitInput,
		},
	}, nil
}

// checkLeaf fails fast when the signer's key does not open to the proof's
// leaf. Public key hash leaves need the tree hasher, without one the check
// is left to the circuit.
func (p *Prover) checkLeaf(sig effecdsa.Signature, digest []byte, mp *merkle.Proof) error {
	if p.cfg.LeafKind == leaves.KindPubKeyHash && p.opts.hasher == nil {
		return nil
	}
	q, err := effecdsa.RecoverPublicKey(sig, digest)
	if err != nil {
		return err
	}
	leaf, err := leaves.FromPoint(p.cfg.LeafKind, p.opts.hasher, q)
	if err != nil {
		return err
	}
	if mp.Leaf != nil && mp.Leaf.Cmp(leaf) != 0 {
		return errors.New("signer is not the leaf opened by the merkle proof")
	}
	if p.opts.hasher != nil && !merkle.VerifyProof(p.opts.hasher, mp, leaf) {
		return errors.New("merkle proof does not open to the signer's leaf")
	}
	return nil
}

func initBackend(ctx context.Context, b *backend.Handle, o options, module string) error {
	if b.Initialized() {
		return nil
	}
	var wasm []byte
	if module != "" {
		var err error
		wasm, err = o.loader.Load(ctx, module)
		if err != nil {
			return wrap(ErrCircuitUnavailable, errors.Wrap(err, "prover module"))
		}
	}
	return b.Init(ctx, wasm)
}
