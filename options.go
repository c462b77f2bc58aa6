package membership

import (
	"math/big"

	"github.com/iden3/go-ecdsa-membership/hasher"
	"github.com/iden3/go-ecdsa-membership/loaders"
	"github.com/rs/zerolog"
)

type options struct {
	loader loaders.ArtifactLoader
	logger zerolog.Logger
	hasher hasher.Hasher
	roots  []*big.Int
}

// Option configures a Prover or a Verifier.
type Option func(*options)

// WithLoader sets the loader circuit artifacts are read with. The default
// is a loaders.CachedLoader over loaders.DefaultLoader.
func WithLoader(l loaders.ArtifactLoader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHasher sets the hasher the membership tree was built with. Provers
// use it to check that the signer's leaf is the one the Merkle proof opens.
func WithHasher(h hasher.Hasher) Option {
	return func(o *options) {
		o.hasher = h
	}
}

// WithAcceptedRoots restricts a Verifier to proofs against one of roots.
func WithAcceptedRoots(roots ...*big.Int) Option {
	return func(o *options) {
		o.roots = append(o.roots, roots...)
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loader == nil {
		o.loader = loaders.NewCachedLoader()
	}
	return o
}

func (o options) acceptsRoot(root *big.Int) bool {
	if len(o.roots) == 0 {
		return true
	}
	if root == nil {
		return false
	}
	for _, r := range o.roots {
		if r != nil && r.Cmp(root) == 0 {
			return true
		}
	}
	return false
}
