package membership

import (
	"fmt"

	"github.com/iden3/go-ecdsa-membership/ec"
	"github.com/iden3/go-ecdsa-membership/effecdsa"
	"github.com/iden3/go-ecdsa-membership/merkle"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidEncoding is returned for coordinates that are out of range
	// or not on the curve.
	ErrInvalidEncoding = ec.ErrInvalidEncoding
	// ErrNotInvertible is returned for a zero r.
	ErrNotInvertible = ec.ErrNotInvertible
	// ErrMalformedInput is returned for public inputs of the wrong shape.
	ErrMalformedInput = pubsignals.ErrMalformedInput
	// ErrDepthMismatch is returned for Merkle proofs that do not match the
	// configured tree depth.
	ErrDepthMismatch = merkle.ErrDepthMismatch
	// ErrInvalidSignature is returned for signatures that can not be parsed.
	ErrInvalidSignature = effecdsa.ErrInvalidSignature

	ErrWitnessGen         = errors.New("witness generation failed")
	ErrCircuitUnavailable = errors.New("circuit unavailable")
	ErrProving            = errors.New("proving failed")
)

// wrap tags err with a sentinel while keeping err in the chain.
func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
