package effecdsa

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/iden3/go-ecdsa-membership/ec"
	"github.com/iden3/go-ecdsa-membership/pubsignals"
	"github.com/pkg/errors"
)

// ErrInvalidSignature is returned for signatures that can not be parsed.
var ErrInvalidSignature = errors.New("invalid signature")

// SignatureSize is the length of the compact r‖s‖v form.
const SignatureSize = 65

// Signature is a parsed compact ECDSA signature.
type Signature struct {
	R ec.Scalar
	S ec.Scalar
	// V is the raw recovery byte, RecoveryID its parity.
	V          byte
	RecoveryID byte
}

// ParseSignature parses "0x" ‖ hex(r ‖ s ‖ v).
func ParseSignature(sig string) (Signature, error) {
	raw, err := hexutil.Decode(sig)
	if err != nil {
		return Signature{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return SignatureFromBytes(raw)
}

// SignatureFromBytes parses the raw 65 byte form.
func SignatureFromBytes(raw []byte) (Signature, error) {
	if len(raw) != SignatureSize {
		return Signature{}, errors.Wrapf(ErrInvalidSignature, "expected %d bytes, got %d", SignatureSize, len(raw))
	}
	r, err := ec.ScalarFromBigStrict(new(big.Int).SetBytes(raw[:32]))
	if err != nil {
		return Signature{}, errors.Wrapf(ErrInvalidSignature, "r: %v", err)
	}
	s, err := ec.ScalarFromBigStrict(new(big.Int).SetBytes(raw[32:64]))
	if err != nil {
		return Signature{}, errors.Wrapf(ErrInvalidSignature, "s: %v", err)
	}
	rid, err := pubsignals.NormalizeV(raw[64])
	if err != nil {
		return Signature{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return Signature{R: r, S: s, V: raw[64], RecoveryID: rid}, nil
}

// Bytes returns r ‖ s ‖ v.
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureSize)
	r, sv := s.R.Bytes(), s.S.Bytes()
	out = append(out, r[:]...)
	out = append(out, sv[:]...)
	return append(out, s.V)
}

// Compact returns the hex form accepted by ParseSignature.
func (s Signature) Compact() string {
	return hexutil.Encode(s.Bytes())
}
