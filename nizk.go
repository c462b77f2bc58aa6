package membership

import "github.com/iden3/go-ecdsa-membership/pubsignals"

// NIZK is a proof together with the public input it was produced for.
type NIZK struct {
	Proof       []byte
	PublicInput pubsignals.FullPublicInput
}

// PublicInputBytes returns the serialized public input.
func (n *NIZK) PublicInputBytes() ([]byte, error) {
	return n.PublicInput.Encode()
}
