package constants

import "time"

const (
	// DefaultTreeDepth is the depth the published membership circuits are
	// compiled for.
	DefaultTreeDepth = 20

	DefaultCacheMaxSize int64 = 64
	ArtifactCacheTTL          = 24 * time.Hour
	ParsedCircuitCacheTTL     = time.Hour
)

const (
	artifactsBaseURL  = "https://storage.googleapis.com/personae-proving-keys/"
	membershipBaseURL = artifactsBaseURL + "membership/"
)

// Public artifacts for the membership circuits. They are meant for testing,
// production deployments should host their own copies.
const (
	PubKeyMembershipCircuit     = membershipBaseURL + "pubkey_membership.circuit"
	PubKeyMembershipWitnessGen  = membershipBaseURL + "pubkey_membership.wasm"
	AddressMembershipCircuit    = membershipBaseURL + "addr_membership.circuit"
	AddressMembershipWitnessGen = membershipBaseURL + "addr_membership.wasm"
	EffECDSACircuit             = artifactsBaseURL + "eff_ecdsa/eff_ecdsa.circuit"
	EffECDSAWitnessGen          = artifactsBaseURL + "eff_ecdsa/eff_ecdsa.wasm"
	ProverModule                = artifactsBaseURL + "spartan_wasm_bg.wasm"
)

// IsDefaultArtifact reports whether location points at one of the public
// artifacts above.
func IsDefaultArtifact(location string) bool {
	switch location {
	case PubKeyMembershipCircuit, PubKeyMembershipWitnessGen,
		AddressMembershipCircuit, AddressMembershipWitnessGen,
		EffECDSACircuit, EffECDSAWitnessGen, ProverModule:
		return true
	}
	return false
}
