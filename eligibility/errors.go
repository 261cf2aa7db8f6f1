package eligibility

import "errors"

var (
	// ErrUnrecognizedParameter is returned for an unknown dependency slot.
	ErrUnrecognizedParameter = errors.New("eligibility: unrecognized dependency slot")

	// ErrMalformedAttestation is returned when a live jurisdiction
	// attestation carries a payload too short to decode. This is upstream
	// data corruption, not a policy "false": absence of the attestation is
	// silent ineligibility, presence of a truncated one is an error.
	ErrMalformedAttestation = errors.New("eligibility: attestation payload too short")
)
