// Package identity handles off-ledger identity verification: one-time codes
// delivered out of band and hashed verification proofs. Raw personal
// identifiers are never stored, only their digests.
package identity

import "time"

// ProofSlot names one verification proof an owner can hold.
type ProofSlot string

const (
	ProofCode       ProofSlot = "code"
	ProofNationalID ProofSlot = "nationalId"
)

// PendingCode is an issued one-time verification code awaiting confirmation.
type PendingCode struct {
	Code      string
	ExpiresAt time.Time
}

// Proofs holds the hashed evidence recorded for an owner. Empty string means
// the slot has not been proven.
type Proofs struct {
	Code       string `json:"code,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
}

// Complete reports whether both proof slots are filled.
func (p Proofs) Complete() bool {
	return p.Code != "" && p.NationalID != ""
}
