// Package records custodies per-owner financial record files and their
// content fingerprints. The fingerprint is always computed over plaintext
// canonical bytes so it can be compared against an externally anchored
// pointer regardless of the encryption-at-rest setting.
package records

import (
	"context"

	"finshare/internal/finance"
)

// Store persists and retrieves record sets keyed by owner address.
//
// Error contract: Load and FingerprintOf return sentinel.ErrNotFound (wrapped)
// when no record exists; malformed stored content surfaces as a domain error
// with CodeInvalidInput; everything else is an infrastructure error.
type Store interface {
	// Save canonicalizes, fingerprints, and writes the record, returning the
	// fingerprint of the plaintext canonical bytes.
	Save(ctx context.Context, record finance.RecordSet) (finance.Fingerprint, error)
	// Load reads, decrypts if configured, and decodes the owner's record.
	Load(ctx context.Context, owner finance.Address) (finance.RecordSet, error)
	// FingerprintOf recomputes the digest of the currently stored bytes
	// without requiring the caller to hold a full record.
	FingerprintOf(ctx context.Context, owner finance.Address) (finance.Fingerprint, error)
	// Delete removes the owner's record file, reporting whether it existed.
	Delete(ctx context.Context, owner finance.Address) (bool, error)

	// AddAsset upserts by ID into the owner's record (creating an empty
	// record when none exists) and re-saves.
	AddAsset(ctx context.Context, owner finance.Address, asset finance.Asset) (finance.Fingerprint, error)
	// RemoveAsset deletes by ID and re-saves. A missing ID is a no-op with
	// changed=false, not an error.
	RemoveAsset(ctx context.Context, owner finance.Address, assetID string) (finance.Fingerprint, bool, error)
	// AddLiability upserts by ID into the owner's record and re-saves.
	AddLiability(ctx context.Context, owner finance.Address, liability finance.Liability) (finance.Fingerprint, error)
	// RemoveLiability deletes by ID and re-saves.
	RemoveLiability(ctx context.Context, owner finance.Address, liabilityID string) (finance.Fingerprint, bool, error)
}
