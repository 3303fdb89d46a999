package finance

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	dErrors "finshare/pkg/domain-errors"
)

// FingerprintSize is the width of a content fingerprint in bytes. It matches
// the on-ledger data pointer width.
const FingerprintSize = 32

// Fingerprint is the SHA-256 digest of a record set's canonical encoding.
type Fingerprint [FingerprintSize]byte

// Hex returns the 0x-prefixed hex form used on the wire and in logs.
func (f Fingerprint) Hex() string {
	return "0x" + hex.EncodeToString(f[:])
}

// ParseFingerprint accepts a 32-byte value in 0x-prefixed or bare hex form.
func ParseFingerprint(s string) (Fingerprint, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != FingerprintSize {
		return Fingerprint{}, dErrors.New(dErrors.CodeInvalidInput, "expected 32-byte hex value")
	}
	var f Fingerprint
	copy(f[:], raw)
	return f, nil
}

// CanonicalJSON produces the deterministic byte encoding of a record set:
// two-space-indented JSON with fixed struct field order and empty metadata
// omitted. The fingerprint is always computed over these plaintext bytes so
// it stays comparable against the anchored pointer regardless of encryption
// at rest.
func CanonicalJSON(r RecordSet) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode record set")
	}
	return data, nil
}

// DecodeRecordSet parses canonical (or equivalent) JSON bytes.
func DecodeRecordSet(data []byte) (RecordSet, error) {
	var r RecordSet
	if err := json.Unmarshal(data, &r); err != nil {
		return RecordSet{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed record set content")
	}
	return r, nil
}

// FingerprintOf computes the SHA-256 digest of canonical bytes.
func FingerprintOf(canonical []byte) Fingerprint {
	return sha256.Sum256(canonical)
}
