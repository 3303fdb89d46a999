package ledger

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"finshare/internal/finance"
)

const signedMessagePrefix = "\x19Ethereum Signed Message:\n32"

func keccak256(chunks ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}

func addressBytes(a finance.Address) []byte {
	raw, err := hex.DecodeString(strings.TrimPrefix(string(a), "0x"))
	if err != nil {
		return make([]byte, 20)
	}
	return raw
}

// ConsentID derives the deterministic consent identifier for a
// requester/owner pair, matching the tightly packed keccak hash the consent
// contract computes.
func ConsentID(requester, owner finance.Address) string {
	return "0x" + hex.EncodeToString(keccak256(addressBytes(requester), addressBytes(owner)))
}

// ChallengeHash hashes an ownership challenge message the way wallets do:
// keccak over the text, then keccak over the signed-message envelope.
func ChallengeHash(message string) []byte {
	inner := keccak256([]byte(message))
	return keccak256([]byte(signedMessagePrefix), inner)
}
