package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finshare/internal/finance"
)

func TestConsentID_DeterministicAndDirectional(t *testing.T) {
	a := finance.Address("0x1111111111111111111111111111111111111111")
	b := finance.Address("0x2222222222222222222222222222222222222222")

	first := ConsentID(a, b)
	assert.Equal(t, first, ConsentID(a, b))
	assert.Len(t, first, 66)
	assert.Equal(t, "0x", first[:2])

	// a requesting b's data is a different consent than the reverse.
	assert.NotEqual(t, first, ConsentID(b, a))
}

func TestChallengeHash_Deterministic(t *testing.T) {
	h1 := ChallengeHash("AcmeBank-Verify-1700000000")
	h2 := ChallengeHash("AcmeBank-Verify-1700000000")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 32)
	assert.NotEqual(t, h1, ChallengeHash("AcmeBank-Verify-1700000001"))
}
