package identity

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
)

var owner = finance.Address("0x1111111111111111111111111111111111111111")

func newTestService(store Store) *Service {
	tokens := NewTokenService("test-signing-key", "finshare-test")
	return NewService(store, tokens, slog.Default(), 10*time.Minute)
}

func TestIssueAndVerifyCode(t *testing.T) {
	svc := newTestService(NewInMemoryStore())
	ctx := context.Background()

	code, err := svc.IssueCode(ctx, owner)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)

	ok, err := svc.VerifyCode(ctx, owner, code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyCode_SingleUse(t *testing.T) {
	svc := newTestService(NewInMemoryStore())
	ctx := context.Background()

	code, err := svc.IssueCode(ctx, owner)
	require.NoError(t, err)

	ok, err := svc.VerifyCode(ctx, owner, code)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.VerifyCode(ctx, owner, code)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code must not verify again")
}

func TestVerifyCode_WrongCode(t *testing.T) {
	svc := newTestService(NewInMemoryStore())
	ctx := context.Background()

	_, err := svc.IssueCode(ctx, owner)
	require.NoError(t, err)

	ok, err := svc.VerifyCode(ctx, owner, "000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyCode_Expired(t *testing.T) {
	now := time.Now()
	clock := now
	store := NewInMemoryStore().WithClock(func() time.Time { return clock })
	svc := newTestService(store)
	ctx := context.Background()

	code, err := svc.IssueCode(ctx, owner)
	require.NoError(t, err)

	clock = now.Add(11 * time.Minute)

	ok, err := svc.VerifyCode(ctx, owner, code)
	require.NoError(t, err)
	assert.False(t, ok, "code past its TTL must not verify")
}

func TestIssueCode_SupersedesPrevious(t *testing.T) {
	svc := newTestService(NewInMemoryStore())
	ctx := context.Background()

	first, err := svc.IssueCode(ctx, owner)
	require.NoError(t, err)
	second, err := svc.IssueCode(ctx, owner)
	require.NoError(t, err)

	if first != second {
		ok, err := svc.VerifyCode(ctx, owner, first)
		require.NoError(t, err)
		assert.False(t, ok, "superseded code must not verify")
	}

	ok, err := svc.VerifyCode(ctx, owner, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAttestation_RequiresBothProofs(t *testing.T) {
	svc := newTestService(NewInMemoryStore())
	ctx := context.Background()

	_, err := svc.Attestation(ctx, owner)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	code, err := svc.IssueCode(ctx, owner)
	require.NoError(t, err)
	ok, err := svc.VerifyCode(ctx, owner, code)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Attestation(ctx, owner)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized), "code alone is not full verification")

	require.NoError(t, svc.RecordNationalID(ctx, owner, "AB123456C"))

	verified, err := svc.IsFullyVerified(ctx, owner)
	require.NoError(t, err)
	assert.True(t, verified)

	token, err := svc.Attestation(ctx, owner)
	require.NoError(t, err)

	claims, err := NewTokenService("test-signing-key", "finshare-test").Validate(token)
	require.NoError(t, err)
	assert.Equal(t, string(owner), claims.Address)
	assert.ElementsMatch(t, []string{"code", "nationalId"}, claims.Proofs)
}

func TestRecordNationalID_StoresDigestNotRaw(t *testing.T) {
	store := NewInMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, svc.RecordNationalID(ctx, owner, "AB123456C"))

	proofs, err := store.GetProofs(ctx, string(owner))
	require.NoError(t, err)
	assert.NotEmpty(t, proofs.NationalID)
	assert.NotContains(t, proofs.NationalID, "AB123456C")
	assert.Len(t, proofs.NationalID, 64)
}

func TestRecordNationalID_RejectsEmpty(t *testing.T) {
	svc := newTestService(NewInMemoryStore())
	err := svc.RecordNationalID(context.Background(), owner, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	token, err := NewTokenService("key-one", "finshare-test").Generate(string(owner), []string{"code"}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenService("key-two", "finshare-test").Validate(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
