package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
)

var (
	ownerAddr     = finance.Address("0x1111111111111111111111111111111111111111")
	requesterAddr = finance.Address("0x2222222222222222222222222222222222222222")
)

func TestStub_RegisterTwiceConflicts(t *testing.T) {
	s := NewStub()
	ctx := context.Background()

	receipt, err := s.Register(ctx, Signer{From: ownerAddr})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxHash)
	assert.NotZero(t, receipt.BlockNumber)

	_, err = s.Register(ctx, Signer{From: ownerAddr})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestStub_ConsentLifecycle(t *testing.T) {
	now := time.Now()
	s := NewStub().WithClock(func() time.Time { return now })
	ctx := context.Background()
	owner := Signer{From: ownerAddr}

	granted, err := s.IsConsentGranted(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.False(t, granted, "no consent record yet")

	_, err = s.CreateConsent(ctx, owner, requesterAddr, now, now.Add(24*time.Hour))
	require.NoError(t, err)

	granted, err = s.IsConsentGranted(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.False(t, granted, "requested is not granted")

	_, err = s.ChangeConsentStatus(ctx, owner, requesterAddr, ConsentGranted)
	require.NoError(t, err)

	granted, err = s.IsConsentGranted(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.True(t, granted)

	_, err = s.ChangeConsentStatus(ctx, owner, requesterAddr, ConsentRevoked)
	require.NoError(t, err)

	granted, err = s.IsConsentGranted(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestStub_ConsentExpiresWithWindow(t *testing.T) {
	now := time.Now()
	clock := now
	s := NewStub().WithClock(func() time.Time { return clock })
	ctx := context.Background()
	owner := Signer{From: ownerAddr}

	_, err := s.CreateConsent(ctx, owner, requesterAddr, now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = s.ChangeConsentStatus(ctx, owner, requesterAddr, ConsentGranted)
	require.NoError(t, err)

	granted, err := s.IsConsentGranted(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.True(t, granted)

	clock = now.Add(2 * time.Hour)

	granted, err = s.IsConsentGranted(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.False(t, granted, "past the validity window")

	detail, err := s.GetConsent(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.Equal(t, ConsentExpired, detail.Status)
}

func TestStub_ChangeStatusWithoutConsent(t *testing.T) {
	s := NewStub()
	_, err := s.ChangeConsentStatus(context.Background(), Signer{From: ownerAddr}, requesterAddr, ConsentGranted)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestStub_BrokerRequestDeniedWithoutConsent(t *testing.T) {
	s := NewStub()
	ctx := context.Background()

	_, err := s.Register(ctx, Signer{From: ownerAddr})
	require.NoError(t, err)
	_, err = s.UpdateProfile(ctx, Signer{From: ownerAddr}, ownerAddr, 3, 5)
	require.NoError(t, err)

	result, err := s.RequestCreditTier(ctx, Signer{From: requesterAddr}, ownerAddr)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, AccessDenied, result.Events[0].Kind)
	assert.Zero(t, result.Value)
}

func TestStub_BrokerRequestGrantedEmitsReward(t *testing.T) {
	now := time.Now()
	s := NewStub().WithClock(func() time.Time { return now })
	ctx := context.Background()
	owner := Signer{From: ownerAddr}

	_, err := s.Register(ctx, owner)
	require.NoError(t, err)
	_, err = s.UpdateProfile(ctx, owner, ownerAddr, 3, 5)
	require.NoError(t, err)
	_, err = s.CreateConsent(ctx, owner, requesterAddr, now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = s.ChangeConsentStatus(ctx, owner, requesterAddr, ConsentGranted)
	require.NoError(t, err)

	result, err := s.RequestCreditTier(ctx, Signer{From: requesterAddr}, ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Value)
	require.Len(t, result.Events, 2)
	assert.Equal(t, AccessGranted, result.Events[0].Kind)
	assert.Equal(t, RewardDistributed, result.Events[1].Kind)
	assert.Greater(t, result.Events[1].Amount, 0.0)

	band, err := s.RequestIncomeBand(ctx, Signer{From: requesterAddr}, ownerAddr)
	require.NoError(t, err)
	assert.Equal(t, 5, band.Value)
}

func TestStub_OwnershipSignatureRoundTrip(t *testing.T) {
	s := NewStub()
	ctx := context.Background()
	message := "AcmeBank-Verify-1700000000"

	sig, err := s.SignOwnershipChallenge(ctx, Signer{From: ownerAddr}, message)
	require.NoError(t, err)

	ok, err := s.VerifySignatureOwnership(ctx, ownerAddr, message, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.VerifySignatureOwnership(ctx, requesterAddr, message, sig)
	require.NoError(t, err)
	assert.False(t, ok, "signature is bound to the signing address")

	ok, err = s.VerifySignatureOwnership(ctx, ownerAddr, "different message", sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStub_GetIdentityNotRegistered(t *testing.T) {
	s := NewStub()
	_, err := s.GetIdentity(context.Background(), ownerAddr)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
