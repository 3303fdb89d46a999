package consent

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"finshare/internal/finance"
	"finshare/internal/ledger"
	"finshare/internal/ledger/mocks"
	dErrors "finshare/pkg/domain-errors"
)

var (
	ownerAddr     = finance.Address("0x1111111111111111111111111111111111111111")
	requesterAddr = finance.Address("0x2222222222222222222222222222222222222222")
)

func newTestService(lc ledger.ConsentManager) *Service {
	return NewService(lc, slog.Default(), nil, time.Hour)
}

func TestIsGranted_FailsClosedOnLedgerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockClient(ctrl)
	mockLedger.EXPECT().
		IsConsentGranted(gomock.Any(), ownerAddr, requesterAddr).
		Return(false, dErrors.New(dErrors.CodeUnavailable, "node unreachable"))

	svc := newTestService(mockLedger)
	assert.False(t, svc.IsGranted(context.Background(), ownerAddr, requesterAddr))
}

func TestIsGranted_PassesThroughLedgerAnswer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockClient(ctrl)
	mockLedger.EXPECT().
		IsConsentGranted(gomock.Any(), ownerAddr, requesterAddr).
		Return(true, nil)

	svc := newTestService(mockLedger)
	assert.True(t, svc.IsGranted(context.Background(), ownerAddr, requesterAddr))
}

func TestStatusOf_SurfacesLedgerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockClient(ctrl)
	mockLedger.EXPECT().
		GetConsent(gomock.Any(), ownerAddr, requesterAddr).
		Return(ledger.ConsentDetail{}, dErrors.New(dErrors.CodeUnavailable, "node unreachable"))

	svc := newTestService(mockLedger)
	_, err := svc.StatusOf(context.Background(), ownerAddr, requesterAddr)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestGrant_CreatesThenGrantsWhenNoRecord(t *testing.T) {
	stub := ledger.NewStub()
	svc := newTestService(stub)
	ctx := context.Background()
	owner := ledger.Signer{From: ownerAddr}

	receipt, err := svc.Grant(ctx, owner, requesterAddr, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxHash)

	assert.True(t, svc.IsGranted(ctx, ownerAddr, requesterAddr))
}

func TestGrant_ReusesExistingRequestedRecord(t *testing.T) {
	stub := ledger.NewStub()
	svc := newTestService(stub)
	ctx := context.Background()
	owner := ledger.Signer{From: ownerAddr}

	_, err := svc.Create(ctx, owner, requesterAddr, time.Hour)
	require.NoError(t, err)

	_, err = svc.Grant(ctx, owner, requesterAddr, time.Hour)
	require.NoError(t, err)
	assert.True(t, svc.IsGranted(ctx, ownerAddr, requesterAddr))
}

func TestRevoke_TakesEffectImmediately(t *testing.T) {
	stub := ledger.NewStub()
	svc := newTestService(stub)
	ctx := context.Background()
	owner := ledger.Signer{From: ownerAddr}

	_, err := svc.Grant(ctx, owner, requesterAddr, time.Hour)
	require.NoError(t, err)
	require.True(t, svc.IsGranted(ctx, ownerAddr, requesterAddr))

	_, err = svc.Revoke(ctx, owner, requesterAddr)
	require.NoError(t, err)
	assert.False(t, svc.IsGranted(ctx, ownerAddr, requesterAddr))

	detail, err := svc.StatusOf(ctx, ownerAddr, requesterAddr)
	require.NoError(t, err)
	assert.Equal(t, ledger.ConsentRevoked, detail.Status)
}
