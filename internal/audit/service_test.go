package audit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finshare/internal/finance"
)

var (
	ownerAddr     = finance.Address("0x1111111111111111111111111111111111111111")
	requesterAddr = finance.Address("0x2222222222222222222222222222222222222222")
)

func TestRecord_FillsIDAndTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil, slog.Default())
	ctx := context.Background()

	err := svc.Record(ctx, Event{
		Owner:     ownerAddr,
		Requester: requesterAddr,
		Resource:  ResourceCreditTier,
		Decision:  DecisionGranted,
	})
	require.NoError(t, err)

	events, err := svc.History(ctx, ownerAddr, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestHistory_NewestFirstWithLimit(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil, slog.Default())
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record(ctx, Event{
			Owner:      ownerAddr,
			Requester:  requesterAddr,
			Resource:   ResourceRecords,
			Decision:   DecisionDenied,
			OccurredAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	// another owner's event must not leak in
	require.NoError(t, svc.Record(ctx, Event{
		Owner:     requesterAddr,
		Requester: ownerAddr,
		Resource:  ResourceRecords,
		Decision:  DecisionGranted,
	}))

	events, err := svc.History(ctx, ownerAddr, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, base.Add(4*time.Second), events[0].OccurredAt)
	assert.True(t, events[0].OccurredAt.After(events[1].OccurredAt))
	for _, ev := range events {
		assert.Equal(t, ownerAddr, ev.Owner)
	}
}
