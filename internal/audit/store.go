package audit

import (
	"context"

	"finshare/internal/finance"
)

// Store persists access events.
type Store interface {
	Insert(ctx context.Context, event Event) error
	// ListByOwner returns the owner's events, newest first, capped at limit.
	ListByOwner(ctx context.Context, owner finance.Address, limit int) ([]Event, error)
}
