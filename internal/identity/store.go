package identity

import (
	"context"
	"time"
)

// Store persists pending verification codes and recorded proofs.
//
// GetCode returns sentinel.ErrNotFound when no code is pending and
// sentinel.ErrExpired when the pending code's TTL has elapsed.
type Store interface {
	PutCode(ctx context.Context, owner string, code string, ttl time.Duration) error
	GetCode(ctx context.Context, owner string) (PendingCode, error)
	DeleteCode(ctx context.Context, owner string) error

	PutProof(ctx context.Context, owner string, slot ProofSlot, digest string) error
	GetProofs(ctx context.Context, owner string) (Proofs, error)
}
