package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
)

// Service records access decisions and fans them out to the event stream.
type Service struct {
	store     Store
	publisher *Publisher
	logger    *slog.Logger
}

func NewService(store Store, publisher *Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, publisher: publisher, logger: logger}
}

// Record persists one decision. Store failure is an error; publish failure is
// only logged.
func (s *Service) Record(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := s.store.Insert(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "recording access event")
	}
	s.publisher.Publish(ctx, event)
	return nil
}

// History returns the owner's access trail, newest first.
func (s *Service) History(ctx context.Context, owner finance.Address, limit int) ([]Event, error) {
	events, err := s.store.ListByOwner(ctx, owner, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "listing access events")
	}
	return events, nil
}
