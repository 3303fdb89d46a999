package audit

import (
	"context"
	"database/sql"
	"fmt"

	"finshare/internal/finance"
)

const accessEventsSchema = `
CREATE TABLE IF NOT EXISTS access_events (
	id            UUID PRIMARY KEY,
	owner_addr    TEXT NOT NULL,
	requester     TEXT NOT NULL,
	resource      TEXT NOT NULL,
	decision      TEXT NOT NULL,
	reward_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	tx_hash       TEXT NOT NULL DEFAULT '',
	occurred_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS access_events_owner_idx ON access_events (owner_addr, occurred_at DESC);
`

// PostgresStore persists access events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the access_events table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, accessEventsSchema); err != nil {
		return fmt.Errorf("ensure access_events schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, event Event) error {
	query := `
		INSERT INTO access_events (id, owner_addr, requester, resource, decision, reward_amount, tx_hash, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.Owner),
		string(event.Requester),
		string(event.Resource),
		string(event.Decision),
		event.RewardAmount,
		event.TxHash,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert access event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner finance.Address, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, owner_addr, requester, resource, decision, reward_amount, tx_hash, occurred_at
		FROM access_events
		WHERE owner_addr = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, string(owner), limit)
	if err != nil {
		return nil, fmt.Errorf("list access events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var ownerAddr, requester string
		if err := rows.Scan(&ev.ID, &ownerAddr, &requester, &ev.Resource, &ev.Decision, &ev.RewardAmount, &ev.TxHash, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan access event: %w", err)
		}
		ev.Owner = finance.Address(ownerAddr)
		ev.Requester = finance.Address(requester)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access events: %w", err)
	}
	return events, nil
}

var _ Store = (*PostgresStore)(nil)
