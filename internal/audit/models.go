// Package audit keeps the off-ledger trail of access decisions. Every broker
// request and consent-gated read leaves one event here regardless of outcome,
// so owners can see who asked for what and when.
package audit

import (
	"time"

	"github.com/google/uuid"

	"finshare/internal/finance"
)

// Decision is the outcome of one access attempt.
type Decision string

const (
	DecisionGranted Decision = "granted"
	DecisionDenied  Decision = "denied"
)

// Resource names what was asked for.
type Resource string

const (
	ResourceRecords    Resource = "records"
	ResourceCreditTier Resource = "creditTier"
	ResourceIncomeBand Resource = "incomeBand"
)

// Event is one recorded access decision.
type Event struct {
	ID           uuid.UUID       `json:"id"`
	Owner        finance.Address `json:"owner"`
	Requester    finance.Address `json:"requester"`
	Resource     Resource        `json:"resource"`
	Decision     Decision        `json:"decision"`
	RewardAmount float64         `json:"rewardAmount,omitempty"`
	TxHash       string          `json:"txHash,omitempty"`
	OccurredAt   time.Time       `json:"occurredAt"`
}
