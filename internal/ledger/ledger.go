// Package ledger is the boundary to the external distributed ledger. The rest
// of the system treats it as a remote service exposing read/write calls; all
// writes are signed and return a receipt with the transaction identifier and
// inclusion block.
package ledger

//go:generate mockgen -destination=mocks/mocks.go -package=mocks finshare/internal/ledger Client

import (
	"context"
	"time"

	"finshare/internal/finance"
)

// Signer is a key material handle for ledger writes. Key custody beyond this
// handle is out of scope: the node (or stub) resolves the handle to an actual
// signing key.
type Signer struct {
	From      finance.Address
	KeyHandle string
}

// Receipt reports an accepted ledger write.
type Receipt struct {
	TxHash      string `json:"transactionHash"`
	BlockNumber uint64 `json:"blockNumber"`
}

// Identity is the on-ledger identity struct for an owner.
type Identity struct {
	DID             string
	CreditTierIndex int
	IncomeBandIndex int
	DataPointer     finance.Fingerprint
}

// ConsentStatus mirrors the on-ledger consent enum.
type ConsentStatus int

const (
	ConsentNone ConsentStatus = iota
	ConsentGranted
	ConsentRequested
	ConsentRevoked
	ConsentExpired
)

var consentStatusNames = []string{"None", "Granted", "Requested", "Revoked", "Expired"}

func (s ConsentStatus) String() string {
	if s >= 0 && int(s) < len(consentStatusNames) {
		return consentStatusNames[s]
	}
	return "Unknown"
}

// ConsentDetail is the read-only view of one consent record.
type ConsentDetail struct {
	ConsentID string
	Status    ConsentStatus
	StartDate time.Time
	EndDate   time.Time
}

// AccessEventKind labels events emitted by broker data requests.
type AccessEventKind string

const (
	AccessGranted     AccessEventKind = "DataAccessGranted"
	AccessDenied      AccessEventKind = "DataAccessDenied"
	RewardDistributed AccessEventKind = "RewardDistributed"
)

// AccessEvent is one event decoded from a broker transaction receipt.
type AccessEvent struct {
	Kind      AccessEventKind
	Owner     finance.Address
	Requester finance.Address
	Amount    float64 // reward amount, zero for access events
}

// BrokerResult is the outcome of a broker data request: the classification
// value read back from the registry plus the events the request emitted.
type BrokerResult struct {
	Value   int
	Receipt Receipt
	Events  []AccessEvent
}

// Registry groups the identity-registry calls.
type Registry interface {
	Register(ctx context.Context, signer Signer) (Receipt, error)
	UpdateDataPointer(ctx context.Context, signer Signer, pointer finance.Fingerprint) (Receipt, error)
	UpdateProfile(ctx context.Context, signer Signer, owner finance.Address, tierIndex, bandIndex int) (Receipt, error)
	GetIdentity(ctx context.Context, owner finance.Address) (Identity, error)
	GetCreditTier(ctx context.Context, owner finance.Address) (int, error)
	GetIncomeBand(ctx context.Context, owner finance.Address) (int, error)
	VerifySignatureOwnership(ctx context.Context, owner finance.Address, message, signature string) (bool, error)
	SignOwnershipChallenge(ctx context.Context, signer Signer, message string) (string, error)
}

// ConsentManager groups the consent-contract calls.
type ConsentManager interface {
	IsConsentGranted(ctx context.Context, owner, requester finance.Address) (bool, error)
	GetConsent(ctx context.Context, owner, requester finance.Address) (ConsentDetail, error)
	CreateConsent(ctx context.Context, signer Signer, requester finance.Address, start, end time.Time) (Receipt, error)
	ChangeConsentStatus(ctx context.Context, signer Signer, requester finance.Address, status ConsentStatus) (Receipt, error)
}

// Broker groups the data-broker calls issued by requesters.
type Broker interface {
	RequestCreditTier(ctx context.Context, signer Signer, owner finance.Address) (BrokerResult, error)
	RequestIncomeBand(ctx context.Context, signer Signer, owner finance.Address) (BrokerResult, error)
}

// Client is the full ledger surface.
type Client interface {
	Registry
	ConsentManager
	Broker
}
