package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"finshare/internal/finance"
	dErrors "finshare/pkg/domain-errors"
	"finshare/pkg/platform/sentinel"
)

// Stub is an in-memory ledger for development and tests. It honors the same
// consent-window semantics the contracts enforce: a consent reads as granted
// only while its status is Granted and the current time falls inside its
// validity window.
type Stub struct {
	mu         sync.Mutex
	identities map[finance.Address]Identity
	consents   map[string]*ConsentDetail
	block      uint64
	rewardRate float64
	now        func() time.Time
}

func NewStub() *Stub {
	return &Stub{
		identities: make(map[finance.Address]Identity),
		consents:   make(map[string]*ConsentDetail),
		rewardRate: 1.0,
		now:        time.Now,
	}
}

// WithClock overrides the stub's clock. Tests use it to move time past
// consent windows and observe expiry.
func (s *Stub) WithClock(now func() time.Time) *Stub {
	s.now = now
	return s
}

func (s *Stub) nextReceipt() Receipt {
	s.block++
	sum := sha256.Sum256([]byte(fmt.Sprintf("stub-tx-%d", s.block)))
	return Receipt{TxHash: "0x" + hex.EncodeToString(sum[:]), BlockNumber: s.block}
}

func (s *Stub) Register(ctx context.Context, signer Signer) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[signer.From]; ok {
		return Receipt{}, dErrors.New(dErrors.CodeConflict, "identity already registered")
	}
	s.identities[signer.From] = Identity{DID: "did:fin:" + string(signer.From)}
	return s.nextReceipt(), nil
}

func (s *Stub) UpdateDataPointer(ctx context.Context, signer Signer, pointer finance.Fingerprint) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.identities[signer.From]
	if id.DID == "" {
		id.DID = "did:fin:" + string(signer.From)
	}
	id.DataPointer = pointer
	s.identities[signer.From] = id
	return s.nextReceipt(), nil
}

func (s *Stub) UpdateProfile(ctx context.Context, signer Signer, owner finance.Address, tierIndex, bandIndex int) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.identities[owner]
	if id.DID == "" {
		id.DID = "did:fin:" + string(owner)
	}
	id.CreditTierIndex = tierIndex
	id.IncomeBandIndex = bandIndex
	s.identities[owner] = id
	return s.nextReceipt(), nil
}

func (s *Stub) GetIdentity(ctx context.Context, owner finance.Address) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.identities[owner]
	if !ok {
		return Identity{}, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "identity not registered")
	}
	return id, nil
}

func (s *Stub) GetCreditTier(ctx context.Context, owner finance.Address) (int, error) {
	id, err := s.GetIdentity(ctx, owner)
	if err != nil {
		return 0, err
	}
	return id.CreditTierIndex, nil
}

func (s *Stub) GetIncomeBand(ctx context.Context, owner finance.Address) (int, error) {
	id, err := s.GetIdentity(ctx, owner)
	if err != nil {
		return 0, err
	}
	return id.IncomeBandIndex, nil
}

// SignOwnershipChallenge produces a deterministic pseudo-signature that
// VerifySignatureOwnership accepts for the same address and message.
func (s *Stub) SignOwnershipChallenge(ctx context.Context, signer Signer, message string) (string, error) {
	return "0x" + hex.EncodeToString(keccak256([]byte("stub-sign"), addressBytes(signer.From), ChallengeHash(message))), nil
}

func (s *Stub) VerifySignatureOwnership(ctx context.Context, owner finance.Address, message, signature string) (bool, error) {
	expected := "0x" + hex.EncodeToString(keccak256([]byte("stub-sign"), addressBytes(owner), ChallengeHash(message)))
	return signature == expected, nil
}

func (s *Stub) consentKey(owner, requester finance.Address) string {
	return ConsentID(requester, owner)
}

func (s *Stub) IsConsentGranted(ctx context.Context, owner, requester finance.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, ok := s.consents[s.consentKey(owner, requester)]
	if !ok || detail.Status != ConsentGranted {
		return false, nil
	}
	now := s.now()
	return !now.Before(detail.StartDate) && now.Before(detail.EndDate), nil
}

func (s *Stub) GetConsent(ctx context.Context, owner, requester finance.Address) (ConsentDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.consentKey(owner, requester)
	detail, ok := s.consents[key]
	if !ok {
		return ConsentDetail{ConsentID: key, Status: ConsentNone}, nil
	}
	out := *detail
	if out.Status == ConsentGranted && s.now().After(out.EndDate) {
		out.Status = ConsentExpired
	}
	return out, nil
}

func (s *Stub) CreateConsent(ctx context.Context, signer Signer, requester finance.Address, start, end time.Time) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.consentKey(signer.From, requester)
	s.consents[key] = &ConsentDetail{
		ConsentID: key,
		Status:    ConsentRequested,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
	}
	return s.nextReceipt(), nil
}

func (s *Stub) ChangeConsentStatus(ctx context.Context, signer Signer, requester finance.Address, status ConsentStatus) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.consentKey(signer.From, requester)
	detail, ok := s.consents[key]
	if !ok {
		return Receipt{}, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "consent does not exist")
	}
	detail.Status = status
	return s.nextReceipt(), nil
}

func (s *Stub) RequestCreditTier(ctx context.Context, signer Signer, owner finance.Address) (BrokerResult, error) {
	return s.brokerRequest(ctx, signer, owner, func(id Identity) int { return id.CreditTierIndex })
}

func (s *Stub) RequestIncomeBand(ctx context.Context, signer Signer, owner finance.Address) (BrokerResult, error) {
	return s.brokerRequest(ctx, signer, owner, func(id Identity) int { return id.IncomeBandIndex })
}

func (s *Stub) brokerRequest(ctx context.Context, signer Signer, owner finance.Address, read func(Identity) int) (BrokerResult, error) {
	granted, err := s.IsConsentGranted(ctx, owner, signer.From)
	if err != nil {
		return BrokerResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	receipt := s.nextReceipt()
	if !granted {
		return BrokerResult{
			Receipt: receipt,
			Events: []AccessEvent{
				{Kind: AccessDenied, Owner: owner, Requester: signer.From},
			},
		}, nil
	}
	id, ok := s.identities[owner]
	if !ok {
		return BrokerResult{}, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "identity not registered")
	}
	return BrokerResult{
		Value:   read(id),
		Receipt: receipt,
		Events: []AccessEvent{
			{Kind: AccessGranted, Owner: owner, Requester: signer.From},
			{Kind: RewardDistributed, Owner: owner, Requester: signer.From, Amount: s.rewardRate},
		},
	}, nil
}

var _ Client = (*Stub)(nil)
