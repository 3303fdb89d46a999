// Package consent gates every cross-party data access. Checks are answered by
// the ledger, never from a local cache: a revocation must take effect on the
// very next read.
package consent

import (
	"context"
	"log/slog"
	"time"

	"finshare/internal/finance"
	"finshare/internal/ledger"
	dErrors "finshare/pkg/domain-errors"
)

// Service wraps the on-ledger consent manager with fail-closed semantics and
// decision logging.
type Service struct {
	ledger       ledger.ConsentManager
	logger       *slog.Logger
	metrics      *Metrics
	defaultValid time.Duration
}

func NewService(lc ledger.ConsentManager, logger *slog.Logger, metrics *Metrics, defaultValid time.Duration) *Service {
	if defaultValid <= 0 {
		defaultValid = 30 * 24 * time.Hour
	}
	return &Service{ledger: lc, logger: logger, metrics: metrics, defaultValid: defaultValid}
}

// IsGranted reports whether requester may read owner's data right now. Any
// failure to reach the ledger counts as not granted; access control never
// falls open on infrastructure errors.
func (s *Service) IsGranted(ctx context.Context, owner, requester finance.Address) bool {
	granted, err := s.ledger.IsConsentGranted(ctx, owner, requester)
	if err != nil {
		s.logger.Warn("consent check failed, denying access",
			"owner", owner, "requester", requester, "error", err)
		s.metrics.ObserveCheck("error")
		return false
	}
	if granted {
		s.metrics.ObserveCheck("granted")
	} else {
		s.metrics.ObserveCheck("denied")
	}
	return granted
}

// StatusOf returns the full consent record for an owner/requester pair.
// Unlike IsGranted, remote failures surface as errors so callers can tell
// "denied" apart from "unknown".
func (s *Service) StatusOf(ctx context.Context, owner, requester finance.Address) (ledger.ConsentDetail, error) {
	detail, err := s.ledger.GetConsent(ctx, owner, requester)
	if err != nil {
		return ledger.ConsentDetail{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "reading consent status")
	}
	return detail, nil
}

// Create records a consent request from owner to requester. A zero validFor
// uses the configured default window.
func (s *Service) Create(ctx context.Context, signer ledger.Signer, requester finance.Address, validFor time.Duration) (ledger.Receipt, error) {
	if validFor <= 0 {
		validFor = s.defaultValid
	}
	start := time.Now()
	receipt, err := s.ledger.CreateConsent(ctx, signer, requester, start, start.Add(validFor))
	if err != nil {
		return ledger.Receipt{}, err
	}
	s.logger.Info("consent created",
		"owner", signer.From, "requester", requester, "tx", receipt.TxHash)
	return receipt, nil
}

// ChangeStatus transitions an existing consent record.
func (s *Service) ChangeStatus(ctx context.Context, signer ledger.Signer, requester finance.Address, status ledger.ConsentStatus) (ledger.Receipt, error) {
	receipt, err := s.ledger.ChangeConsentStatus(ctx, signer, requester, status)
	if err != nil {
		return ledger.Receipt{}, err
	}
	s.logger.Info("consent status changed",
		"owner", signer.From, "requester", requester, "status", status.String(), "tx", receipt.TxHash)
	return receipt, nil
}

// Grant creates a consent record if needed and moves it to Granted. It is the
// common two-step flow collapsed into one call for the owner-facing API.
func (s *Service) Grant(ctx context.Context, signer ledger.Signer, requester finance.Address, validFor time.Duration) (ledger.Receipt, error) {
	detail, err := s.StatusOf(ctx, signer.From, requester)
	if err != nil {
		return ledger.Receipt{}, err
	}
	if detail.Status == ledger.ConsentNone || detail.Status == ledger.ConsentExpired {
		if _, err := s.Create(ctx, signer, requester, validFor); err != nil {
			return ledger.Receipt{}, err
		}
	}
	return s.ChangeStatus(ctx, signer, requester, ledger.ConsentGranted)
}

// Revoke withdraws a previously granted consent.
func (s *Service) Revoke(ctx context.Context, signer ledger.Signer, requester finance.Address) (ledger.Receipt, error) {
	return s.ChangeStatus(ctx, signer, requester, ledger.ConsentRevoked)
}
